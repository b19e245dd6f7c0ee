package models

// UserProfile is the canonical record for a registered account. Link state
// (shareCode, isConnected, connectedTo) lives here and nowhere else; there is
// no secondary copy in session preferences.
type UserProfile struct {
	UserID       string `json:"userId" dynamodbav:"userId"` // PK, immutable
	EmailID      string `json:"emailId" dynamodbav:"emailId"`
	PasswordHash string `json:"-" dynamodbav:"passwordHash"`
	FirstName    string `json:"firstName" dynamodbav:"firstName"`
	Surname      string `json:"surname" dynamodbav:"surname"`
	ShareCode    string `json:"shareCode" dynamodbav:"shareCode"` // 6-char uppercase alphanumeric, regenerable
	IsConnected  bool   `json:"isConnected" dynamodbav:"isConnected"`
	ConnectedTo  string `json:"connectedTo,omitempty" dynamodbav:"connectedTo,omitempty"` // partner userId, empty when unlinked
	PushToken    string `json:"pushToken,omitempty" dynamodbav:"pushToken,omitempty"`     // Native Notify subscriber id
	AvatarKey    string `json:"avatarKey,omitempty" dynamodbav:"avatarKey,omitempty"`
	CreatedAt    string `json:"createdAt" dynamodbav:"createdAt"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// GSI names on UserProfiles
const (
	EmailIndex     = "emailId-index"
	ShareCodeIndex = "shareCode-index"
)
