package models

// Session is an opaque bearer token issued at login. ExpiresAt is epoch
// seconds so the attribute doubles as a DynamoDB TTL field.
type Session struct {
	Token     string `json:"token" dynamodbav:"token"` // PK
	UserID    string `json:"userId" dynamodbav:"userId"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	ExpiresAt int64  `json:"expiresAt" dynamodbav:"expiresAt"`
}

// SessionsTable is the DynamoDB table name for sessions
const SessionsTable = "Sessions"
