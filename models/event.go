package models

// Event represents a calendar event in DynamoDB. Personal events are created
// confirmed; joint events are created pending and carry the invited partner's
// userId in recipientId.
type Event struct {
	EventID     string `json:"eventId" dynamodbav:"eventId"`                             // PK
	UserID      string `json:"userId" dynamodbav:"userId"`                               // owner/creator
	RecipientID string `json:"recipientId,omitempty" dynamodbav:"recipientId,omitempty"` // set only when jointEvent is true
	Title       string `json:"title" dynamodbav:"title"`
	Details     string `json:"details,omitempty" dynamodbav:"details,omitempty"`
	Location    string `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Date        string `json:"date" dynamodbav:"date"`
	Time        string `json:"time" dynamodbav:"time"`
	JointEvent  bool   `json:"jointEvent" dynamodbav:"jointEvent"`
	Status      string `json:"status" dynamodbav:"status"` // "pending", "confirmed", "declined"
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
}

// TableName returns the DynamoDB table name
func (Event) TableName() string {
	return "Events"
}

// GSI names on Events
const (
	EventOwnerIndex     = "userId-index"
	EventRecipientIndex = "recipientId-index"
)

// Terminal reports whether the event can no longer change status. Confirmed
// and declined are terminal states.
func (e Event) Terminal() bool {
	return e.Status == EventStatusConfirmed || e.Status == EventStatusDeclined
}
