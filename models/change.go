package models

// EventChange is the notification fanned out on the realtime channel when an
// event document is created, updated or deleted. Subscribers treat it as an
// invalidation signal and re-fetch their lists rather than applying a delta.
type EventChange struct {
	Type    string `json:"type"` // "create", "update", "delete"
	Payload Event  `json:"payload"`
}
