package models

// Event statuses
const (
	EventStatusPending   = "pending"
	EventStatusConfirmed = "confirmed"
	EventStatusDeclined  = "declined"
)

// Change types delivered on the realtime channel
const (
	ChangeTypeCreate = "create"
	ChangeTypeUpdate = "update"
	ChangeTypeDelete = "delete"
)
