package services

import "errors"

// Failure taxonomy for the linking and event flows. Services wrap these
// sentinels with context via fmt.Errorf and %w; controllers map them to HTTP
// statuses and surface err.Error() as the inline message. Nothing here is
// fatal; every failure degrades to "operation did not complete, retry".
var (
	// ErrNotFound covers profile/document lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers missing required fields and password policy
	// violations.
	ErrValidation = errors.New("invalid input")

	// ErrSelfLink is returned when an account submits its own share code.
	ErrSelfLink = errors.New("you cannot link to your own share code")

	// ErrAlreadyLinked is returned when a linking attempt would give an
	// account a second partner.
	ErrAlreadyLinked = errors.New("account is already linked to a partner")

	// ErrNotRecipient is returned when anyone other than the invited partner
	// tries to accept or decline a joint event.
	ErrNotRecipient = errors.New("only the invited partner can respond to this event")

	// ErrNotOwner is returned when someone other than the creator tries to
	// delete an event.
	ErrNotOwner = errors.New("only the event owner can delete this event")

	// ErrTerminal is returned when accepting or declining an event that has
	// already been confirmed or declined.
	ErrTerminal = errors.New("event has already been responded to")

	// ErrUnauthorized covers missing or expired sessions and bad credentials.
	ErrUnauthorized = errors.New("no authenticated user found")
)
