package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pairplan_server/models"

	"github.com/google/uuid"
)

// ChangePublisher receives a change notification after every successful
// event mutation. The realtime bus implements it; a nil publisher disables
// fan-out.
type ChangePublisher interface {
	PublishChange(change models.EventChange)
}

// EventService owns the event status state machine and its side effects:
// invite and outcome pushes, and change publication for the realtime
// channel. Status mutations happen in the store first; pushes are
// best-effort and never roll a committed transition back.
type EventService struct {
	Events   EventStore
	Profiles ProfileStore
	Push     PushSender
	Changes  ChangePublisher
}

// CreateEventInput carries the user-supplied event fields. Date and time are
// kept as independent strings, matching the stored document shape.
type CreateEventInput struct {
	Title      string `json:"title"`
	Details    string `json:"details"`
	Location   string `json:"location"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	JointEvent bool   `json:"jointEvent"`
}

// CreateEvent persists a new event for callerID. Joint events require a
// connected partner, start pending and trigger a best-effort invite push to
// the partner; personal events are confirmed immediately.
func (s *EventService) CreateEvent(ctx context.Context, callerID string, in CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	event := models.Event{
		EventID:    uuid.NewString(),
		UserID:     callerID,
		Title:      in.Title,
		Details:    in.Details,
		Location:   in.Location,
		Date:       in.Date,
		Time:       in.Time,
		JointEvent: in.JointEvent,
		Status:     models.EventStatusConfirmed,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	var sender *models.UserProfile
	if in.JointEvent {
		caller, err := s.Profiles.Get(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if caller.ConnectedTo == "" {
			return nil, fmt.Errorf("%w: a connected partner is required for joint events", ErrValidation)
		}
		if _, err := s.Profiles.Get(ctx, caller.ConnectedTo); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: connected partner no longer exists", ErrValidation)
			}
			return nil, err
		}

		event.RecipientID = caller.ConnectedTo
		event.Status = models.EventStatusPending
		sender = caller
	}

	if err := s.Events.Put(ctx, event); err != nil {
		return nil, err
	}

	if event.JointEvent {
		senderName := sender.FirstName
		if senderName == "" {
			senderName = sender.EmailID
		}
		s.notifyUser(ctx, event.RecipientID, "You Have An Invite!",
			fmt.Sprintf("%s invited you to: %s. Status: Pending.", senderName, event.Title))
	}

	s.publish(models.ChangeTypeCreate, event)
	return &event, nil
}

// AcceptEvent transitions a pending event to confirmed. Only the invited
// recipient may call it, and only while the event is still pending.
func (s *EventService) AcceptEvent(ctx context.Context, callerID, eventID string) (*models.Event, error) {
	return s.respond(ctx, callerID, eventID, models.EventStatusConfirmed)
}

// DeclineEvent transitions a pending event to declined, under the same rules
// as AcceptEvent.
func (s *EventService) DeclineEvent(ctx context.Context, callerID, eventID string) (*models.Event, error) {
	return s.respond(ctx, callerID, eventID, models.EventStatusDeclined)
}

func (s *EventService) respond(ctx context.Context, callerID, eventID, status string) (*models.Event, error) {
	event, err := s.Events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.RecipientID != callerID {
		return nil, ErrNotRecipient
	}
	if event.Terminal() {
		return nil, ErrTerminal
	}

	updated, err := s.Events.UpdateStatus(ctx, eventID, status)
	if err != nil {
		return nil, err
	}

	// The status change is committed; the owner push must not undo or block it.
	if event.UserID != callerID {
		if status == models.EventStatusConfirmed {
			s.notifyUser(ctx, event.UserID, "Event Accepted 🎉",
				fmt.Sprintf("Your event %q was accepted 🎉", event.Title))
		} else {
			s.notifyUser(ctx, event.UserID, "Event Declined",
				fmt.Sprintf("Your event %q was declined", event.Title))
		}
	}

	s.publish(models.ChangeTypeUpdate, *updated)
	return updated, nil
}

// DeleteEvent removes an event. Owner-only; the other party is not notified.
func (s *EventService) DeleteEvent(ctx context.Context, callerID, eventID string) error {
	event, err := s.Events.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.UserID != callerID {
		return ErrNotOwner
	}

	if err := s.Events.Delete(ctx, eventID); err != nil {
		return err
	}

	s.publish(models.ChangeTypeDelete, *event)
	return nil
}

// GetOwnEvents lists the events the caller created.
func (s *EventService) GetOwnEvents(ctx context.Context, userID string) ([]models.Event, error) {
	return s.Events.ListByOwner(ctx, userID)
}

// GetPartnerEvents lists the connected partner's events. An unlinked caller
// gets an empty list, not an error.
func (s *EventService) GetPartnerEvents(ctx context.Context, userID string) ([]models.Event, error) {
	caller, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if caller.ConnectedTo == "" {
		return []models.Event{}, nil
	}
	return s.Events.ListByOwner(ctx, caller.ConnectedTo)
}

// GetPendingEvents lists joint events still awaiting the caller's decision.
func (s *EventService) GetPendingEvents(ctx context.Context, userID string) ([]models.Event, error) {
	return s.Events.ListPendingForRecipient(ctx, userID)
}

// notifyUser delivers a push to userID's registered token. Missing tokens
// and delivery failures are logged and swallowed.
func (s *EventService) notifyUser(ctx context.Context, userID, title, message string) {
	if s.Push == nil || userID == "" {
		return
	}

	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		log.Printf("⚠️ push skipped, failed to load profile %s: %v", userID, err)
		return
	}
	if profile.PushToken == "" {
		return
	}

	if err := s.Push.SendToUser(ctx, profile.PushToken, title, message); err != nil {
		log.Printf("⚠️ push to %s failed: %v", userID, err)
	}
}

func (s *EventService) publish(changeType string, event models.Event) {
	if s.Changes == nil {
		return
	}
	s.Changes.PublishChange(models.EventChange{Type: changeType, Payload: event})
}
