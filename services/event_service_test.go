package services

import (
	"context"
	"testing"

	"pairplan_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventFixture(t *testing.T) (*EventService, *fakeProfileStore, *fakeEventStore, *fakePushSender, *recordingPublisher) {
	t.Helper()

	a := profileA()
	a.PushToken = "push-a"
	b := profileB()
	b.PushToken = "push-b"
	profiles := newFakeProfileStore(a, b)
	events := newFakeEventStore()
	push := &fakePushSender{}
	changes := &recordingPublisher{}

	svc := &EventService{Events: events, Profiles: profiles, Push: push, Changes: changes}
	return svc, profiles, events, push, changes
}

func linkPair(t *testing.T, profiles *fakeProfileStore) {
	t.Helper()
	links := &LinkService{Profiles: profiles}
	require.NoError(t, links.LinkAccounts(context.Background(), "user-a", "BBBBBB"))
}

func TestCreatePersonalEventConfirmed(t *testing.T) {
	svc, _, _, push, changes := newEventFixture(t)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Gym", JointEvent: false,
	})
	require.NoError(t, err)

	assert.Equal(t, models.EventStatusConfirmed, event.Status)
	assert.Empty(t, event.RecipientID)
	assert.Equal(t, "user-a", event.UserID)
	assert.Empty(t, push.sent(), "personal events must not notify anyone")

	mine, err := svc.GetOwnEvents(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pending, err := svc.GetPendingEvents(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Empty(t, pending, "personal events never appear in a pending list")

	require.Len(t, changes.published(), 1)
	assert.Equal(t, models.ChangeTypeCreate, changes.published()[0].Type)
}

func TestCreateJointEventPending(t *testing.T) {
	svc, profiles, _, push, _ := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.EventStatusPending, event.Status)
	assert.Equal(t, "user-b", event.RecipientID)

	pending, err := svc.GetPendingEvents(context.Background(), "user-b")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, event.EventID, pending[0].EventID)

	// Invite push goes to the recipient's token.
	calls := push.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "push-b", calls[0].SubID)
	assert.Equal(t, "You Have An Invite!", calls[0].Title)
	assert.Contains(t, calls[0].Message, "Alex invited you to: Dinner")
}

func TestCreateJointEventRequiresPartner(t *testing.T) {
	svc, _, _, _, _ := newEventFixture(t)

	// user-a is not linked to anyone
	_, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateEventRequiresTitle(t *testing.T) {
	svc, _, _, _, _ := newEventFixture(t)

	_, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{Title: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateEventPushFailureDoesNotBlock(t *testing.T) {
	svc, profiles, _, push, _ := newEventFixture(t)
	linkPair(t, profiles)
	push.err = assert.AnError

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err, "push delivery failure must not fail the create")
	assert.Equal(t, models.EventStatusPending, event.Status)
}

func TestAcceptEvent(t *testing.T) {
	svc, profiles, _, push, changes := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	updated, err := svc.AcceptEvent(context.Background(), "user-b", event.EventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusConfirmed, updated.Status)

	// Gone from the recipient's pending list.
	pending, err := svc.GetPendingEvents(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Owner is notified of the outcome (second push after the invite).
	calls := push.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, "push-a", calls[1].SubID)
	assert.Equal(t, "Event Accepted 🎉", calls[1].Title)
	assert.Contains(t, calls[1].Message, `"Dinner" was accepted`)

	published := changes.published()
	require.Len(t, published, 2)
	assert.Equal(t, models.ChangeTypeUpdate, published[1].Type)
	assert.Equal(t, models.EventStatusConfirmed, published[1].Payload.Status)
}

func TestDeclineEvent(t *testing.T) {
	svc, profiles, _, push, _ := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	updated, err := svc.DeclineEvent(context.Background(), "user-b", event.EventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusDeclined, updated.Status)

	calls := push.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, "Event Declined", calls[1].Title)
}

func TestAcceptEventOnlyRecipient(t *testing.T) {
	svc, profiles, _, _, _ := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	// The owner cannot accept their own invite.
	_, err = svc.AcceptEvent(context.Background(), "user-a", event.EventID)
	assert.ErrorIs(t, err, ErrNotRecipient)

	// Neither can a stranger.
	_, err = svc.DeclineEvent(context.Background(), "user-x", event.EventID)
	assert.ErrorIs(t, err, ErrNotRecipient)
}

func TestAcceptDeclineTerminal(t *testing.T) {
	svc, profiles, events, _, _ := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	_, err = svc.AcceptEvent(context.Background(), "user-b", event.EventID)
	require.NoError(t, err)

	// Confirmed and declined are terminal: no further transitions.
	_, err = svc.DeclineEvent(context.Background(), "user-b", event.EventID)
	assert.ErrorIs(t, err, ErrTerminal)
	_, err = svc.AcceptEvent(context.Background(), "user-b", event.EventID)
	assert.ErrorIs(t, err, ErrTerminal)

	stored, err := events.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusConfirmed, stored.Status)
}

// staleReadEventStore serves reads from a fixed snapshot while writes hit the
// live store, simulating a second responder racing past the pre-write check.
type staleReadEventStore struct {
	*fakeEventStore
	stale models.Event
}

func (s *staleReadEventStore) Get(_ context.Context, eventID string) (*models.Event, error) {
	copy := s.stale
	return &copy, nil
}

func TestRespondLostRaceKeepsTerminalStatus(t *testing.T) {
	svc, profiles, events, _, _ := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	// First response wins and confirms the event.
	_, err = svc.AcceptEvent(context.Background(), "user-b", event.EventID)
	require.NoError(t, err)

	// A concurrent decliner read the event while it was still pending. The
	// conditional write rejects the overwrite.
	stale := *event
	stale.Status = models.EventStatusPending
	svc.Events = &staleReadEventStore{fakeEventStore: events, stale: stale}

	_, err = svc.DeclineEvent(context.Background(), "user-b", event.EventID)
	assert.ErrorIs(t, err, ErrTerminal)

	stored, err := events.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusConfirmed, stored.Status)
}

func TestDeleteEventOwnerOnly(t *testing.T) {
	svc, profiles, _, push, changes := newEventFixture(t)
	linkPair(t, profiles)

	event, err := svc.CreateEvent(context.Background(), "user-a", CreateEventInput{
		Title: "Dinner", JointEvent: true,
	})
	require.NoError(t, err)

	err = svc.DeleteEvent(context.Background(), "user-b", event.EventID)
	assert.ErrorIs(t, err, ErrNotOwner)

	pushCount := len(push.sent())
	require.NoError(t, svc.DeleteEvent(context.Background(), "user-a", event.EventID))

	_, err = svc.AcceptEvent(context.Background(), "user-b", event.EventID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, push.sent(), pushCount, "deletion notifies nobody")

	published := changes.published()
	assert.Equal(t, models.ChangeTypeDelete, published[len(published)-1].Type)
}

func TestGetPartnerEventsUnlinked(t *testing.T) {
	svc, _, _, _, _ := newEventFixture(t)

	events, err := svc.GetPartnerEvents(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetPartnerEventsListsPartnerOwned(t *testing.T) {
	svc, profiles, _, _, _ := newEventFixture(t)
	linkPair(t, profiles)

	_, err := svc.CreateEvent(context.Background(), "user-b", CreateEventInput{Title: "Yoga"})
	require.NoError(t, err)

	events, err := svc.GetPartnerEvents(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Yoga", events[0].Title)
}
