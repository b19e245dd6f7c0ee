package services

import (
	"context"
	"log"
	"sync"

	"pairplan_server/models"
)

// FeedSnapshot is the full three-list view pushed to a subscribed client.
type FeedSnapshot struct {
	MyEvents      []models.Event `json:"myEvents"`
	PartnerEvents []models.Event `json:"partnerEvents"`
	PendingEvents []models.Event `json:"pendingEvents"`
}

// EventFeed mirrors the three event lists one client renders: own events,
// partner events, and joint events pending the client's decision. Every
// relevant change triggers an unconditional re-fetch of all three lists,
// wholesale replacement rather than delta application. A closed feed never applies
// fetch results or emits again.
type EventFeed struct {
	userID string
	events *EventService
	onSync func(FeedSnapshot)

	mu        sync.RWMutex
	closed    bool
	partnerID string
	my        []models.Event
	partner   []models.Event
	pending   []models.Event
}

// NewEventFeed builds a feed for userID. onSync is invoked with a fresh
// snapshot after every successful refresh; it may be nil.
func NewEventFeed(userID string, events *EventService, onSync func(FeedSnapshot)) *EventFeed {
	return &EventFeed{userID: userID, events: events, onSync: onSync}
}

// Refresh re-fetches all three lists and replaces the in-memory state. Two
// overlapping refreshes may race; last write wins, and the next refresh
// corrects any stale read.
func (f *EventFeed) Refresh(ctx context.Context) error {
	caller, err := f.events.Profiles.Get(ctx, f.userID)
	if err != nil {
		return err
	}

	my, err := f.events.GetOwnEvents(ctx, f.userID)
	if err != nil {
		return err
	}
	pending, err := f.events.GetPendingEvents(ctx, f.userID)
	if err != nil {
		return err
	}
	partner := []models.Event{}
	if caller.ConnectedTo != "" {
		partner, err = f.events.GetPartnerEvents(ctx, f.userID)
		if err != nil {
			return err
		}
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.partnerID = caller.ConnectedTo
	f.my = my
	f.partner = partner
	f.pending = pending
	onSync := f.onSync
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if onSync != nil {
		onSync(snapshot)
	}
	return nil
}

// Apply inspects a change notification and refreshes when its payload
// concerns the feed's user or their partner.
func (f *EventFeed) Apply(ctx context.Context, change models.EventChange) {
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		return
	}
	partnerID := f.partnerID
	f.mu.RUnlock()

	payload := change.Payload
	relevant := payload.UserID == f.userID ||
		payload.RecipientID == f.userID ||
		(partnerID != "" && (payload.UserID == partnerID || payload.RecipientID == partnerID))
	if !relevant {
		return
	}

	if err := f.Refresh(ctx); err != nil {
		log.Printf("⚠️ feed refresh for %s failed: %v", f.userID, err)
	}
}

// Snapshot returns a copy of the current lists.
func (f *EventFeed) Snapshot() FeedSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

func (f *EventFeed) snapshotLocked() FeedSnapshot {
	return FeedSnapshot{
		MyEvents:      append([]models.Event{}, f.my...),
		PartnerEvents: append([]models.Event{}, f.partner...),
		PendingEvents: append([]models.Event{}, f.pending...),
	}
}

// Close tears the feed down. In-flight refreshes finish but their results
// are discarded.
func (f *EventFeed) Close() {
	f.mu.Lock()
	f.closed = true
	f.onSync = nil
	f.mu.Unlock()
}

// FeedManager tracks one feed per realtime connection and routes change
// notifications to them.
type FeedManager struct {
	events *EventService

	mu    sync.Mutex
	feeds map[string]*EventFeed // keyed by connection id
}

func NewFeedManager(events *EventService) *FeedManager {
	return &FeedManager{events: events, feeds: make(map[string]*EventFeed)}
}

// Open registers a feed for a connection, replacing any feed the connection
// already had.
func (m *FeedManager) Open(connID, userID string, onSync func(FeedSnapshot)) *EventFeed {
	feed := NewEventFeed(userID, m.events, onSync)

	m.mu.Lock()
	if old, ok := m.feeds[connID]; ok {
		old.Close()
	}
	m.feeds[connID] = feed
	m.mu.Unlock()
	return feed
}

// Close tears down the feed for a connection, if any.
func (m *FeedManager) Close(connID string) {
	m.mu.Lock()
	feed, ok := m.feeds[connID]
	delete(m.feeds, connID)
	m.mu.Unlock()

	if ok {
		feed.Close()
	}
}

// Dispatch fans a change notification out to every open feed.
func (m *FeedManager) Dispatch(change models.EventChange) {
	m.mu.Lock()
	feeds := make([]*EventFeed, 0, len(m.feeds))
	for _, f := range m.feeds {
		feeds = append(feeds, f)
	}
	m.mu.Unlock()

	for _, f := range feeds {
		go f.Apply(context.Background(), change)
	}
}
