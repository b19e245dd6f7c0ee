package services

import (
	"context"
	"fmt"
	"sync"

	"pairplan_server/models"
)

// In-memory store fakes shared by the service tests.

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
	getCalls int
}

func newFakeProfileStore(profiles ...models.UserProfile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[string]models.UserProfile)}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

func (s *fakeProfileStore) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	copy := p
	return &copy, nil
}

func (s *fakeProfileStore) GetByEmail(_ context.Context, emailID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.EmailID == emailID {
			copy := p
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("profile: %w", ErrNotFound)
}

func (s *fakeProfileStore) GetByShareCode(_ context.Context, shareCode string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ShareCode == shareCode {
			copy := p
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("profile: %w", ErrNotFound)
}

func (s *fakeProfileStore) Put(_ context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *fakeProfileStore) Update(_ context.Context, userID string, updates map[string]interface{}) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}

	for k, v := range updates {
		switch k {
		case "isConnected":
			p.IsConnected = v.(bool)
		case "connectedTo":
			if v == nil {
				p.ConnectedTo = ""
			} else {
				p.ConnectedTo = v.(string)
			}
		case "shareCode":
			p.ShareCode = v.(string)
		case "pushToken":
			p.PushToken = v.(string)
		case "passwordHash":
			p.PasswordHash = v.(string)
		case "firstName":
			p.FirstName = v.(string)
		case "surname":
			p.Surname = v.(string)
		case "avatarKey":
			p.AvatarKey = v.(string)
		default:
			return nil, fmt.Errorf("fake store: unexpected update field %q", k)
		}
	}

	s.profiles[userID] = p
	copy := p
	return &copy, nil
}

func (s *fakeProfileStore) ListLinked(_ context.Context) ([]models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var linked []models.UserProfile
	for _, p := range s.profiles {
		if p.IsConnected {
			linked = append(linked, p)
		}
	}
	return linked, nil
}

func (s *fakeProfileStore) get(userID string) models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID]
}

type fakeEventStore struct {
	mu        sync.Mutex
	events    map[string]models.Event
	listCalls int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]models.Event)}
}

func (s *fakeEventStore) Get(_ context.Context, eventID string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	copy := e
	return &copy, nil
}

func (s *fakeEventStore) Put(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.EventID] = event
	return nil
}

func (s *fakeEventStore) UpdateStatus(_ context.Context, eventID, status string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	if e.Status != models.EventStatusPending {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrTerminal)
	}
	e.Status = status
	s.events[eventID] = e
	copy := e
	return &copy, nil
}

func (s *fakeEventStore) Delete(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, eventID)
	return nil
}

func (s *fakeEventStore) ListByOwner(_ context.Context, userID string) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	events := []models.Event{}
	for _, e := range s.events {
		if e.UserID == userID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (s *fakeEventStore) ListPendingForRecipient(_ context.Context, userID string) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	events := []models.Event{}
	for _, e := range s.events {
		if e.RecipientID == userID && e.Status == models.EventStatusPending {
			events = append(events, e)
		}
	}
	return events, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]models.Session)}
}

func (s *fakeSessionStore) Put(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	copy := session
	return &copy, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

type pushCall struct {
	SubID   string
	Title   string
	Message string
}

type fakePushSender struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (s *fakePushSender) SendToUser(_ context.Context, subID, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, pushCall{SubID: subID, Title: title, Message: message})
	return s.err
}

func (s *fakePushSender) sent() []pushCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pushCall{}, s.calls...)
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []models.EventChange
}

func (p *recordingPublisher) PublishChange(change models.EventChange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
}

func (p *recordingPublisher) published() []models.EventChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.EventChange{}, p.changes...)
}
