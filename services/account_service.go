package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pairplan_server/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	sessionTTL        = 30 * 24 * time.Hour
)

// AccountService handles registration, login and session resolution.
// Registration creates the profile document with its initial share code; the
// profile document is the single source of truth for link state.
type AccountService struct {
	Profiles ProfileStore
	Sessions SessionStore
	Links    *LinkService
}

// Register creates an account, its profile document and a first session.
func (s *AccountService) Register(ctx context.Context, emailID, password, confirmPassword, firstName, surname string) (*models.UserProfile, *models.Session, error) {
	emailID = strings.ToLower(strings.TrimSpace(emailID))
	switch {
	case emailID == "":
		return nil, nil, fmt.Errorf("%w: email is required", ErrValidation)
	case firstName == "" || surname == "":
		return nil, nil, fmt.Errorf("%w: first name and surname are required", ErrValidation)
	case len(password) < minPasswordLength:
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	case password != confirmPassword:
		return nil, nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	if _, err := s.Profiles.GetByEmail(ctx, emailID); err == nil {
		return nil, nil, fmt.Errorf("%w: an account with this email already exists", ErrValidation)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	shareCode, err := s.Links.GenerateShareCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	profile := models.UserProfile{
		UserID:       uuid.NewString(),
		EmailID:      emailID,
		PasswordHash: string(hash),
		FirstName:    firstName,
		Surname:      surname,
		ShareCode:    shareCode,
		IsConnected:  false,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Profiles.Put(ctx, profile); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, profile.UserID)
	if err != nil {
		return nil, nil, err
	}
	return &profile, session, nil
}

// Login verifies credentials and issues a new session.
func (s *AccountService) Login(ctx context.Context, emailID, password string) (*models.UserProfile, *models.Session, error) {
	emailID = strings.ToLower(strings.TrimSpace(emailID))

	profile, err := s.Profiles.GetByEmail(ctx, emailID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	session, err := s.createSession(ctx, profile.UserID)
	if err != nil {
		return nil, nil, err
	}
	return profile, session, nil
}

// Logout deletes the session for the given token.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token to the profile it belongs to.
func (s *AccountService) CurrentUser(ctx context.Context, token string) (*models.UserProfile, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.Sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if time.Now().Unix() > session.ExpiresAt {
		return nil, fmt.Errorf("session expired: %w", ErrUnauthorized)
	}

	profile, err := s.Profiles.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return profile, nil
}

// ChangePassword verifies the current password and replaces it with a new
// one. The new password has to meet the same policy as registration.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) error {
	switch {
	case len(newPassword) < minPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	case newPassword != confirmPassword:
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.Profiles.Update(ctx, userID, map[string]interface{}{"passwordHash": string(hash)})
	return err
}

// UpdateName changes the account's display name.
func (s *AccountService) UpdateName(ctx context.Context, userID, firstName, surname string) (*models.UserProfile, error) {
	firstName = strings.TrimSpace(firstName)
	surname = strings.TrimSpace(surname)
	if firstName == "" || surname == "" {
		return nil, fmt.Errorf("%w: first name and surname are required", ErrValidation)
	}

	return s.Profiles.Update(ctx, userID, map[string]interface{}{
		"firstName": firstName,
		"surname":   surname,
	})
}

// UpdateAvatarKey records the storage key of the account's uploaded avatar.
func (s *AccountService) UpdateAvatarKey(ctx context.Context, userID, avatarKey string) error {
	if avatarKey == "" {
		return fmt.Errorf("%w: avatar key is required", ErrValidation)
	}
	_, err := s.Profiles.Update(ctx, userID, map[string]interface{}{"avatarKey": avatarKey})
	return err
}

// UpdatePushToken stores the Native Notify subscriber id for the account.
func (s *AccountService) UpdatePushToken(ctx context.Context, userID, pushToken string) error {
	if pushToken == "" {
		return fmt.Errorf("%w: push token is required", ErrValidation)
	}
	_, err := s.Profiles.Update(ctx, userID, map[string]interface{}{"pushToken": pushToken})
	return err
}

func (s *AccountService) createSession(ctx context.Context, userID string) (*models.Session, error) {
	now := time.Now().UTC()
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(sessionTTL).Unix(),
	}
	if err := s.Sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}
