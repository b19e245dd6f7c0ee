package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"

	"pairplan_server/models"
)

const (
	shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shareCodeLength   = 6

	// At 36^6 codes a collision is unlikely but not impossible; generation
	// retries against the share-code index instead of carrying the risk.
	shareCodeAttempts = 5
)

// LinkService establishes and tears down the one-to-one connection between
// two user profiles via a short human-shareable code. The two profile writes
// in LinkAccounts and UnlinkAccounts are sequential and not transactional;
// the reconciliation sweep clears any one-sided link left behind by a crash
// between them.
type LinkService struct {
	Profiles ProfileStore
}

// randomShareCode produces a 6-character uppercase alphanumeric token.
// Bytes at or above the largest multiple of the alphabet size are rejected so
// every character is equally likely.
func randomShareCode() (string, error) {
	const limit = 256 - 256%len(shareCodeAlphabet)

	code := make([]byte, 0, shareCodeLength)
	buf := make([]byte, shareCodeLength)
	for len(code) < shareCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, shareCodeAlphabet[int(b)%len(shareCodeAlphabet)])
			if len(code) == shareCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// GenerateShareCode returns a share code not currently held by any profile.
func (s *LinkService) GenerateShareCode(ctx context.Context) (string, error) {
	for i := 0; i < shareCodeAttempts; i++ {
		code, err := randomShareCode()
		if err != nil {
			return "", err
		}

		_, err = s.Profiles.GetByShareCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		log.Printf("⚠️ share code collision on %s, regenerating", code)
	}
	return "", errors.New("failed to generate a unique share code")
}

// RegenerateShareCode rotates the caller's share code to a fresh unique code
// and returns it. The old code stops matching immediately.
func (s *LinkService) RegenerateShareCode(ctx context.Context, userID string) (string, error) {
	code, err := s.GenerateShareCode(ctx)
	if err != nil {
		return "", err
	}

	if _, err := s.Profiles.Update(ctx, userID, map[string]interface{}{"shareCode": code}); err != nil {
		return "", err
	}
	return code, nil
}

// LinkAccounts connects the caller to the profile holding shareCode. Both
// profiles end up pointing at each other. An already-connected caller is
// rejected so no account ever holds two partners.
func (s *LinkService) LinkAccounts(ctx context.Context, callerID, shareCode string) error {
	code := strings.ToUpper(strings.TrimSpace(shareCode))
	if code == "" {
		return fmt.Errorf("%w: share code is required", ErrValidation)
	}

	caller, err := s.Profiles.Get(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.IsConnected || caller.ConnectedTo != "" {
		return ErrAlreadyLinked
	}

	target, err := s.Profiles.GetByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("invalid share code: %w", ErrNotFound)
		}
		return err
	}

	if target.UserID == caller.UserID {
		return ErrSelfLink
	}
	if target.IsConnected || target.ConnectedTo != "" {
		return fmt.Errorf("that account %w", ErrAlreadyLinked)
	}

	// Two independent writes. A crash here leaves a one-sided link until the
	// next reconciliation pass.
	if _, err := s.Profiles.Update(ctx, caller.UserID, map[string]interface{}{
		"isConnected": true,
		"connectedTo": target.UserID,
	}); err != nil {
		return err
	}
	if _, err := s.Profiles.Update(ctx, target.UserID, map[string]interface{}{
		"isConnected": true,
		"connectedTo": caller.UserID,
	}); err != nil {
		return err
	}

	log.Printf("✅ linked accounts %s <-> %s", caller.UserID, target.UserID)
	return nil
}

// UnlinkAccounts tears the caller's connection down symmetrically. The
// partner is resolved from the caller's own connectedTo reference, so a
// caller can only ever clear their own pair. A missing partner document is
// treated as a soft disconnect, not an error: the caller's side is still
// cleared.
func (s *LinkService) UnlinkAccounts(ctx context.Context, callerID string) error {
	caller, err := s.Profiles.Get(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsConnected && caller.ConnectedTo == "" {
		return fmt.Errorf("%w: account is not linked", ErrValidation)
	}
	partnerUserID := caller.ConnectedTo

	if _, err := s.Profiles.Update(ctx, callerID, map[string]interface{}{
		"isConnected": false,
		"connectedTo": nil,
	}); err != nil {
		return err
	}

	if partnerUserID == "" {
		return nil
	}
	partner, err := s.Profiles.Get(ctx, partnerUserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("⚠️ partner %s not found while unlinking %s", partnerUserID, callerID)
			return nil
		}
		return err
	}
	// Only clear the partner if they still point back at the caller; a stale
	// reference must not touch someone else's pair.
	if partner.ConnectedTo != callerID {
		log.Printf("⚠️ partner %s no longer references %s, leaving it untouched", partnerUserID, callerID)
		return nil
	}
	if _, err := s.Profiles.Update(ctx, partnerUserID, map[string]interface{}{
		"isConnected": false,
		"connectedTo": nil,
	}); err != nil {
		return err
	}

	log.Printf("✅ unlinked accounts %s / %s", callerID, partnerUserID)
	return nil
}

// FetchConnectedUser resolves the caller's partner to a live profile
// snapshot. A nil profile with no error means "no partner": either the
// reference is unset or the referenced profile no longer exists.
func (s *LinkService) FetchConnectedUser(ctx context.Context, callerID string) (*models.UserProfile, error) {
	caller, err := s.Profiles.Get(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.ConnectedTo == "" {
		return nil, nil
	}

	partner, err := s.Profiles.Get(ctx, caller.ConnectedTo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return partner, nil
}
