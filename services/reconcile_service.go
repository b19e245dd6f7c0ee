package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// ReconcileService repairs link state left inconsistent by a crash between
// the two sequential profile writes in LinkAccounts/UnlinkAccounts. A
// profile whose connectedTo does not point back is one-sided; the dangling
// side is cleared. Repair never completes a half-finished link; completing
// could turn an interrupted unlink back into a link neither user confirmed.
type ReconcileService struct {
	Profiles ProfileStore
}

// Run performs one reconciliation pass and returns the number of repaired
// profiles.
func (s *ReconcileService) Run(ctx context.Context) (int, error) {
	linked, err := s.Profiles.ListLinked(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile scan failed: %w", err)
	}

	repaired := 0
	for _, p := range linked {
		if p.ConnectedTo == "" {
			// Connected flag with no partner reference.
			if err := s.clear(ctx, p.UserID); err != nil {
				return repaired, err
			}
			repaired++
			continue
		}

		partner, err := s.Profiles.Get(ctx, p.ConnectedTo)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				if err := s.clear(ctx, p.UserID); err != nil {
					return repaired, err
				}
				repaired++
				continue
			}
			return repaired, err
		}

		if partner.ConnectedTo != p.UserID {
			if err := s.clear(ctx, p.UserID); err != nil {
				return repaired, err
			}
			repaired++
		}
	}
	return repaired, nil
}

func (s *ReconcileService) clear(ctx context.Context, userID string) error {
	log.Printf("🔧 clearing one-sided link on profile %s", userID)
	_, err := s.Profiles.Update(ctx, userID, map[string]interface{}{
		"isConnected": false,
		"connectedTo": nil,
	})
	return err
}

// Start schedules periodic reconciliation passes and returns the running
// scheduler. schedule accepts cron syntax, e.g. "@every 10m".
func (s *ReconcileService) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		repaired, err := s.Run(context.Background())
		if err != nil {
			log.Printf("❌ link reconciliation failed: %v", err)
			return
		}
		if repaired > 0 {
			log.Printf("✅ link reconciliation repaired %d profile(s)", repaired)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
