package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/selenevara/astroatlas/internal/core/astro"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/pkg/memo"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// TransitService computes transit activations. The engine recomputes from
// scratch on every call; memoization lives here, keyed per profile and day,
// so results stay warm across the scan loop and API reads alike.
type TransitService struct {
	profiles   ports.ProfileRepository
	publisher  ports.EventPublisher
	thresholds astro.Thresholds
	memo       *memo.Cache[string, []domain.LineActivation]
}

// NewTransitService creates a new TransitService.
func NewTransitService(profiles ports.ProfileRepository, publisher ports.EventPublisher, thresholds astro.Thresholds) *TransitService {
	return &TransitService{
		profiles:   profiles,
		publisher:  publisher,
		thresholds: thresholds,
		memo:       memo.New[string, []domain.LineActivation](4096, time.Hour),
	}
}

// ActivationsOn returns the aspects in orb between the sky on scrubDate and
// a profile's natal chart.
func (s *TransitService) ActivationsOn(ctx context.Context, profileID string, scrubDate domain.CivilDate) ([]domain.LineActivation, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", profileID, err)
	}

	key := fmt.Sprintf("%s:%s", profileID, scrubDate)
	return s.memo.Do(key, func() ([]domain.LineActivation, error) {
		defer metrics.TimeOperation("transit")()
		return astro.CurrentActivations(profile.Date, profile.Time, profile.Lon, scrubDate, s.thresholds)
	})
}

// ActivationsToday is ActivationsOn for the current UTC date.
func (s *TransitService) ActivationsToday(ctx context.Context, profileID string) ([]domain.LineActivation, error) {
	now := time.Now().UTC()
	today := domain.CivilDate{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
	return s.ActivationsOn(ctx, profileID, today)
}

// ScanWatched recomputes activations for every watched profile and publishes
// the non-empty results. Per-profile failures are counted and skipped so one
// bad profile cannot stall the scan.
func (s *TransitService) ScanWatched(ctx context.Context, scrubDate domain.CivilDate) (int, error) {
	start := time.Now()
	defer func() {
		metrics.TransitScanDuration.Observe(time.Since(start).Seconds())
	}()

	watched, err := s.profiles.ListWatched(ctx)
	if err != nil {
		metrics.TransitScanErrors.Inc()
		return 0, fmt.Errorf("list watched profiles: %w", err)
	}

	published := 0
	for _, profile := range watched {
		key := fmt.Sprintf("%s:%s", profile.ID, scrubDate)
		date, civilTime, lon := profile.Date, profile.Time, profile.Lon
		activations, err := s.memo.Do(key, func() ([]domain.LineActivation, error) {
			defer metrics.TimeOperation("transit")()
			return astro.CurrentActivations(date, civilTime, lon, scrubDate, s.thresholds)
		})
		if err != nil {
			metrics.TransitScanErrors.Inc()
			continue
		}
		if len(activations) == 0 || s.publisher == nil {
			continue
		}
		if err := s.publisher.PublishActivations(ctx, profile.ID, activations); err != nil {
			metrics.TransitScanErrors.Inc()
			continue
		}
		metrics.ActivationsPublished.Inc()
		published++
	}

	return published, nil
}
