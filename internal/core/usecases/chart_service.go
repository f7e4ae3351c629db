package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/selenevara/astroatlas/internal/core/astro"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// ChartService computes natal charts and their angularity lines.
type ChartService struct {
	profiles   ports.ProfileRepository
	cache      ports.CacheService
	resolution float64
	thresholds astro.Thresholds
}

// NewChartService creates a new ChartService.
func NewChartService(profiles ports.ProfileRepository, cache ports.CacheService, resolution float64, thresholds astro.Thresholds) *ChartService {
	return &ChartService{profiles: profiles, cache: cache, resolution: resolution, thresholds: thresholds}
}

// ForProfile computes the chart for a stored profile. Charts are immutable
// per profile, so cache entries live a full day.
func (s *ChartService) ForProfile(ctx context.Context, profileID string, includeMinor bool) (*domain.Chart, error) {
	cacheKey := fmt.Sprintf("chart:%s:%g:%t", profileID, s.resolution, includeMinor)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("chart").Inc()
			var chart domain.Chart
			if err := json.Unmarshal(data, &chart); err == nil {
				return &chart, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("chart").Inc()
		}
	}

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", profileID, err)
	}

	chart, err := s.ForBirth(ctx, *profile, includeMinor)
	if err != nil {
		return nil, err
	}
	chart.ProfileID = profileID

	if s.cache != nil {
		if data, err := json.Marshal(chart); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400)
		}
	}

	return chart, nil
}

// ForBirth computes a chart directly from birth data without persistence.
func (s *ChartService) ForBirth(ctx context.Context, profile domain.BirthProfile, includeMinor bool) (*domain.Chart, error) {
	defer metrics.TimeOperation("chart")()

	positions, err := astro.Positions(profile.Date, profile.Time, profile.Lon, includeMinor)
	if err != nil {
		return nil, fmt.Errorf("compute positions: %w", err)
	}
	gst, err := astro.SiderealTimeAt(profile.Date, profile.Time, profile.Lon)
	if err != nil {
		return nil, fmt.Errorf("compute sidereal time: %w", err)
	}

	return &domain.Chart{
		Positions:    positions,
		SiderealTime: gst,
		Lines:        astro.GenerateLines(positions, gst, domain.SourceOwn, s.resolution),
	}, nil
}

// NearestToPoint ranks a profile's lines by distance from a query point.
func (s *ChartService) NearestToPoint(ctx context.Context, profileID string, point domain.GeoPoint, maxResults int, hideMild, includeMinor bool) ([]domain.NearestLineResult, error) {
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 50
	}

	chart, err := s.ForProfile(ctx, profileID, includeMinor)
	if err != nil {
		return nil, err
	}

	results := astro.NearestLines(chart.Lines, point, maxResults, s.thresholds)
	return astro.FilterByImpact(results, hideMild), nil
}

// LinesByKeyword returns the profile's lines whose pairing matches a life
// theme such as "love" or "work", alias expansion included.
func (s *ChartService) LinesByKeyword(ctx context.Context, profileID, keyword string, includeMinor bool) ([]domain.AstroLine, error) {
	if keyword == "" {
		return nil, fmt.Errorf("keyword must not be empty")
	}

	chart, err := s.ForProfile(ctx, profileID, includeMinor)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.AstroLine, 0, len(chart.Lines))
	for _, line := range chart.Lines {
		if astro.MatchesKeyword(line.Planet, line.Type, keyword) {
			matched = append(matched, line)
		}
	}
	return matched, nil
}
