package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/selenevara/astroatlas/internal/core/astro"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/pkg/geospatial"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// Radius for annotating overlap anchors with nearby cities.
const nearbyCityRadiusMeters = 250_000

// SynastryService compares two charts: composites, overlays, and bond
// summaries.
type SynastryService struct {
	profiles   ports.ProfileRepository
	cities     ports.CityRepository
	cache      ports.CacheService
	resolution float64
	thresholds astro.Thresholds
}

// NewSynastryService creates a new SynastryService.
func NewSynastryService(profiles ports.ProfileRepository, cities ports.CityRepository, cache ports.CacheService, resolution float64, thresholds astro.Thresholds) *SynastryService {
	return &SynastryService{profiles: profiles, cities: cities, cache: cache, resolution: resolution, thresholds: thresholds}
}

// CompositeChart merges two profiles' charts into a midpoint chart. The
// merge is order-independent, so the cache key normalizes the pair.
func (s *SynastryService) CompositeChart(ctx context.Context, idA, idB string, includeMinor bool) (*domain.Chart, error) {
	first, second := orderedPair(idA, idB)
	cacheKey := fmt.Sprintf("composite:%s:%s:%g:%t", first, second, s.resolution, includeMinor)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("composite").Inc()
			var chart domain.Chart
			if err := json.Unmarshal(data, &chart); err == nil {
				return &chart, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("composite").Inc()
		}
	}

	defer metrics.TimeOperation("composite")()

	profileA, profileB, err := s.loadPair(ctx, idA, idB)
	if err != nil {
		return nil, err
	}

	posA, gstA, err := chartInputs(*profileA, includeMinor)
	if err != nil {
		return nil, fmt.Errorf("chart for profile %s: %w", idA, err)
	}
	posB, gstB, err := chartInputs(*profileB, includeMinor)
	if err != nil {
		return nil, fmt.Errorf("chart for profile %s: %w", idB, err)
	}

	positions, gst := astro.Composite(posA, gstA, posB, gstB)
	chart := &domain.Chart{
		Positions:    positions,
		SiderealTime: gst,
		Lines:        astro.GenerateLines(positions, gst, domain.SourceComposite, s.resolution),
	}

	if s.cache != nil {
		if data, err := json.Marshal(chart); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400)
		}
	}

	return chart, nil
}

// Overlay returns both charts' lines side by side, retagged per owner, plus
// the tagged overlaps between corresponding lines.
func (s *SynastryService) Overlay(ctx context.Context, idA, idB string, includeMinor bool) ([]domain.AstroLine, []domain.SynastryOverlap, error) {
	defer metrics.TimeOperation("synastry")()

	profileA, profileB, err := s.loadPair(ctx, idA, idB)
	if err != nil {
		return nil, nil, err
	}

	posA, gstA, err := chartInputs(*profileA, includeMinor)
	if err != nil {
		return nil, nil, fmt.Errorf("chart for profile %s: %w", idA, err)
	}
	posB, gstB, err := chartInputs(*profileB, includeMinor)
	if err != nil {
		return nil, nil, fmt.Errorf("chart for profile %s: %w", idB, err)
	}

	linesA := astro.GenerateLines(posA, gstA, domain.SourceOwn, s.resolution)
	linesB := astro.GenerateLines(posB, gstB, domain.SourceOwn, s.resolution)

	lines, overlaps := astro.TagOverlaps(astro.SynastryPair(linesA, linesB), s.thresholds)
	return lines, overlaps, nil
}

// BondSummary computes the grouped overlap narrative for two profiles,
// annotated with cities near each group's anchors.
func (s *SynastryService) BondSummary(ctx context.Context, idA, idB string, includeMinor bool) (*domain.BondSummary, error) {
	defer metrics.TimeOperation("bond")()

	profileA, profileB, err := s.loadPair(ctx, idA, idB)
	if err != nil {
		return nil, err
	}

	summary, err := astro.GenerateBondSummary(*profileA, *profileB, includeMinor, s.resolution, s.thresholds, s.nearbyFunc(ctx))
	if err != nil {
		return nil, fmt.Errorf("bond summary for %s and %s: %w", idA, idB, err)
	}
	return &summary, nil
}

func (s *SynastryService) loadPair(ctx context.Context, idA, idB string) (*domain.BirthProfile, *domain.BirthProfile, error) {
	profileA, err := s.profiles.GetByID(ctx, idA)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile %s: %w", idA, err)
	}
	profileB, err := s.profiles.GetByID(ctx, idB)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile %s: %w", idB, err)
	}
	return profileA, profileB, nil
}

// nearbyFunc adapts the city repository to the engine's nearby-city
// collaborator. Lookup failures degrade to no annotation.
func (s *SynastryService) nearbyFunc(ctx context.Context) astro.NearbyFunc {
	if s.cities == nil {
		return nil
	}
	return func(p domain.GeoPoint, limit int) []domain.CityRef {
		cities, err := s.cities.FindNearby(ctx, p.Lat, p.Lon, nearbyCityRadiusMeters, limit)
		if err != nil {
			return nil
		}
		refs := make([]domain.CityRef, 0, len(cities))
		for _, c := range cities {
			ref := domain.CityRef{
				Name:    c.Name,
				Country: c.Country,
				Lat:     c.Location.Lat,
				Lon:     c.Location.Lon,
			}
			if c.Distance != nil {
				ref.DistanceKm = *c.Distance / 1000
			} else {
				ref.DistanceKm = geospatial.HaversineKm(p.Lat, p.Lon, c.Location.Lat, c.Location.Lon)
			}
			refs = append(refs, ref)
		}
		return refs
	}
}

func chartInputs(profile domain.BirthProfile, includeMinor bool) ([]domain.PlanetPosition, domain.SiderealTime, error) {
	positions, err := astro.Positions(profile.Date, profile.Time, profile.Lon, includeMinor)
	if err != nil {
		return nil, 0, err
	}
	gst, err := astro.SiderealTimeAt(profile.Date, profile.Time, profile.Lon)
	if err != nil {
		return nil, 0, err
	}
	return positions, gst, nil
}

func orderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
