package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/selenevara/astroatlas/internal/core/astro"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/pkg/geospatial"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// HotspotService finds cities sitting under a profile's lines.
type HotspotService struct {
	charts *ChartService
	cities ports.CityRepository
}

// NewHotspotService creates a new HotspotService.
func NewHotspotService(charts *ChartService, cities ports.CityRepository) *HotspotService {
	return &HotspotService{charts: charts, cities: cities}
}

// MajorCities scans the most populous cities and keeps those inside an
// influence band of any of the profile's lines, closest first.
func (s *HotspotService) MajorCities(ctx context.Context, profileID string, minPopulation int64, limit int, includeMinor bool) ([]domain.CityHotspot, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if minPopulation <= 0 {
		minPopulation = 500_000
	}

	cities, err := s.cities.ListByPopulation(ctx, minPopulation, 1000)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	return s.rank(ctx, profileID, cities, limit, includeMinor)
}

// ScanViewport keeps the hotspot scan inside a map viewport given as a
// center point and radius.
func (s *HotspotService) ScanViewport(ctx context.Context, profileID string, center domain.GeoPoint, radiusMeters float64, limit int, includeMinor bool) ([]domain.CityHotspot, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("viewport radius must be positive")
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(center.Lat, center.Lon, radiusMeters)
	bounds := domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}

	cities, err := s.cities.ListInBounds(ctx, bounds, 1000)
	if err != nil {
		return nil, fmt.Errorf("list cities in viewport: %w", err)
	}

	return s.rank(ctx, profileID, cities, limit, includeMinor)
}

func (s *HotspotService) rank(ctx context.Context, profileID string, cities []domain.City, limit int, includeMinor bool) ([]domain.CityHotspot, error) {
	defer metrics.TimeOperation("hotspot")()

	chart, err := s.charts.ForProfile(ctx, profileID, includeMinor)
	if err != nil {
		return nil, err
	}

	hotspots := make([]domain.CityHotspot, 0, len(cities))
	for _, city := range cities {
		nearest := astro.NearestLines(chart.Lines, city.Location, 1, s.charts.thresholds)
		if len(nearest) == 0 || nearest[0].Band == domain.Weak {
			continue
		}
		hotspots = append(hotspots, domain.CityHotspot{
			City:     city,
			Line:     nearest[0].Line,
			Distance: nearest[0].Distance,
			Band:     nearest[0].Band,
		})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Distance != hotspots[j].Distance {
			return hotspots[i].Distance < hotspots[j].Distance
		}
		return hotspots[i].City.ID < hotspots[j].City.ID
	})

	if len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}
	return hotspots, nil
}
