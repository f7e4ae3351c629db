package usecases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/selenevara/astroatlas/internal/core/astro"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/usecases"
)

// --- Mock CityRepository ---

type mockCityRepo struct {
	upsertBatchFn      func(ctx context.Context, cities []domain.City) error
	getByIDFn          func(ctx context.Context, id string) (*domain.City, error)
	findNearbyFn       func(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.City, error)
	searchFn           func(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.City, error)
	listByPopulationFn func(ctx context.Context, minPopulation int64, limit int) ([]domain.City, error)
	listInBoundsFn     func(ctx context.Context, bounds domain.Bounds, limit int) ([]domain.City, error)
}

func (m *mockCityRepo) UpsertBatch(ctx context.Context, cities []domain.City) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, cities)
	}
	return nil
}

func (m *mockCityRepo) GetByID(ctx context.Context, id string) (*domain.City, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCityRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.City, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radiusMeters, limit)
	}
	return nil, nil
}

func (m *mockCityRepo) Search(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.City, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, near, limit)
	}
	return nil, nil
}

func (m *mockCityRepo) ListByPopulation(ctx context.Context, minPopulation int64, limit int) ([]domain.City, error) {
	if m.listByPopulationFn != nil {
		return m.listByPopulationFn(ctx, minPopulation, limit)
	}
	return nil, nil
}

func (m *mockCityRepo) ListInBounds(ctx context.Context, bounds domain.Bounds, limit int) ([]domain.City, error) {
	if m.listInBoundsFn != nil {
		return m.listInBoundsFn(ctx, bounds, limit)
	}
	return nil, nil
}

func secondProfile() domain.BirthProfile {
	return domain.BirthProfile{
		Name: "Kenji",
		Date: domain.CivilDate{Year: 1993, Month: 8, Day: 21},
		Time: domain.CivilTime{Hour: 4, Minute: 50},
		Lat:  35.6762,
		Lon:  139.6917,
	}
}

func twoProfileRepo(a, b domain.BirthProfile) *mockProfileRepo {
	return &mockProfileRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.BirthProfile, error) {
			switch id {
			case "a":
				p := a
				p.ID = id
				return &p, nil
			case "b":
				p := b
				p.ID = id
				return &p, nil
			}
			return nil, domain.ErrNotFound
		},
	}
}

// --- Tests ---

func TestSynastryService_CompositeChart(t *testing.T) {
	repo := twoProfileRepo(validProfile(), secondProfile())
	svc := usecases.NewSynastryService(repo, nil, nil, 1, astro.DefaultThresholds())

	chart, err := svc.CompositeChart(context.Background(), "a", "b", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chart.Positions) != 10 {
		t.Errorf("expected 10 merged positions, got %d", len(chart.Positions))
	}
	if len(chart.Lines) == 0 {
		t.Fatal("expected composite lines")
	}
	for _, line := range chart.Lines {
		if line.Source != domain.SourceComposite {
			t.Errorf("line %s: expected composite source, got %s", line.ID, line.Source)
		}
	}
}

func TestSynastryService_CompositeChart_CacheKeyIsOrderIndependent(t *testing.T) {
	repo := twoProfileRepo(validProfile(), secondProfile())

	var keys []string
	cache := &mockCache{
		setFn: func(ctx context.Context, key string, value []byte, ttlSeconds int) error {
			keys = append(keys, key)
			return nil
		},
	}

	svc := usecases.NewSynastryService(repo, nil, cache, 1, astro.DefaultThresholds())
	if _, err := svc.CompositeChart(context.Background(), "a", "b", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CompositeChart(context.Background(), "b", "a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("expected 2 cache writes, got %d", len(keys))
	}
	if keys[0] != keys[1] {
		t.Errorf("expected normalized cache key, got %q and %q", keys[0], keys[1])
	}
}

func TestSynastryService_Overlay(t *testing.T) {
	repo := twoProfileRepo(validProfile(), validProfile())
	svc := usecases.NewSynastryService(repo, nil, nil, 1, astro.DefaultThresholds())

	lines, overlaps, err := svc.Overlay(context.Background(), "a", "b", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var own, partner int
	for _, line := range lines {
		switch line.Source {
		case domain.SourceOwn:
			own++
		case domain.SourcePartner:
			partner++
		default:
			t.Errorf("line %s: unexpected source %s", line.ID, line.Source)
		}
	}
	if own == 0 || partner == 0 {
		t.Fatalf("expected lines from both charts, got %d own and %d partner", own, partner)
	}

	if len(overlaps) == 0 {
		t.Fatal("expected overlaps for identical charts")
	}
	for _, o := range overlaps {
		if o.Kind != domain.Harmonious {
			t.Errorf("%s %s: expected harmonious for identical charts, got %s", o.Planet, o.Type, o.Kind)
		}
	}
}

func TestSynastryService_BondSummary_AnnotatesNearbyCities(t *testing.T) {
	repo := twoProfileRepo(validProfile(), validProfile())

	meters := 150000.0
	cities := &mockCityRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.City, error) {
			return []domain.City{{
				ID:       "city-1",
				Name:     "Lyon",
				Country:  "FR",
				Location: domain.GeoPoint{Lat: 45.76, Lon: 4.84},
				Distance: &meters,
			}}, nil
		},
	}

	svc := usecases.NewSynastryService(repo, cities, nil, 1, astro.DefaultThresholds())
	summary, err := svc.BondSummary(context.Background(), "a", "b", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Groups) != 6 {
		t.Fatalf("expected all six overlap groups, got %d", len(summary.Groups))
	}
	group := summary.Groups[0]
	if group.Kind != domain.Harmonious {
		t.Errorf("expected harmonious group first, got %s", group.Kind)
	}
	if len(group.Overlaps) == 0 {
		t.Fatal("expected identical charts to land in the harmonious group")
	}
	if len(group.NearbyCities) != 1 {
		t.Fatalf("expected deduplicated city annotation, got %d", len(group.NearbyCities))
	}
	city := group.NearbyCities[0]
	if city.Name != "Lyon" {
		t.Errorf("expected Lyon, got %s", city.Name)
	}
	if city.DistanceKm != 150 {
		t.Errorf("expected repository distance converted to km, got %f", city.DistanceKm)
	}
}

func TestSynastryService_BondSummary_MissingProfile(t *testing.T) {
	repo := twoProfileRepo(validProfile(), secondProfile())
	svc := usecases.NewSynastryService(repo, nil, nil, 1, astro.DefaultThresholds())

	_, err := svc.BondSummary(context.Background(), "a", "missing", false)
	if err == nil {
		t.Fatal("expected error for missing profile")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("expected error to name the profile, got %v", err)
	}
}
