package ports

import (
	"context"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// ProfileRepository persists birth profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.BirthProfile) error
	GetByID(ctx context.Context, id string) (*domain.BirthProfile, error)
	List(ctx context.Context, limit, offset int) ([]domain.BirthProfile, error)
	// ListWatched returns profiles that opted into transit notifications.
	ListWatched(ctx context.Context) ([]domain.BirthProfile, error)
	SetWatched(ctx context.Context, id string, watched bool) error
	Delete(ctx context.Context, id string) error
}

// CityRepository persists the curated world-city list.
type CityRepository interface {
	UpsertBatch(ctx context.Context, cities []domain.City) error
	GetByID(ctx context.Context, id string) (*domain.City, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.City, error)
	Search(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.City, error)
	ListByPopulation(ctx context.Context, minPopulation int64, limit int) ([]domain.City, error)
	ListInBounds(ctx context.Context, bounds domain.Bounds, limit int) ([]domain.City, error)
}

// ReportRepository persists issued bond reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.BondReport) error
	GetByID(ctx context.Context, id string) (*domain.BondReport, error)
	ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.BondReport, error)
	Delete(ctx context.Context, id string) error
}
