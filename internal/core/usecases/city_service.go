package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
)

// CityService handles world-city lookups and bulk imports.
type CityService struct {
	cities ports.CityRepository
	cache  ports.CacheService
}

// NewCityService creates a new CityService.
func NewCityService(cities ports.CityRepository, cache ports.CacheService) *CityService {
	return &CityService{cities: cities, cache: cache}
}

// Search performs fuzzy + full-text search on city names.
func (s *CityService) Search(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.City, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("cities:search:%s:%d", query, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cities []domain.City
			if err := json.Unmarshal(data, &cities); err == nil {
				return cities, nil
			}
		}
	}

	cities, err := s.cities.Search(ctx, query, near, limit)
	if err != nil {
		return nil, err
	}

	// The city list only changes on reimport.
	if s.cache != nil {
		if data, err := json.Marshal(cities); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return cities, nil
}

// FindNearby returns cities within radiusMeters of the given point.
func (s *CityService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.City, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("cities:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cities []domain.City
			if err := json.Unmarshal(data, &cities); err == nil {
				return cities, nil
			}
		}
	}

	cities, err := s.cities.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(cities); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return cities, nil
}

// ImportBatch upserts cities in chunks sized for pgx batching.
func (s *CityService) ImportBatch(ctx context.Context, cities []domain.City) (int, error) {
	const chunkSize = 500

	imported := 0
	for start := 0; start < len(cities); start += chunkSize {
		end := start + chunkSize
		if end > len(cities) {
			end = len(cities)
		}
		if err := s.cities.UpsertBatch(ctx, cities[start:end]); err != nil {
			return imported, fmt.Errorf("import cities %d-%d: %w", start, end, err)
		}
		imported += end - start
	}
	return imported, nil
}
