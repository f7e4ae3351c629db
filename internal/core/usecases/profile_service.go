package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// ProfileService manages birth profiles.
type ProfileService struct {
	profiles ports.ProfileRepository
	cache    ports.CacheService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ports.ProfileRepository, cache ports.CacheService) *ProfileService {
	return &ProfileService{profiles: profiles, cache: cache}
}

// Create validates and stores a new profile, assigning its ID.
func (s *ProfileService) Create(ctx context.Context, profile *domain.BirthProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if profile.Name == "" {
		return fmt.Errorf("profile name must not be empty: %w", domain.ErrInvalidBirthData)
	}

	profile.ID = uuid.NewString()
	profile.CreatedAt = time.Now().UTC()

	if err := s.profiles.Create(ctx, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetByID returns a single profile.
func (s *ProfileService) GetByID(ctx context.Context, id string) (*domain.BirthProfile, error) {
	cacheKey := "profiles:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			metrics.CacheHits.WithLabelValues("profile").Inc()
			var profile domain.BirthProfile
			if err := json.Unmarshal(data, &profile); err == nil {
				return &profile, nil
			}
		} else {
			metrics.CacheMisses.WithLabelValues("profile").Inc()
		}
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(profile); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return profile, nil
}

// List returns stored profiles, newest first.
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]domain.BirthProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.profiles.List(ctx, limit, offset)
}

// SetWatched toggles transit notifications for a profile.
func (s *ProfileService) SetWatched(ctx context.Context, id string, watched bool) error {
	if err := s.profiles.SetWatched(ctx, id, watched); err != nil {
		return fmt.Errorf("set watched on profile %s: %w", id, err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "profiles:id:"+id)
	}
	return nil
}

// Delete removes a profile and its cached copies, charts included.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "profiles:id:"+id)
		_ = s.cache.DeleteByPrefix(ctx, "chart:"+id+":")
	}
	return nil
}
