package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/usecases"
)

// --- Mock ProfileRepository ---

type mockProfileRepo struct {
	createFn      func(ctx context.Context, profile *domain.BirthProfile) error
	getByIDFn     func(ctx context.Context, id string) (*domain.BirthProfile, error)
	listFn        func(ctx context.Context, limit, offset int) ([]domain.BirthProfile, error)
	listWatchedFn func(ctx context.Context) ([]domain.BirthProfile, error)
	setWatchedFn  func(ctx context.Context, id string, watched bool) error
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.BirthProfile) error {
	if m.createFn != nil {
		return m.createFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*domain.BirthProfile, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) List(ctx context.Context, limit, offset int) ([]domain.BirthProfile, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockProfileRepo) ListWatched(ctx context.Context) ([]domain.BirthProfile, error) {
	if m.listWatchedFn != nil {
		return m.listWatchedFn(ctx)
	}
	return nil, nil
}

func (m *mockProfileRepo) SetWatched(ctx context.Context, id string, watched bool) error {
	if m.setWatchedFn != nil {
		return m.setWatchedFn(ctx, id, watched)
	}
	return nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	getFn            func(ctx context.Context, key string) ([]byte, error)
	setFn            func(ctx context.Context, key string, value []byte, ttlSeconds int) error
	deleteFn         func(ctx context.Context, key string) error
	deleteByPrefixFn func(ctx context.Context, prefix string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttlSeconds)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if m.deleteByPrefixFn != nil {
		return m.deleteByPrefixFn(ctx, prefix)
	}
	return nil
}

func validProfile() domain.BirthProfile {
	return domain.BirthProfile{
		Name: "Ana",
		Date: domain.CivilDate{Year: 1988, Month: 10, Day: 3},
		Time: domain.CivilTime{Hour: 14, Minute: 25},
		Lat:  48.8566,
		Lon:  2.3522,
	}
}

// --- Tests ---

func TestProfileService_Create_AssignsID(t *testing.T) {
	var stored *domain.BirthProfile
	repo := &mockProfileRepo{
		createFn: func(ctx context.Context, profile *domain.BirthProfile) error {
			stored = profile
			return nil
		},
	}

	svc := usecases.NewProfileService(repo, nil)
	profile := validProfile()
	if err := svc.Create(context.Background(), &profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(profile.ID) != 36 {
		t.Errorf("expected uuid ID, got %q", profile.ID)
	}
	if profile.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if stored == nil || stored.ID != profile.ID {
		t.Error("profile was not stored")
	}
}

func TestProfileService_Create_RejectsInvalidBirthData(t *testing.T) {
	svc := usecases.NewProfileService(&mockProfileRepo{}, nil)

	profile := validProfile()
	profile.Date.Day = 30
	profile.Date.Month = 2
	err := svc.Create(context.Background(), &profile)
	if !errors.Is(err, domain.ErrInvalidBirthData) {
		t.Errorf("expected ErrInvalidBirthData for feb 30, got %v", err)
	}
}

func TestProfileService_Create_RejectsEmptyName(t *testing.T) {
	svc := usecases.NewProfileService(&mockProfileRepo{}, nil)

	profile := validProfile()
	profile.Name = ""
	err := svc.Create(context.Background(), &profile)
	if !errors.Is(err, domain.ErrInvalidBirthData) {
		t.Errorf("expected ErrInvalidBirthData for empty name, got %v", err)
	}
}

func TestProfileService_GetByID(t *testing.T) {
	repo := &mockProfileRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.BirthProfile, error) {
			p := validProfile()
			p.ID = id
			return &p, nil
		},
	}

	svc := usecases.NewProfileService(repo, nil)
	profile, err := svc.GetByID(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ID != "abc-123" {
		t.Errorf("expected id abc-123, got %s", profile.ID)
	}
}

func TestProfileService_List_ClampsLimit(t *testing.T) {
	repo := &mockProfileRepo{
		listFn: func(ctx context.Context, limit, offset int) ([]domain.BirthProfile, error) {
			if limit != 50 {
				t.Errorf("expected limit clamped to 50, got %d", limit)
			}
			if offset != 0 {
				t.Errorf("expected offset clamped to 0, got %d", offset)
			}
			return nil, nil
		},
	}

	svc := usecases.NewProfileService(repo, nil)
	_, _ = svc.List(context.Background(), 999, -3)
}

func TestProfileService_SetWatched_InvalidatesCache(t *testing.T) {
	var deleted string
	cache := &mockCache{
		deleteFn: func(ctx context.Context, key string) error {
			deleted = key
			return nil
		},
	}

	svc := usecases.NewProfileService(&mockProfileRepo{}, cache)
	if err := svc.SetWatched(context.Background(), "abc-123", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "profiles:id:abc-123" {
		t.Errorf("expected cache invalidation, got %q", deleted)
	}
}

func TestProfileService_Delete_PurgesChartCache(t *testing.T) {
	var purgedPrefix string
	cache := &mockCache{
		deleteByPrefixFn: func(ctx context.Context, prefix string) error {
			purgedPrefix = prefix
			return nil
		},
	}

	svc := usecases.NewProfileService(&mockProfileRepo{}, cache)
	if err := svc.Delete(context.Background(), "abc-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purgedPrefix != "chart:abc-123:" {
		t.Errorf("expected chart cache purge, got %q", purgedPrefix)
	}
}

func TestProfileService_Delete_PropagatesError(t *testing.T) {
	repo := &mockProfileRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrNotFound
		},
	}

	svc := usecases.NewProfileService(repo, nil)
	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
