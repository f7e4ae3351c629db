package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// ProfileRepo implements ports.ProfileRepository with pgx.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Create inserts a new birth profile.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.BirthProfile) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO birth_profiles (id, name, birth_date, birth_time, location, watched, created_at)
		VALUES ($1, $2, make_date($3, $4, $5), make_time($6, $7, 0.0),
		        ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography, $10, $11)
	`, p.ID, p.Name,
		p.Date.Year, p.Date.Month, p.Date.Day,
		p.Time.Hour, p.Time.Minute,
		p.Lon, p.Lat, p.Watched, p.CreatedAt)
	return err
}

// GetByID returns a profile by UUID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*domain.BirthProfile, error) {
	var p domain.BirthProfile
	var birthDate time.Time
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, birth_date,
		       EXTRACT(HOUR FROM birth_time)::int,
		       EXTRACT(MINUTE FROM birth_time)::int,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       watched, created_at
		FROM birth_profiles WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &birthDate,
		&p.Time.Hour, &p.Time.Minute,
		&p.Lat, &p.Lon, &p.Watched, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	p.Date = domain.CivilDate{Year: birthDate.Year(), Month: int(birthDate.Month()), Day: birthDate.Day()}
	return &p, nil
}

// List returns profiles ordered newest first.
func (r *ProfileRepo) List(ctx context.Context, limit, offset int) ([]domain.BirthProfile, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, birth_date,
		       EXTRACT(HOUR FROM birth_time)::int,
		       EXTRACT(MINUTE FROM birth_time)::int,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       watched, created_at
		FROM birth_profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// ListWatched returns profiles that opted into transit notifications.
func (r *ProfileRepo) ListWatched(ctx context.Context) ([]domain.BirthProfile, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, birth_date,
		       EXTRACT(HOUR FROM birth_time)::int,
		       EXTRACT(MINUTE FROM birth_time)::int,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       watched, created_at
		FROM birth_profiles
		WHERE watched
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// SetWatched toggles transit notifications for a profile.
func (r *ProfileRepo) SetWatched(ctx context.Context, id string, watched bool) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE birth_profiles SET watched = $2 WHERE id = $1
	`, id, watched)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a profile. Reports cascade in the schema.
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM birth_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanProfiles(rows pgx.Rows) ([]domain.BirthProfile, error) {
	var profiles []domain.BirthProfile
	for rows.Next() {
		var p domain.BirthProfile
		var birthDate time.Time
		if err := rows.Scan(
			&p.ID, &p.Name, &birthDate,
			&p.Time.Hour, &p.Time.Minute,
			&p.Lat, &p.Lon, &p.Watched, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.Date = domain.CivilDate{Year: birthDate.Year(), Month: int(birthDate.Month()), Day: birthDate.Day()}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
