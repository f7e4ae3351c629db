package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// CityRepo implements ports.CityRepository with pgx.
type CityRepo struct {
	db *DB
}

// NewCityRepo creates a new CityRepo.
func NewCityRepo(db *DB) *CityRepo {
	return &CityRepo{db: db}
}

// UpsertBatch inserts many cities using pgx.Batch.
func (r *CityRepo) UpsertBatch(ctx context.Context, cities []domain.City) error {
	batch := &pgx.Batch{}
	for _, c := range cities {
		batch.Queue(`
			INSERT INTO cities (id, name, country, location, population)
			VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, country = EXCLUDED.country,
			    location = EXCLUDED.location, population = EXCLUDED.population
		`, c.ID, c.Name, c.Country, c.Location.Lon, c.Location.Lat, c.Population)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range cities {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a city by ID.
func (r *CityRepo) GetByID(ctx context.Context, id string) (*domain.City, error) {
	var c domain.City
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, country,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       population
		FROM cities WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Country, &c.Location.Lat, &c.Location.Lon, &c.Population)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("city %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// FindNearby returns cities within radiusMeters using PostGIS ST_DWithin.
func (r *CityRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.City, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, country,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       population,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM cities
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var c domain.City
		var dist float64
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Location.Lat, &c.Location.Lon, &c.Population, &dist); err != nil {
			return nil, err
		}
		c.Distance = &dist
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// Search performs fuzzy + full-text search on city names.
func (r *CityRepo) Search(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.City, error) {
	var rows pgx.Rows
	var err error

	if near != nil {
		rows, err = r.db.Pool.Query(ctx, `
			SELECT id, name, country,
			       ST_Y(location::geometry) as lat,
			       ST_X(location::geometry) as lon,
			       population,
			       similarity(name, $1) as sim
			FROM cities
			WHERE name_vector @@ plainto_tsquery('simple', $1)
			   OR name %> $1
			ORDER BY sim DESC,
			         location <-> ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography
			LIMIT $4
		`, query, near.Lon, near.Lat, limit)
	} else {
		rows, err = r.db.Pool.Query(ctx, `
			SELECT id, name, country,
			       ST_Y(location::geometry) as lat,
			       ST_X(location::geometry) as lon,
			       population,
			       similarity(name, $1) as sim
			FROM cities
			WHERE name_vector @@ plainto_tsquery('simple', $1)
			   OR name %> $1
			ORDER BY sim DESC, population DESC
			LIMIT $2
		`, query, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var c domain.City
		var sim float64
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Location.Lat, &c.Location.Lon, &c.Population, &sim); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// ListByPopulation returns the most populous cities above the floor.
func (r *CityRepo) ListByPopulation(ctx context.Context, minPopulation int64, limit int) ([]domain.City, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, country,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       population
		FROM cities
		WHERE population >= $1
		ORDER BY population DESC
		LIMIT $2
	`, minPopulation, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCities(rows)
}

// ListInBounds returns cities inside a lat/lon box. Boxes crossing the
// antimeridian arrive with MinLon > MaxLon.
func (r *CityRepo) ListInBounds(ctx context.Context, bounds domain.Bounds, limit int) ([]domain.City, error) {
	var rows pgx.Rows
	var err error

	if bounds.MinLon <= bounds.MaxLon {
		rows, err = r.db.Pool.Query(ctx, `
			SELECT id, name, country,
			       ST_Y(location::geometry) as lat,
			       ST_X(location::geometry) as lon,
			       population
			FROM cities
			WHERE location::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)
			ORDER BY population DESC
			LIMIT $5
		`, bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat, limit)
	} else {
		rows, err = r.db.Pool.Query(ctx, `
			SELECT id, name, country,
			       ST_Y(location::geometry) as lat,
			       ST_X(location::geometry) as lon,
			       population
			FROM cities
			WHERE location::geometry && ST_MakeEnvelope($1, $2, 180, $4, 4326)
			   OR location::geometry && ST_MakeEnvelope(-180, $2, $3, $4, 4326)
			ORDER BY population DESC
			LIMIT $5
		`, bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCities(rows)
}

func scanCities(rows pgx.Rows) ([]domain.City, error) {
	var cities []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Location.Lat, &c.Location.Lon, &c.Population); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
