package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// ReportRepo implements ports.ReportRepository with pgx. Summaries are
// stored as JSONB so the grouped narrative survives engine threshold
// changes verbatim.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create inserts a bond report.
func (r *ReportRepo) Create(ctx context.Context, report *domain.BondReport) error {
	summary, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO bond_reports (id, profile_a, profile_b, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, report.ID, report.ProfileA, report.ProfileB, summary, report.CreatedAt)
	return err
}

// GetByID returns a report by UUID.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.BondReport, error) {
	var report domain.BondReport
	var summary []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, profile_a, profile_b, summary, created_at
		FROM bond_reports WHERE id = $1
	`, id).Scan(&report.ID, &report.ProfileA, &report.ProfileB, &summary, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if err := json.Unmarshal(summary, &report.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &report, nil
}

// ListByProfile returns reports involving a profile, newest first.
func (r *ReportRepo) ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.BondReport, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, profile_a, profile_b, summary, created_at
		FROM bond_reports
		WHERE profile_a = $1 OR profile_b = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.BondReport
	for rows.Next() {
		var report domain.BondReport
		var summary []byte
		if err := rows.Scan(&report.ID, &report.ProfileA, &report.ProfileB, &summary, &report.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(summary, &report.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Delete removes a report.
func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM bond_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
