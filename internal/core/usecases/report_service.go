package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// ReportService issues and stores bond reports.
type ReportService struct {
	reports   ports.ReportRepository
	synastry  *SynastryService
	publisher ports.EventPublisher
	notifier  ports.NotificationService
}

// NewReportService creates a new ReportService.
func NewReportService(
	reports ports.ReportRepository,
	synastry *SynastryService,
	publisher ports.EventPublisher,
	notifier ports.NotificationService,
) *ReportService {
	return &ReportService{
		reports:   reports,
		synastry:  synastry,
		publisher: publisher,
		notifier:  notifier,
	}
}

// Issue computes a bond summary for two profiles and stores it as a report.
func (s *ReportService) Issue(ctx context.Context, profileA, profileB string, includeMinor bool) (*domain.BondReport, error) {
	if profileA == profileB {
		return nil, fmt.Errorf("bond report needs two distinct profiles")
	}

	summary, err := s.synastry.BondSummary(ctx, profileA, profileB, includeMinor)
	if err != nil {
		return nil, err
	}

	report := &domain.BondReport{
		ID:        uuid.NewString(),
		ProfileA:  profileA,
		ProfileB:  profileB,
		Summary:   *summary,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	metrics.BondReportsIssued.Inc()

	// Downstream consumers are best-effort; the report is already stored.
	if s.publisher != nil {
		_ = s.publisher.PublishReportIssued(ctx, report)
	}
	if s.notifier != nil {
		active := 0
		for _, g := range report.Summary.Groups {
			if len(g.Overlaps) > 0 {
				active++
			}
		}
		title := "Your bond report is ready"
		body := fmt.Sprintf("Report %s compares your charts across %d connection groups.", report.ID, active)
		_ = s.notifier.SendPush(ctx, profileA, title, body)
	}

	return report, nil
}

// GetByID returns a stored report.
func (s *ReportService) GetByID(ctx context.Context, id string) (*domain.BondReport, error) {
	return s.reports.GetByID(ctx, id)
}

// ListByProfile returns reports involving a profile, newest first.
func (s *ReportService) ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.BondReport, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.reports.ListByProfile(ctx, profileID, limit)
}

// Delete removes a stored report.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	return s.reports.Delete(ctx, id)
}
