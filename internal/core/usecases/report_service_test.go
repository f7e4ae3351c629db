package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/selenevara/astroatlas/internal/core/astro"
	"github.com/selenevara/astroatlas/internal/core/domain"
	"github.com/selenevara/astroatlas/internal/core/usecases"
)

// --- Mock ReportRepository ---

type mockReportRepo struct {
	createFn        func(ctx context.Context, report *domain.BondReport) error
	getByIDFn       func(ctx context.Context, id string) (*domain.BondReport, error)
	listByProfileFn func(ctx context.Context, profileID string, limit int) ([]domain.BondReport, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (m *mockReportRepo) Create(ctx context.Context, report *domain.BondReport) error {
	if m.createFn != nil {
		return m.createFn(ctx, report)
	}
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*domain.BondReport, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportRepo) ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.BondReport, error) {
	if m.listByProfileFn != nil {
		return m.listByProfileFn(ctx, profileID, limit)
	}
	return nil, nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock NotificationService ---

type mockNotifier struct {
	sendPushFn func(ctx context.Context, userID, title, body string) error
}

func (m *mockNotifier) SendPush(ctx context.Context, userID, title, body string) error {
	if m.sendPushFn != nil {
		return m.sendPushFn(ctx, userID, title, body)
	}
	return nil
}

func reportTestSynastry() *usecases.SynastryService {
	repo := twoProfileRepo(validProfile(), secondProfile())
	return usecases.NewSynastryService(repo, nil, nil, 1, astro.DefaultThresholds())
}

// --- Tests ---

func TestReportService_Issue(t *testing.T) {
	var stored *domain.BondReport
	reports := &mockReportRepo{
		createFn: func(ctx context.Context, report *domain.BondReport) error {
			stored = report
			return nil
		},
	}

	var publishedID string
	pub := &mockPublisher{
		publishReportFn: func(ctx context.Context, report *domain.BondReport) error {
			publishedID = report.ID
			return nil
		},
	}

	var pushedTo string
	notifier := &mockNotifier{
		sendPushFn: func(ctx context.Context, userID, title, body string) error {
			pushedTo = userID
			return nil
		},
	}

	svc := usecases.NewReportService(reports, reportTestSynastry(), pub, notifier)
	report, err := svc.Issue(context.Background(), "a", "b", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.ID) != 36 {
		t.Errorf("expected uuid report ID, got %q", report.ID)
	}
	if report.ProfileA != "a" || report.ProfileB != "b" {
		t.Errorf("expected profile pair recorded, got %s/%s", report.ProfileA, report.ProfileB)
	}
	if len(report.Summary.Groups) == 0 {
		t.Error("expected non-empty bond summary")
	}
	if stored == nil || stored.ID != report.ID {
		t.Error("report was not stored")
	}
	if publishedID != report.ID {
		t.Errorf("expected report published, got %q", publishedID)
	}
	if pushedTo != "a" {
		t.Errorf("expected push to requesting profile, got %q", pushedTo)
	}
}

func TestReportService_Issue_RejectsSameProfile(t *testing.T) {
	svc := usecases.NewReportService(&mockReportRepo{}, reportTestSynastry(), nil, nil)

	if _, err := svc.Issue(context.Background(), "a", "a", false); err == nil {
		t.Error("expected error for identical profile pair")
	}
}

func TestReportService_Issue_StoreFailure(t *testing.T) {
	reports := &mockReportRepo{
		createFn: func(ctx context.Context, report *domain.BondReport) error {
			return errors.New("db down")
		},
	}

	svc := usecases.NewReportService(reports, reportTestSynastry(), nil, nil)
	if _, err := svc.Issue(context.Background(), "a", "b", false); err == nil {
		t.Error("expected store failure to propagate")
	}
}

func TestReportService_Issue_PushFailureIsBestEffort(t *testing.T) {
	notifier := &mockNotifier{
		sendPushFn: func(ctx context.Context, userID, title, body string) error {
			return errors.New("push gateway down")
		},
	}

	svc := usecases.NewReportService(&mockReportRepo{}, reportTestSynastry(), nil, notifier)
	if _, err := svc.Issue(context.Background(), "a", "b", false); err != nil {
		t.Errorf("expected push failure to be swallowed, got %v", err)
	}
}

func TestReportService_ListByProfile_ClampsLimit(t *testing.T) {
	reports := &mockReportRepo{
		listByProfileFn: func(ctx context.Context, profileID string, limit int) ([]domain.BondReport, error) {
			if limit != 20 {
				t.Errorf("expected limit clamped to 20, got %d", limit)
			}
			return nil, nil
		},
	}

	svc := usecases.NewReportService(reports, reportTestSynastry(), nil, nil)
	_, _ = svc.ListByProfile(context.Background(), "a", 999)
}
