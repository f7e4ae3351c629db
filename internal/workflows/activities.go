package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/selenevara/astroatlas/internal/core/ports"
	"github.com/selenevara/astroatlas/internal/core/usecases"
)

// BondReportActivities holds the activity implementations for the bond
// report workflow. Wire Reports without a notifier so that delivery and
// compensation stay under workflow control.
type BondReportActivities struct {
	Profiles ports.ProfileRepository
	Reports  *usecases.ReportService
	Notifier ports.NotificationService
}

// CheckProfiles verifies that both profiles exist.
func (a *BondReportActivities) CheckProfiles(ctx context.Context, profileA, profileB string) error {
	if _, err := a.Profiles.GetByID(ctx, profileA); err != nil {
		return fmt.Errorf("profile %s: %w", profileA, err)
	}
	if _, err := a.Profiles.GetByID(ctx, profileB); err != nil {
		return fmt.Errorf("profile %s: %w", profileB, err)
	}
	return nil
}

// IssueBondReport computes and stores the report, returning its ID.
func (a *BondReportActivities) IssueBondReport(ctx context.Context, profileA, profileB string, includeMinor bool) (string, error) {
	report, err := a.Reports.Issue(ctx, profileA, profileB, includeMinor)
	if err != nil {
		return "", fmt.Errorf("issue bond report: %w", err)
	}
	return report.ID, nil
}

// NotifyReportReady pushes a ready notification to the requesting user.
func (a *BondReportActivities) NotifyReportReady(ctx context.Context, userID, reportID string) error {
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → user=%s report=%s", userID, reportID)
		return nil
	}
	title := "Your bond report is ready"
	body := fmt.Sprintf("Open report %s to see where your lines meet.", reportID)
	return a.Notifier.SendPush(ctx, userID, title, body)
}

// DeleteBondReport removes a stored report (saga compensation / rollback).
func (a *BondReportActivities) DeleteBondReport(ctx context.Context, reportID string) error {
	if err := a.Reports.Delete(ctx, reportID); err != nil {
		return fmt.Errorf("delete report %s: %w", reportID, err)
	}
	log.Printf("Report %s deleted (saga compensation)", reportID)
	return nil
}
