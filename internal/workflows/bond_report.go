package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// BondReportInput is the input for the bond report workflow.
type BondReportInput struct {
	ProfileA     string
	ProfileB     string
	IncludeMinor bool
	NotifyUserID string
}

// BondReportWorkflow orchestrates verifying both profiles, computing and
// storing the bond report, and notifying the requester. If the notification
// fails, the stored report is deleted (saga compensation).
func BondReportWorkflow(ctx workflow.Context, input BondReportInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting bond report workflow", "profileA", input.ProfileA, "profileB", input.ProfileB)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Verify both profiles before paying for the computation
	err := workflow.ExecuteActivity(ctx, "CheckProfiles", input.ProfileA, input.ProfileB).Get(ctx, nil)
	if err != nil {
		return "", err
	}

	// Step 2: Compute and store the report
	var reportID string
	err = workflow.ExecuteActivity(ctx, "IssueBondReport", input.ProfileA, input.ProfileB, input.IncludeMinor).Get(ctx, &reportID)
	if err != nil {
		return "", err
	}

	// Step 3: Notify the requester
	notifyID := input.NotifyUserID
	if notifyID == "" {
		notifyID = input.ProfileA
	}
	err = workflow.ExecuteActivity(ctx, "NotifyReportReady", notifyID, reportID).Get(ctx, nil)
	if err != nil {
		logger.Warn("notification failed, compensating", "error", err)
		// Compensate: delete the stored report
		_ = workflow.ExecuteActivity(ctx, "DeleteBondReport", reportID).Get(ctx, nil)
		return "", err
	}

	logger.Info("Bond report issued", "reportID", reportID)
	return reportID, nil
}
