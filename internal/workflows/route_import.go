package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// ImportResult is what the workflow reports for a stored route.
type ImportResult struct {
	Slug    string                `json:"slug"`
	Name    string                `json:"name"`
	Points  int                   `json:"points"`
	Summary domain.ProfileSummary `json:"summary"`
}

// RouteImportWorkflow fetches a remote route document, stores it and warms
// the profile cache. If warming fails the stored route is deleted again
// (saga compensation) so a half-imported route is never served.
func RouteImportWorkflow(ctx workflow.Context, req domain.ImportRequest) (ImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting route import workflow", "slug", req.Slug, "url", req.URL)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 2 * time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Fetch the document
	var data []byte
	if err := workflow.ExecuteActivity(ctx, "FetchDocument", req.URL).Get(ctx, &data); err != nil {
		return ImportResult{}, err
	}

	// Step 2: Decode, validate and store
	var result ImportResult
	if err := workflow.ExecuteActivity(ctx, "ImportRoute", req, data).Get(ctx, &result); err != nil {
		return ImportResult{}, err
	}

	// Step 3: Warm the profile cache
	if err := workflow.ExecuteActivity(ctx, "WarmProfile", result.Slug).Get(ctx, &result.Summary); err != nil {
		logger.Warn("profile warm-up failed, compensating", "slug", result.Slug, "error", err)
		_ = workflow.ExecuteActivity(ctx, "DeleteRoute", result.Slug).Get(ctx, nil)
		return ImportResult{}, err
	}

	logger.Info("Route imported", "slug", result.Slug, "points", result.Points)
	return result, nil
}
