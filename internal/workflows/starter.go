package workflows

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/trailview/internal/core/domain"
)

// Starter implements ports.ImportStarter on a Temporal client.
type Starter struct {
	Client    client.Client
	TaskQueue string
}

// StartImport starts RouteImportWorkflow. Only one import per slug runs at
// a time; the workflow ID is derived from the slug.
func (s *Starter) StartImport(ctx context.Context, req domain.ImportRequest) (string, error) {
	run, err := s.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    WorkflowID(req.Slug),
		TaskQueue:             s.TaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, RouteImportWorkflow, req)
	if err != nil {
		return "", fmt.Errorf("start route import %s: %w", req.Slug, err)
	}
	return run.GetID(), nil
}

// WorkflowID names the import workflow of a slug.
func WorkflowID(slug string) string {
	return "route-import-" + slug
}
