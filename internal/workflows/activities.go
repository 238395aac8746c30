package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/core/usecases"
)

// maxDocumentBytes bounds fetched documents; they travel through workflow history.
const maxDocumentBytes = 2 << 20

// RouteImportActivities holds the activity implementations for the import workflow.
type RouteImportActivities struct {
	Routes   *usecases.RouteService
	Profiles *usecases.ProfileService
	HTTP     *http.Client
}

// FetchDocument downloads a route document.
func (a *RouteImportActivities) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	client := a.HTTP
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("bad url", "BadURL", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("fetch %s: status %d", url, resp.StatusCode), "FetchRejected", nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, temporal.NewNonRetryableApplicationError("document too large", "DocumentTooLarge", nil)
	}
	activity.GetLogger(ctx).Info("Fetched route document", "url", url, "bytes", len(data))
	return data, nil
}

// ImportRoute decodes and stores a fetched document. Documents that cannot
// produce a profile fail without retry.
func (a *RouteImportActivities) ImportRoute(ctx context.Context, req domain.ImportRequest, data []byte) (ImportResult, error) {
	format := usecases.DetectFormat(req.Format, req.URL, data)
	route, err := a.Routes.Import(ctx, req.Slug, req.Name, format, data)
	if err != nil {
		if isDocumentError(err) {
			return ImportResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidRoute", err)
		}
		return ImportResult{}, err
	}
	return ImportResult{Slug: route.Slug, Name: route.Name, Points: len(route.Points)}, nil
}

// WarmProfile fills the profile and summary caches for a stored route.
func (a *RouteImportActivities) WarmProfile(ctx context.Context, slug string) (domain.ProfileSummary, error) {
	if _, err := a.Profiles.Profile(ctx, slug, profile.UnitKilometers); err != nil {
		return domain.ProfileSummary{}, err
	}
	return a.Profiles.Summary(ctx, slug)
}

// DeleteRoute removes a route (saga compensation).
func (a *RouteImportActivities) DeleteRoute(ctx context.Context, slug string) error {
	if err := a.Routes.Delete(ctx, slug); err != nil {
		return fmt.Errorf("delete route %s: %w", slug, err)
	}
	activity.GetLogger(ctx).Info("Route deleted (saga compensation)", "slug", slug)
	return nil
}

func isDocumentError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyRoute,
		domain.ErrMalformedPoint,
		domain.ErrInvalidDocument,
		domain.ErrInvalidSlug,
		domain.ErrUnknownFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
