package workflows_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/workflows"
)

const nivoletGeoJSON = `{"type":"FeatureCollection","features":[{"type":"Feature",
"properties":{"name":"Colle del Nivolet"},
"geometry":{"type":"LineString","coordinates":[[0,0,100],[0,0,150],[1,1,150]]}}]}`

// memRepo is an in-memory ports.RouteRepository.
type memRepo struct {
	mu        sync.Mutex
	routes    map[string]*domain.Route
	failGets  bool
	deletions []string
}

func newMemRepo() *memRepo { return &memRepo{routes: make(map[string]*domain.Route)} }

func (r *memRepo) Upsert(ctx context.Context, route *domain.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *route
	r.routes[route.Slug] = &cp
	return nil
}

func (r *memRepo) GetBySlug(ctx context.Context, slug string) (*domain.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGets {
		return nil, errors.New("database unavailable")
	}
	route, ok := r.routes[slug]
	if !ok {
		return nil, fmt.Errorf("route %s: %w", slug, domain.ErrNotFound)
	}
	return route, nil
}

func (r *memRepo) List(ctx context.Context) ([]domain.Route, error) { return nil, nil }

func (r *memRepo) Delete(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.routes, slug)
	r.deletions = append(r.deletions, slug)
	return nil
}

func newEnv(t *testing.T, repo *memRepo) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	routes := usecases.NewRouteService(repo, nil, nil)
	env.RegisterWorkflow(workflows.RouteImportWorkflow)
	env.RegisterActivity(&workflows.RouteImportActivities{
		Routes:   routes,
		Profiles: usecases.NewProfileService(repo, nil, 60),
	})
	return env
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouteImportWorkflow_Success(t *testing.T) {
	srv := serve(t, http.StatusOK, nivoletGeoJSON)
	repo := newMemRepo()
	env := newEnv(t, repo)

	env.ExecuteWorkflow(workflows.RouteImportWorkflow, domain.ImportRequest{
		Slug: "nivolet",
		URL:  srv.URL + "/nivolet.geojson",
	})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}

	var result workflows.ImportResult
	if err := env.GetWorkflowResult(&result); err != nil {
		t.Fatal(err)
	}
	if result.Slug != "nivolet" || result.Name != "Colle del Nivolet" || result.Points != 3 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Summary.Ascent != 50 || result.Summary.Points != 3 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}
	if _, ok := repo.routes["nivolet"]; !ok {
		t.Error("route was not stored")
	}
}

func TestRouteImportWorkflow_InvalidDocument(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"type":"FeatureCollection","features":[]}`)
	repo := newMemRepo()
	env := newEnv(t, repo)

	env.ExecuteWorkflow(workflows.RouteImportWorkflow, domain.ImportRequest{Slug: "empty", URL: srv.URL + "/empty.geojson"})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("expected workflow error for a document without a line")
	}
	if len(repo.routes) != 0 {
		t.Errorf("nothing should be stored, got %d routes", len(repo.routes))
	}
}

func TestRouteImportWorkflow_NotFoundIsNotRetried(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "nope")
	env := newEnv(t, newMemRepo())

	env.ExecuteWorkflow(workflows.RouteImportWorkflow, domain.ImportRequest{Slug: "gone", URL: srv.URL + "/gone.gpx"})

	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestRouteImportWorkflow_CompensatesWhenWarmUpFails(t *testing.T) {
	srv := serve(t, http.StatusOK, nivoletGeoJSON)
	repo := newMemRepo()
	repo.failGets = true
	env := newEnv(t, repo)

	env.ExecuteWorkflow(workflows.RouteImportWorkflow, domain.ImportRequest{Slug: "nivolet", URL: srv.URL + "/n.geojson"})

	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("expected warm-up failure")
	}
	if len(repo.deletions) != 1 || repo.deletions[0] != "nivolet" {
		t.Errorf("expected compensating delete of nivolet, got %v", repo.deletions)
	}
	if _, ok := repo.routes["nivolet"]; ok {
		t.Error("route should have been removed")
	}
}

func TestWorkflowID(t *testing.T) {
	if got := workflows.WorkflowID("nivolet"); got != "route-import-nivolet" {
		t.Errorf("WorkflowID = %q", got)
	}
}
