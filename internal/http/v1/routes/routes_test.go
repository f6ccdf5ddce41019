package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/fistfuel/internal/app"
	applog "github.com/janisto/fistfuel/internal/platform/logging"
	appmiddleware "github.com/janisto/fistfuel/internal/platform/middleware"
	"github.com/janisto/fistfuel/internal/platform/respond"
	"github.com/janisto/fistfuel/internal/service/guide"
	"github.com/janisto/fistfuel/internal/service/portion"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
	"github.com/janisto/fistfuel/internal/storage"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }
	store := profilesvc.NewStore(storage.NewMemory(), clock)
	engine := portion.NewEngine(clock)
	ctrl := app.New(store, engine)
	if _, err := ctrl.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("RoutesTest", "test"))
	Register(api, Dependencies{
		Profiles:   store,
		Calculator: engine,
		Guide:      guide.Default(),
		Controller: ctrl,
	})
	return router
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/v1/guide", "", http.StatusOK},
		{http.MethodGet, "/v1/app", "", http.StatusOK},
		{http.MethodGet, "/v1/profile", "", http.StatusNotFound},
		{http.MethodGet, "/v1/plan", "", http.StatusNotFound},
		{http.MethodGet, "/v1/profile/stats", "", http.StatusOK},
		{http.MethodPost, "/v1/plan", `{"goal":"balanced","height":170,"weight":65}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			req.Header.Set(chimiddleware.RequestIDHeader, "routes-test")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupThenPlan(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/app/setup", strings.NewReader(`{"goal":"reduce","height":160,"weight":55}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/plan", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected plan for stored profile, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"goal":"reduce"`) {
		t.Fatalf("expected reduce plan, got %s", resp.Body.String())
	}
}
