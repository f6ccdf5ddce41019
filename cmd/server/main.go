package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/fistfuel/internal/app"
	"github.com/janisto/fistfuel/internal/config"
	"github.com/janisto/fistfuel/internal/http/health"
	"github.com/janisto/fistfuel/internal/http/v1/routes"
	"github.com/janisto/fistfuel/internal/platform/firebase"
	applog "github.com/janisto/fistfuel/internal/platform/logging"
	appmiddleware "github.com/janisto/fistfuel/internal/platform/middleware"
	"github.com/janisto/fistfuel/internal/platform/respond"
	"github.com/janisto/fistfuel/internal/platform/timeutil"
	"github.com/janisto/fistfuel/internal/service/guide"
	"github.com/janisto/fistfuel/internal/service/portion"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
	"github.com/janisto/fistfuel/internal/storage"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()

	if err := run(); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	kv, closeKV, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeKV(); err != nil {
			applog.LogError(ctx, "storage close error", err)
		}
	}()

	router, err := newRouter(ctx, kv, timeutil.SystemClock, cfg.AllowedOrigins)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening",
			zap.String("addr", srv.Addr), zap.String("storage", string(cfg.Storage)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(ctx, "server exited")
	return nil
}

// openStorage builds the configured backend. The returned close function is
// never nil.
func openStorage(ctx context.Context, cfg config.Config) (storage.KV, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemory(), noop, nil
	case config.StorageFile:
		return storage.NewFile(cfg.DataFile), noop, nil
	case config.StorageFirestore:
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:                    cfg.FirebaseProjectID,
			GoogleApplicationCredentials: cfg.GoogleApplicationCredentials,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("initialize firebase: %w", err)
		}
		return storage.NewFirestore(clients.Firestore, storage.DefaultCollection), clients.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// newRouter assembles the services over kv and mounts them with the
// middleware stack.
func newRouter(ctx context.Context, kv storage.KV, clock timeutil.Clock, allowedOrigins []string) (chi.Router, error) {
	store := profilesvc.NewStore(kv, clock)
	engine := portion.NewEngine(clock)
	ctrl := app.New(store, engine)
	if _, err := ctrl.Start(ctx); err != nil {
		return nil, fmt.Errorf("start app: %w", err)
	}

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(allowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For. The server binds to
		// loopback by default; put it behind a trusted proxy before exposing it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(Version, kv))

	cfg := huma.DefaultConfig("FistFuel API", Version)
	cfg.DocsPath = "/api-docs"
	api := humachi.New(router, cfg)
	addCBORContent(api)

	routes.Register(api, routes.Dependencies{
		Profiles:   store,
		Calculator: engine,
		Guide:      guide.Default(),
		Controller: ctrl,
	})
	return router, nil
}

// addCBORContent advertises application/cbor next to every structured JSON
// body in the OpenAPI document.
func addCBORContent(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				jsonContent, ok := op.RequestBody.Content["application/json"]
				// Raw JSON documents are decoded by the handler, not the CBOR format.
				if ok && (jsonContent.Schema == nil || jsonContent.Schema.Format != "binary") {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}
