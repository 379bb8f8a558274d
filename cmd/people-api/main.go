// main is the entry point of the People API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (environment, optional .env and YAML file)
//  2. Initialise the logger
//  3. Open the person store selected by STORAGE_DRIVER
//  4. Build the route table, plus the OpenAPI docs unless disabled
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	PORT=8080 go run ./cmd/people-api
//
// or with a config file:
//
//	go run ./cmd/people-api --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/people-api/internal/config"
	"github.com/aanand-mishra/people-api/internal/docs"
	"github.com/aanand-mishra/people-api/internal/http/middleware"
	"github.com/aanand-mishra/people-api/internal/http/router"
	"github.com/aanand-mishra/people-api/internal/logger"
	"github.com/aanand-mishra/people-api/internal/service"
	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/storage/memory"
	"github.com/aanand-mishra/people-api/internal/storage/sqlite"
	"github.com/aanand-mishra/people-api/internal/validation"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the slog default, so install ours there too.
	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting people-api",
		slog.String("env", cfg.Env),
		slog.String("version", docs.Version),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	//   GET    /api/people        → list people
	//   GET    /api/people/{id}   → get one person
	//   POST   /api/people        → create a person
	//   PUT    /api/people/{id}   → update some fields of a person
	//   DELETE /api/people/{id}   → delete a person
	//   GET    /healthz           → liveness probe
	//   GET    /api-docs[...]     → Swagger UI and the OpenAPI document
	people := service.NewPeople(store, validation.New(), log)
	routes := router.Routes(people)

	if !cfg.DisableDocs {
		doc, err := docs.Build(routes)
		if err != nil {
			log.Error("failed to build API docs", slog.String("error", err.Error()))
			os.Exit(1)
		}
		docRoutes, err := docs.Routes(doc)
		if err != nil {
			log.Error("failed to encode API docs", slog.String("error", err.Error()))
			os.Exit(1)
		}
		routes = append(routes, docRoutes...)
	}

	handler := middleware.Chain(router.New(routes...),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recover(log),
	)

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,

		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", server.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		log.Error("server encountered an error", slog.String("error", err.Error()))
		closeStore.Close()
		os.Exit(1)
	}

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openStore returns the store for driver and the closer that releases it.
func openStore(driver string) (storage.Storage, io.Closer, error) {
	switch driver {
	case config.StorageMemory:
		return memory.New(), closerFunc(func() error { return nil }), nil
	case config.StorageSQLite:
		db, err := sqlite.New()
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
