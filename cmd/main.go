// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-signup-web/internal/config"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/handler"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/logger"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/service"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/session"
	"github.com/Shivanand-hulikatti/activity-signup-web/internal/view"
)

func main() {
	// ── 1. Logger and configuration ──────────────────────────────────────
	// The bootstrap logger only serves config loading; the level it picks
	// decides the real one.
	boot, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	cfg, err := config.NewConfig(boot)
	if err != nil {
		boot.Fatal("error creating config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		boot.Fatal("error creating logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	activityRepo := repository.NewActivityRepository(cfg.APIBaseURL, cfg.APITimeout)
	sessions := session.NewRegistry(func() *service.Controller {
		return service.NewController(activityRepo, view.New(), cfg.MessageTTL, log)
	}, cfg.SessionIdleTimeout)
	defer sessions.Close()
	pageHandler := handler.NewPageHandler(sessions, log)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestSize(1 << 20))
	r.Use(handler.Logger(log))
	if cfg.CSRFEnabled() {
		r.Use(handler.CSRF(cfg.CSRFKey, cfg.CSRFInsecure, log))
	} else {
		log.Warn("CSRF_KEY not set, form posts are not CSRF-protected")
	}

	pageHandler.Register(r)

	// Stylesheet and other assets of the hosting page.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout*2 + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("activities_api", cfg.APIBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
