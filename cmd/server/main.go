package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firstpriority/website/internal/catalog"
	"github.com/firstpriority/website/internal/config"
	"github.com/firstpriority/website/internal/handler"
	"github.com/firstpriority/website/internal/logging"
	"github.com/firstpriority/website/internal/metrics"
	"github.com/firstpriority/website/internal/repository"
	"github.com/firstpriority/website/internal/service"
	"github.com/firstpriority/website/pkg/flash"
	"github.com/firstpriority/website/pkg/mailer"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	for _, w := range cfg.Warnings {
		slog.Warn("config", "problem", w)
	}
	if !cfg.SMTP.Complete() {
		slog.Warn("SMTP settings incomplete; submissions will be stored in the data directory")
	}

	cat, err := catalog.Default()
	if err != nil {
		logging.Fatal("failed to load catalog", "error", err)
	}

	store := repository.NewFileSubmissionRepository(cfg.DataDir)
	if err := store.Ping(context.Background()); err != nil {
		logging.Fatal("data directory not usable", "dir", cfg.DataDir, "error", err)
	}

	sender := mailer.NewClient(cfg.SMTP)
	m := metrics.New()
	intake := service.NewIntakeService(sender, store, m, service.IntakeOptions{
		NotifyHiring: cfg.HiringNotify,
	})

	router, err := handler.NewRouter(handler.Deps{
		Catalog:            cat,
		Intake:             intake,
		Flash:              flash.NewStore(flash.SecretBytes(cfg.SessionSecret), cfg.CookieSecure),
		Store:              store,
		MailerConfigured:   sender.Configured(),
		Metrics:            m,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		logging.Fatal("failed to build router", "error", err)
	}
	defer router.Close()

	// WriteTimeout leaves room for a slow SMTP relay inside a POST.
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "data_dir", cfg.DataDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
