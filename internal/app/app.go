package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"formgate/internal/config"
	"formgate/internal/db"
	"formgate/internal/handler"
	"formgate/internal/mailer"
	"formgate/internal/metrics"
	"formgate/internal/repository"
	"formgate/internal/service"
	"formgate/internal/spam"
	"formgate/internal/sweeper"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	logrus.Info("Starting FormGate submission intake service")

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.New()
	repo := repository.New(dbConn)

	history := spam.NewHistory()
	evaluator := spam.NewEvaluator(history)

	var notifier service.Notifier
	if cfg.Gmail.Enabled {
		gmailMailer, err := mailer.NewGmailMailer(&cfg.Gmail)
		if err != nil {
			return fmt.Errorf("failed to create Gmail mailer: %w", err)
		}
		notifier = service.NewEmailNotifier(gmailMailer, repo, m, cfg.Gmail.SendTimeout)
		logrus.Info("Notification delivery enabled via Gmail API")
	} else {
		logrus.Warn("Notification delivery disabled")
	}

	intake := service.NewIntakeService(repo, evaluator, notifier, m)

	sw := sweeper.New(&cfg.Sweeper, history, repo, m)
	if err := sw.Start(); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}

	h := handler.NewHandlers(dbConn, intake, sw, m)
	router := gin.New()
	router.Use(gin.Recovery())
	h.SetupRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sw.Stop(); err != nil {
		logrus.Errorf("Failed to stop sweeper: %v", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
