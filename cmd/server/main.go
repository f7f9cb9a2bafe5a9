// Command server runs the bid-price recommendation HTTP service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drivee/bidprice-service/internal/auth"
	"github.com/drivee/bidprice-service/internal/config"
	"github.com/drivee/bidprice-service/internal/engine"
	"github.com/drivee/bidprice-service/internal/history"
	"github.com/drivee/bidprice-service/internal/httpapi"
	"github.com/drivee/bidprice-service/internal/logging"
	"github.com/drivee/bidprice-service/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("bidprice-service", logging.Config{
		Level:       cfg.LogLevel,
		ServiceName: "bidprice-service",
		Version:     cfg.ServiceVersion,
		Environment: cfg.Environment,
		Format:      cfg.LogFormat,
	})
	defer log.Sync()

	hist := loadHistory(cfg, log)

	store, err := auth.NewInMemoryStore(cfg.TestUserEmail, cfg.TestUserPassword, cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Error("failed to initialise credential store")
		os.Exit(1)
	}
	tokens := auth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenExpireMinutes)

	loader := model.NewLoader(cfg.ModelPath, log)
	eng := engine.New(loader, hist, cfg.ScanPoints, cfg.AllowStubFallback, log)

	metrics := httpapi.NewMetrics()
	handlers := httpapi.NewHandlers(store, tokens, eng, metrics, log)
	router := httpapi.NewRouter(handlers, metrics, cfg.BackendAllowOrigins, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.RequestTimeoutSecond) * time.Second,
		WriteTimeout: time.Duration(cfg.RequestTimeoutSecond) * time.Second,
	}

	go func() {
		log.Info(fmt.Sprintf("starting bidprice-service on port %d", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down bidprice-service")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("bidprice-service stopped")
}

func loadHistory(cfg *config.Config, log *logging.Logger) *history.Cache {
	if cfg.HistoryBackend == "postgres" {
		if err := history.EnsureSchema(cfg.HistoryDSN); err != nil {
			log.WithError(err).Error("failed to bring up history schema")
			os.Exit(1)
		}
		loader, err := history.NewPostgresLoader(cfg.HistoryDSN, log)
		if err != nil {
			log.WithError(err).Error("failed to connect to history backend")
			os.Exit(1)
		}
		return loader.Load()
	}
	return history.LoadFromFiles(cfg.UserHistoryPath, cfg.DriverHistoryPath, log)
}
