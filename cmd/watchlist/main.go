package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"github.com/delcom/watchlist/internal/config"
	userhandler "github.com/delcom/watchlist/internal/user/handler"
	userrepo "github.com/delcom/watchlist/internal/user/repository"
	userservice "github.com/delcom/watchlist/internal/user/service"
	watchdomain "github.com/delcom/watchlist/internal/watchlist/domain"
	watchhandler "github.com/delcom/watchlist/internal/watchlist/handler"
	watchrepo "github.com/delcom/watchlist/internal/watchlist/repository"
	watchservice "github.com/delcom/watchlist/internal/watchlist/service"
	"github.com/delcom/watchlist/pkg/auth"
	"github.com/delcom/watchlist/pkg/database"
	"github.com/delcom/watchlist/pkg/interfaces"
	"github.com/delcom/watchlist/pkg/logger"
	"github.com/delcom/watchlist/pkg/models"
	"github.com/delcom/watchlist/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New()

	log.Info("watchlist service starting",
		interfaces.String("environment", cfg.Server.Environment),
		interfaces.Int("port", cfg.Server.HTTPPort))

	db, err := database.NewGormDB(cfg.Database.ToPostgresConfig())
	if err != nil {
		log.Fatal("failed to connect to database", interfaces.Error(err))
	}

	if err := database.MigrateDatabase(db, &models.User{}, &watchdomain.Entry{}); err != nil {
		log.Fatal("failed to run migrations", interfaces.Error(err))
	}

	covers, err := storage.NewFileCoverStorage(afero.NewOsFs(), cfg.Storage.CoverDir)
	if err != nil {
		log.Fatal("failed to initialize cover storage", interfaces.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)

	authService := userservice.NewAuthService(userrepo.NewGormRepository(db), jwtManager, log)
	watchlistService := watchservice.NewWatchlistService(watchrepo.NewGormRepository(db), log)

	router := mux.NewRouter()
	router.Use(logger.HTTPMiddleware(log))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	userhandler.NewAuthHandler(authService, log).Register(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Middleware(jwtManager))
	watchhandler.NewWatchlistHandler(watchlistService, covers, log).Register(protected)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", interfaces.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", interfaces.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTime)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", interfaces.Error(err))
	}

	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}

	log.Info("watchlist service stopped")
}
