package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/config"
	controller "github.com/02priyeshraj/GrubSpot_Backend/controllers"
	"github.com/02priyeshraj/GrubSpot_Backend/database"
	"github.com/02priyeshraj/GrubSpot_Backend/helper"
	"github.com/02priyeshraj/GrubSpot_Backend/logger"
	"github.com/02priyeshraj/GrubSpot_Backend/routes"
	"github.com/02priyeshraj/GrubSpot_Backend/services"
)

func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	if cfg.Store == config.StoreMemory {
		return database.NewMemoryStore(), nil
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureIndexes(ctx, client, cfg.MongoDatabase); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return database.NewMongoStore(client, cfg.MongoDatabase), nil
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.New("grubspot", cfg.LogLevel, os.Stdout)
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		appLog.Error(ctx, "startup", "failed to open store", err)
		os.Exit(1)
	}
	appLog.Info(ctx, "startup", "store ready", slog.String("store", cfg.Store))

	tokens := helper.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	c := controller.New(
		services.NewCatalog(store),
		services.NewIdentity(store, helper.PasswordHasher{Cost: cfg.BcryptCost}, tokens, cfg.AdminUsernames),
		services.NewLedger(store),
		appLog,
		cfg.RequestTimeout,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(c, tokens, appLog, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info(ctx, "startup", "server running", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error(ctx, "startup", "server stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error(shutdownCtx, "shutdown", "graceful shutdown failed", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		appLog.Error(shutdownCtx, "shutdown", "failed to close store", err)
	}
	appLog.Info(shutdownCtx, "shutdown", "server stopped")
}
