package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"montapulse/internal/application"
	"montapulse/internal/config"
	"montapulse/internal/handler"
	"montapulse/internal/infrastructure/ai"
	"montapulse/internal/infrastructure/auth"
	"montapulse/internal/infrastructure/firestore"
	"montapulse/internal/localstore"
	"montapulse/internal/repository"
)

func main() {
	// .env is optional; Cloud Run injects everything via the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("❌ failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fsClient, err := firestore.NewFirestoreClient(ctx, cfg.Firestore.ProjectID, sugar)
	if err != nil {
		sugar.Fatalw("❌ failed to initialize Firestore", "error", err)
	}
	defer fsClient.Close()

	store, err := localstore.Open(cfg.LocalStore.Path, sugar)
	if err != nil {
		sugar.Fatalw("❌ failed to open local store", "path", cfg.LocalStore.Path, "error", err)
	}
	defer store.Close()

	eventsRepo := repository.NewFirestoreEventsRepository(fsClient.GetClient(), sugar)
	businessesRepo := repository.NewFirestoreBusinessesRepository(fsClient.GetClient(), sugar)
	usersRepo := repository.NewFirestoreUsersRepository(fsClient.GetClient(), sugar)

	dashboard := application.NewDashboard(eventsRepo, businessesRepo, usersRepo, store, sugar)
	dashboard.SetFavoritesSync(repository.NewFirestoreFavoritesRepository(fsClient.GetClient(), sugar))
	dashboard.Start(ctx)
	defer dashboard.Close()

	pulseWriter := ai.NewPulseWriter(ai.NewGeminiClient(cfg.Gemini.APIKey), sugar)
	authClient := auth.NewClient(cfg.Auth.APIKey)

	router := handler.NewRouter(dashboard, pulseWriter, authClient)

	srv := &http.Server{
		Addr:    cfg.ServerAddr(),
		Handler: router,
	}

	go func() {
		sugar.Infow("🚀 server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("❌ server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("🛑 shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("forced shutdown", "error", err)
	}
	sugar.Info("👋 server stopped")
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
