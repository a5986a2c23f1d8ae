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

	"github.com/dimitrije/fanmint-api/internal/config"
	"github.com/dimitrije/fanmint-api/internal/database"
	"github.com/dimitrije/fanmint-api/internal/handlers"
	"github.com/dimitrije/fanmint-api/internal/logger"
	appmw "github.com/dimitrije/fanmint-api/internal/middleware"
	"github.com/dimitrije/fanmint-api/internal/services"
	"github.com/dimitrije/fanmint-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Fatal("failed to load config", zap.Error(err))
	}

	logger.Init(cfg.LogLevel)
	defer func() { _ = logger.L.Sync() }()

	// Storage connects lazily; requests get 503 until it is reachable.
	var (
		collectionService handlers.CollectionServiceInterface
		closeStore        func()
	)
	switch cfg.StoreDriver {
	case config.DriverMongo:
		mdb := database.NewMongo(cfg.MongoURI, cfg.MongoDatabase, cfg.DBConnectTimeout)
		collectionService = services.NewMongoCollectionService(mdb)
		closeStore = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mdb.Close(ctx); err != nil {
				logger.L.Warn("failed to close mongo client", zap.Error(err))
			}
		}
	default:
		db := database.New(cfg.DatabaseURL, cfg.DBConnectTimeout)
		collectionService = services.NewCollectionService(db)
		closeStore = db.Close
	}
	defer closeStore()

	logger.L.Info("storage configured",
		zap.String("driver", cfg.StoreDriver),
		zap.Duration("connect_timeout", cfg.DBConnectTimeout),
	)

	hub := sse.NewHub()
	go hub.Run()

	collectionHandler := handlers.NewCollectionHandler(collectionService, hub)
	voteHandler := handlers.NewVoteHandler(collectionService)
	sseHandler := handlers.NewSSEHandler(hub)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(appmw.RequestLogger(logger.L))

	api := app.Group("/api/v1")

	api.Get("/collections/by-name", collectionHandler.GetByName)
	api.Get("/collections/featured", collectionHandler.ListFeatured)
	api.Post("/collections/vote", collectionHandler.CastVote)
	api.Get("/collections/vote/status", collectionHandler.VoteStatus)
	api.Get("/votes/most-voted", voteHandler.MostVoted)

	api.Get("/collections/events", sseHandler.Connect)
	api.Post("/events/:clientId/subscribe", sseHandler.Subscribe)
	api.Post("/events/:clientId/unsubscribe", sseHandler.Unsubscribe)

	admin := api.Group("")
	if cfg.AdminAuthEnabled() {
		admin.Use(appmw.AdminAuth(services.NewJWTService(cfg.AdminJWTSecret, cfg.AdminTokenExpiry)))
	} else {
		logger.L.Warn("ADMIN_JWT_SECRET not set, feature toggle is unauthenticated")
	}
	admin.Post("/collections/feature", collectionHandler.SetFeatured)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L.Error("graceful shutdown failed", zap.Error(err))
	}
}
