// cmd/api/main.go
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

	"requisition-api-server/config"
	"requisition-api-server/internal/api/handlers"
	"requisition-api-server/internal/api/routes"
	"requisition-api-server/internal/auth"
	"requisition-api-server/internal/cache"
	"requisition-api-server/internal/database"
	"requisition-api-server/internal/importer"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/models"
	"requisition-api-server/internal/s3"
	"requisition-api-server/internal/sequence"
	"requisition-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Logger
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer zl.Sync()
	logger.Init(zl)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// 3. MongoDB
	ctx := context.Background()
	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		zl.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zl.Warn("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		zl.Warn("Failed to ensure indexes", zap.Error(err))
	}

	itemStore := database.NewItemStore(db)
	requisitionStore := database.NewRequisitionStore(db)
	userStore := database.NewUserStore(db)

	// 4. Domain services
	ids := sequence.NewGenerator(itemStore.LatestItemID, requisitionStore.LatestNumber,
		sequence.WithLogger(zl.Named("sequence")))
	bulk := importer.New(itemStore, importer.WithLogger(zl.Named("importer")))
	catalog := &handlers.CatalogReader{
		Items: itemStore,
		Cache: cache.New[[]models.Item](cfg.Cache.TTL),
	}

	if err := database.SeedCatalog(ctx, itemStore, bulk, cfg.Seed.CatalogFile, zl.Named("seeder")); err != nil {
		zl.Warn("Failed to seed catalog", zap.Error(err))
	}

	// 5. S3 (tuỳ chọn) và WebSocket hub
	var archiver handlers.ImportArchiver
	if cfg.S3.Enabled() {
		uploader, err := s3.NewUploader(cfg.S3)
		if err != nil {
			zl.Fatal("Failed to create S3 uploader", zap.Error(err))
		}
		archiver = uploader
	} else {
		zl.Info("S3 bucket not configured, import payloads will not be archived")
	}
	wsHub := socket.NewHub(zl.Named("socket"))

	// 6. Handlers + router
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration)
	superUser := auth.SuperUser{Username: cfg.SuperUser.Username, Password: cfg.SuperUser.Password}

	router := routes.SetupRouter(cfg, tokens, routes.Handlers{
		Auth:  &handlers.AuthHandler{Users: userStore, SuperUser: superUser, Tokens: tokens},
		Users: &handlers.UserHandler{Users: userStore, SuperUsername: superUser.Username},
		Items: &handlers.ItemHandler{
			Items:    itemStore,
			Catalog:  catalog,
			IDs:      ids,
			Importer: bulk,
			Archiver: archiver,
			Notifier: wsHub,
		},
		Requisitions: &handlers.RequisitionHandler{
			Requisitions: requisitionStore,
			Catalog:      catalog,
			IDs:          ids,
			Notifier:     wsHub,
		},
		WebSocket: &handlers.WebSocketHandler{Hub: wsHub, Tokens: tokens},
	})

	// 7. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Starting API server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
}
