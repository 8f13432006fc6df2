// Package main is the entry point for the barcode service API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/config"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/auth"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/asset"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/kit"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
	v1 "github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/http/v1"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres/barcode_repo"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/logger"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/metrics"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/sequence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting barcode service", "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	barcodeRepo := barcode_repo.NewRepo(txManager)
	assetRepo := catalog_repo.NewAssetRepo(txManager)
	kitRepo := catalog_repo.NewKitRepo(txManager)
	orgRepo := catalog_repo.NewOrganizationRepo(txManager)

	// --- Audit trail ---
	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Sequential identifiers ---
	seq := sequence.New(pool, nil)

	// --- Domain services ---
	barcodeService := barcode.NewService(barcodeRepo, txManager, audit)
	orgService := organization.NewService(orgRepo, txManager)
	assetService := asset.NewService(assetRepo, txManager, seq, barcodeService)
	kitService := kit.NewService(kitRepo, txManager, barcodeService)

	// --- JWT ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	if cfg.JWT.AccessTokenTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Observability ---
	m := metrics.New()
	m.Initialize()

	// --- Idempotency ---
	var idempotencyStore *postgres.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = postgres.NewIdempotencyStore(pool, txManager, cfg.Idempotency.TTL)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		Metrics:       m,
		Pool:          pool,
		Idempotency:   idempotencyStore,
		JWTValidator:  jwtService,
		Barcodes:      barcodeService,
		Assets:        assetService,
		Kits:          kitService,
		Organizations: orgService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
