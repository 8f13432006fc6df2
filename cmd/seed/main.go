// Package main seeds a development database with a demo workspace,
// assets, kits and barcodes. Not intended for production use.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/config"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/asset"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/kit"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres/barcode_repo"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/logger"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/sequence"
)

const seedUserID = "seed-user"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Env == "production" {
		fmt.Println("refusing to seed a production environment")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.ConnectionString()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	barcodeService := barcode.NewService(barcode_repo.NewRepo(txManager), txManager, audit)
	orgService := organization.NewService(catalog_repo.NewOrganizationRepo(txManager), txManager)
	assetService := asset.NewService(
		catalog_repo.NewAssetRepo(txManager), txManager, sequence.New(pool, nil), barcodeService)
	kitService := kit.NewService(catalog_repo.NewKitRepo(txManager), txManager, barcodeService)

	org, err := orgService.Create(ctx, "Demo Warehouse", organization.TypeTeam, seedUserID)
	if err != nil {
		log.Fatalw("failed to create organization", "error", err)
	}
	if _, err := orgService.ToggleBarcodes(ctx, org.ID, true); err != nil {
		log.Fatalw("failed to enable barcodes", "error", err)
	}
	log.Infow("workspace created", "id", org.ID, "name", org.Name)

	valuation := decimal.NewFromInt(1200)
	assets := []asset.CreateParams{
		{
			Title:          "Canon EOS R5",
			Valuation:      &valuation,
			OrganizationID: org.ID,
			UserID:         seedUserID,
			Barcodes: []barcode.Input{
				{Type: barcode.TypeCode128, Value: "CAM-001"},
				{Type: barcode.TypeExternalQR, Value: "https://example.com/q/cam-001"},
			},
		},
		{
			Title:          "Manfrotto Tripod",
			OrganizationID: org.ID,
			UserID:         seedUserID,
			Barcodes: []barcode.Input{
				{Type: barcode.TypeCode39, Value: "TRIPOD1"},
			},
		},
		{
			Title:          "SanDisk 128GB Card",
			OrganizationID: org.ID,
			UserID:         seedUserID,
		},
	}
	for _, p := range assets {
		a, err := assetService.Create(ctx, p)
		if err != nil {
			log.Fatalw("failed to create asset", "title", p.Title, "error", err)
		}
		log.Infow("asset created", "id", a.ID, "sid", a.SequentialID, "title", a.Title)
	}

	k, err := kitService.Create(ctx, kit.CreateParams{
		Name:           "Field Camera Kit",
		OrganizationID: org.ID,
		UserID:         seedUserID,
		Barcodes: []barcode.Input{
			{Type: barcode.TypeCode128, Value: "KIT-FIELD-01"},
		},
	})
	if err != nil {
		log.Fatalw("failed to create kit", "error", err)
	}
	log.Infow("kit created", "id", k.ID, "name", k.Name)

	log.Info("seed complete")
}
