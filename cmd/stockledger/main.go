package main

import (
	"log"

	"github.com/mvallbona/stockledger/internal/cascade"
	"github.com/mvallbona/stockledger/internal/config"
	"github.com/mvallbona/stockledger/internal/db"
	"github.com/mvallbona/stockledger/internal/logging"
	"github.com/mvallbona/stockledger/internal/service"
	"github.com/mvallbona/stockledger/internal/store"
	"github.com/mvallbona/stockledger/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	familyStore := store.NewFamilyStore(database)
	subfamilyStore := store.NewSubfamilyStore(database)
	locationStore := store.NewLocationStore(database)
	userStore := store.NewUserStore(database)
	itemStore := store.NewItemStore(database)
	ledgerStore := store.NewItemLocationStore(database)
	bulkStore := store.NewBulkStore(database)
	reportStore := store.NewReportStore(database)

	// One lock registry: ledger reconciliation and cascade deletion of the
	// same item must exclude each other.
	locks := service.NewKeyedLock()
	planner := cascade.NewPlanner(bulkStore, logger)

	inventoryService := service.NewInventoryService(
		familyStore, subfamilyStore, locationStore, userStore, itemStore,
		planner, bulkStore, locks, logger,
	)
	ledgerService := service.NewLedgerService(itemStore, ledgerStore, locks, logger)
	backupService := service.NewBackupService(
		userStore, familyStore, subfamilyStore, locationStore, itemStore, ledgerStore,
		bulkStore, logger,
	)
	reportService := service.NewReportService(reportStore, logger)

	server := web.NewServer(inventoryService, ledgerService, backupService, reportService, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
