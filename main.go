package main

import (
	"context"
	"log"
	"os"

	"bus-booking/cmd"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/layout"
	"bus-booking/internal/ledger"
	"bus-booking/internal/wire"
	"bus-booking/pkg/clock"
	"bus-booking/pkg/database"
	"bus-booking/pkg/queue"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	// Optional infrastructure
	rdb := database.InitRedis(config.Redis, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	publisher := queue.NewPublisher(config.Queue.URL, config.Queue.QueueName, logger)

	// Seat templates
	layouts, err := layout.Load(config.Ledger.LayoutFile)
	if err != nil {
		logger.Fatal("Failed to load seat layouts", zap.Error(err), zap.String("path", config.Ledger.LayoutFile))
	}
	logger.Info("Seat layouts loaded", zap.Strings("codes", layouts.Codes()))

	// Seat ledger and its expiry sweeper
	clk := clock.Real()
	registry := ledger.NewRegistry(ledger.Options{
		HoldTTL:       config.Ledger.HoldTTL,
		MaxSeats:      config.Ledger.MaxSeats,
		SweepInterval: config.Ledger.SweepInterval,
	}, clk, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registry.Start(ctx)
	defer registry.Stop()

	// Wire all dependencies
	app := wire.Wiring(wire.Dependencies{
		Repo:      repository.NewRepository(db, logger),
		Registry:  registry,
		Layouts:   layouts,
		Publisher: publisher,
		Redis:     rdb,
		Clock:     clk,
	}, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
