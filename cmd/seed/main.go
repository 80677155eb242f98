package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Galinha2/super-nova-2177/internal/config"
	"github.com/Galinha2/super-nova-2177/internal/database"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/seed"
	"go.uber.org/zap"
)

func main() {
	envLoaded := config.LoadEnvFiles()
	if err := logger.Initialize(logger.Options{Level: "info", Console: os.Stdout}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	if !envLoaded {
		logger.Log.Info(".env file not found, using system environment variables")
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev", "test", "clean":
	default:
		fmt.Println("Usage: seed [dev [count]|test|clean]")
		fmt.Println("  dev   - Insert generated proposals (SEED_VALUE picks the generator seed)")
		fmt.Println("  test  - Insert the fixed test proposals")
		fmt.Println("  clean - Remove all proposals (use with caution)")
		os.Exit(1)
	}

	cfg := config.FromEnv()
	if err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(database.DB, envUint("SEED_VALUE", 2177))

	var err error
	switch command {
	case "dev":
		count := 50
		if len(os.Args) > 2 {
			if n, convErr := strconv.Atoi(os.Args[2]); convErr == nil && n > 0 {
				count = n
			}
		}
		err = seeder.SeedDev(ctx, count)
	case "test":
		err = seeder.SeedTest(ctx)
	case "clean":
		err = seeder.Clean(ctx)
	}
	if err != nil {
		logger.Log.Fatal("Seeding failed", zap.String("command", command), zap.Error(err))
	}

	logger.Log.Info("Seed finished", zap.String("command", command))
}

func envUint(key string, def uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}
