package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Varun5711/campusapi/internal/config"
	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 2 {
		usage()
	}

	log := logger.New("migrate")
	// goose reports through the standard logger.
	log.SetStdLog()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	dsn := cfg.Database.PrimaryDSN
	if dsn == "" {
		log.Fatal("DB_PRIMARY_DSN is required")
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "up":
		if err := database.Migrate(ctx, dsn); err != nil {
			log.Fatal("%v", err)
		}
	case "down":
		if err := database.Rollback(ctx, dsn); err != nil {
			log.Fatal("%v", err)
		}
	case "status":
		if err := database.MigrationStatus(ctx, dsn); err != nil {
			log.Fatal("%v", err)
		}
		return
	default:
		usage()
	}

	version, err := database.MigrationVersion(ctx, dsn)
	if err != nil {
		log.Fatal("%v", err)
	}
	log.Info("Database is at version %d", version)
}
