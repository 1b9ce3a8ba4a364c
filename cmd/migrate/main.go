package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/waterworks/backend/internal/infrastructure/config"
	"github.com/waterworks/backend/internal/infrastructure/logger"
	"github.com/waterworks/backend/internal/infrastructure/persistence"
	"github.com/waterworks/backend/internal/infrastructure/persistence/models"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("database", cfg.Database.DBName),
	)

	// Preflight connectivity check before handing the schema to GORM
	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database connection", zap.Error(err))
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Error closing preflight connection", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		if err := db.DB.AutoMigrate(models.AllModels()...); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema migrated successfully", zap.Int("models", len(models.AllModels())))

	case "drop":
		confirm := false
		for _, arg := range flag.Args()[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		migrator := db.DB.Migrator()
		// Drop in reverse dependency order so foreign keys do not block
		all := models.AllModels()
		for i := len(all) - 1; i >= 0; i-- {
			if err := migrator.DropTable(all[i]); err != nil {
				log.Fatal("Drop failed", zap.Error(err))
			}
		}
		log.Info("All tables dropped")

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Waterworks Database Migration Tool

Usage:
  migrate [flags] <command>

Commands:
  up              Create or update the schema for all billing tables (default)
  drop -confirm   Drop all billing tables (DANGEROUS)

Flags:
  -log-level string   Log level: debug, info, warn, error (default: info)

Environment Variables:
  WATERWORKS_DATABASE_HOST, WATERWORKS_DATABASE_PORT, WATERWORKS_DATABASE_USER,
  WATERWORKS_DATABASE_PASSWORD, WATERWORKS_DATABASE_DBNAME, WATERWORKS_DATABASE_SSLMODE`)
}
