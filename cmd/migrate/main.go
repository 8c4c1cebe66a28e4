package main

import (
	"flag"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/migration"
	"github.com/elskow/naviwish/internal/server"
)

func main() {
	command := flag.String("command", "up", "migration command (up/down/down-to/status/version/reset)")
	flag.Parse()

	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", server.EnvDevelopment)
	}

	logger, err := server.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := server.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	migrator, err := migration.NewMigrator(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	log := logger.With(zap.String("command", *command), zap.String("dir", migrator.Dir()))

	switch *command {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied")

	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal("failed to roll back migration", zap.Error(err))
		}
		log.Info("rolled back one migration")

	case "down-to":
		target, err := strconv.ParseInt(flag.Arg(0), 10, 64)
		if err != nil {
			log.Fatal("down-to needs a target version argument", zap.Error(err))
		}
		if err := migrator.DownTo(target); err != nil {
			log.Fatal("failed to roll back migrations", zap.Int64("target", target), zap.Error(err))
		}
		log.Info("rolled back migrations", zap.Int64("target", target))

	case "status":
		if err := migrator.Status(); err != nil {
			log.Fatal("failed to get migration status", zap.Error(err))
		}

	case "version":
		version, err := migrator.Version()
		if err != nil {
			log.Fatal("failed to get migration version", zap.Error(err))
		}
		latest, err := migrator.GetLatestVersion()
		if err != nil {
			log.Fatal("failed to read migrations directory", zap.Error(err))
		}
		log.Info("migration version", zap.Int64("current", version), zap.Int64("latest", latest))

	case "reset":
		if err := migrator.Reset(); err != nil {
			log.Fatal("failed to reset migrations", zap.Error(err))
		}
		log.Info("migrations reset")

	default:
		log.Fatal("unknown command")
	}
}
