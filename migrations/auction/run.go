// Command auction-migrate applies the auction schema migrations.
package main

import (
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)
	if err := migrator.RunMigrations(cfg.DefinitionDatabaseURL, MigrationsFS); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")
}
