package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/verdanterp/ledger_core/internal/core/services"
	"github.com/verdanterp/ledger_core/internal/platform/config"
	"github.com/verdanterp/ledger_core/internal/platform/logging"
	"github.com/verdanterp/ledger_core/internal/repositories/database/pgsql"
	"github.com/verdanterp/ledger_core/pkg/database"
)

func main() {
	recalc := flag.Bool("recalc", false, "run ledger recalculation and exit")
	accountID := flag.String("account", "", "limit recalculation to one account ID (with -recalc)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Debug)
	slog.SetDefault(logger)
	ctx := logging.WithLogger(context.Background(), logger)
	logger.Info("Starting ledger core", slog.Bool("production", cfg.IsProduction))

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("Migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, *repos)

	if !*recalc {
		logger.Info("Migrations applied; nothing else to do. Use -recalc to run reconciliation.")
		return
	}

	var target *string
	if *accountID != "" {
		target = accountID
	}

	summary, err := container.Recalc.Recalculate(ctx, target)
	if err != nil {
		if summary != nil {
			logger.Error("Recalculation aborted",
				slog.String("error", err.Error()),
				slog.Int("accountsProcessed", summary.AccountsProcessed),
				slog.Int("accountsFixed", summary.AccountsFixed))
		} else {
			logger.Error("Recalculation failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	for _, result := range summary.Results {
		if !result.Fixed {
			continue
		}
		logger.Info("Account corrected",
			slog.String("accountID", result.AccountID),
			slog.String("code", result.AccountCode),
			slog.String("oldBalance", result.OldBalance.String()),
			slog.String("newBalance", result.NewBalance.String()),
			slog.Int("rowsFixed", result.RowsFixed))
	}
	logger.Info("Recalculation finished",
		slog.Int("accountsProcessed", summary.AccountsProcessed),
		slog.Int("discrepanciesFound", summary.DiscrepanciesFound),
		slog.Int("accountsFixed", summary.AccountsFixed),
		slog.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))
}
