package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"dompet/internal/config"
	"dompet/internal/kvstore"
	"dompet/internal/ledger"
	applog "dompet/internal/log"
	"dompet/internal/services"
)

// dompet-import moves transactions between CSV files and the configured
// store without going through the HTTP server.
func main() {
	importPath := flag.String("import", "", "CSV file to append to the ledger")
	exportPath := flag.String("export", "", "write the full ledger as CSV to this path ('-' for stdout)")
	flag.Parse()

	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if (*importPath == "") == (*exportPath == "") {
		fmt.Fprintln(os.Stderr, "usage: dompet-import -import FILE | -export FILE")
		os.Exit(2)
	}

	ctx := context.Background()

	store, err := kvstore.OpenBackend(kvstore.BackendConfig{
		Type:         kvstore.BackendType(cfg.Backend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	}, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	defer store.Close()

	ldgr, err := ledger.Open(ctx, store, ledger.WithPageSize(cfg.PageSize))
	if err != nil {
		logger.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}

	tracker := services.NewTracker(ldgr, nil)

	switch {
	case *importPath != "":
		data, err := os.ReadFile(*importPath)
		if err != nil {
			logger.Error("Failed to read CSV file", "error", err, "path", *importPath)
			os.Exit(1)
		}

		imported, err := tracker.ImportCSV(ctx, string(data))
		if err != nil {
			logger.Error("Import failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Import completed", "rows", imported, "total", ldgr.Size(), "path", *importPath)

	case *exportPath != "":
		data, err := tracker.ExportCSV()
		if err != nil {
			if errors.Is(err, ledger.ErrNoTransactions) {
				logger.Warn("Nothing to export, ledger is empty")
				os.Exit(1)
			}
			logger.Error("Export failed", "error", err)
			os.Exit(1)
		}

		if *exportPath == "-" {
			fmt.Print(data)
			return
		}
		if err := os.WriteFile(*exportPath, []byte(data), 0o644); err != nil {
			logger.Error("Failed to write CSV file", "error", err, "path", *exportPath)
			os.Exit(1)
		}
		logger.Info("Export completed", "rows", ldgr.Size(), "path", *exportPath)
	}
}
