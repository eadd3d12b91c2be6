package kvstore

import (
	"fmt"
	"log/slog"

	"dompet/internal/kvstore/memory"
	"dompet/internal/kvstore/sqlite"
)

// BackendType selects a Store implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string { return string(bt) }

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// BackendConfig holds what OpenBackend needs to build a store.
type BackendConfig struct {
	Type         BackendType
	SQLiteDBPath string
}

// OpenBackend creates the configured Store.
func OpenBackend(cfg BackendConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Type {
	case SQLiteBackend:
		store, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite store", "db_path", cfg.SQLiteDBPath)
		return store, nil
	case MemoryBackend:
		logger.Info("Initialized memory store")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}
