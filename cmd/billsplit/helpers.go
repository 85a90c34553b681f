package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/whlim/billsplit/internal/config"
	"github.com/whlim/billsplit/internal/engine"
	"github.com/whlim/billsplit/internal/match"
	"github.com/whlim/billsplit/internal/service"
	"github.com/whlim/billsplit/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/billsplit/billsplit.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newCategorizer builds the configured categorizer. Setting
// matching.mode to "substring" selects the degraded containment matcher.
func newCategorizer() *engine.Categorizer {
	if viper.GetString("matching.mode") == "substring" {
		return engine.NewCategorizer(nil)
	}
	return engine.NewCategorizer(match.NewLevenshteinScorer())
}

// parseBillMonth parses a YYYY-MM statement month flag, defaulting to
// the first day of the current month when empty.
func parseBillMonth(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid bill month format (use YYYY-MM): %w", err)
	}
	return t, nil
}
