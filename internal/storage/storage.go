// Package storage picks the configured exploration store.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tatianab/explorations/internal/config"
	"github.com/tatianab/explorations/internal/models"
	"github.com/tatianab/explorations/internal/storage/sqlite"
)

// Open returns the store named by cfg.Store.
func Open(cfg *config.Config) (models.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		return sqlite.Open(cfg.SQLitePath)
	case config.StoreYAML, "":
		return models.NewFileStore(cfg.SaveDir), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// SeedDemo saves the bundled demo exploration when the store is empty and
// reports whether it did.
func SeedDemo(ctx context.Context, store models.Store) (bool, error) {
	existing, err := store.ListExplorations(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	demo, err := models.DemoExploration()
	if err != nil {
		return false, err
	}
	demo.ID = 0
	if err := store.SaveExploration(ctx, demo); err != nil {
		return false, err
	}
	return true, nil
}
