package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/salesreport/internal/config"
	"github.com/Veraticus/salesreport/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens and migrates the sales database.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}

	store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
