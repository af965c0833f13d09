package config

import (
	"fmt"
	"os"

	"task-list/internal/repository/sqlite"
)

// CreateRepository opens the durable slot repository described by the configuration
func CreateRepository(config *Config) (sqlite.Repository, error) {
	if config.Storage.Filename != ":memory:" {
		if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	repo, err := sqlite.NewWithOptions(config.GetDatabasePath(), sqlite.Options{
		MaxValueBytes: config.Storage.MaxBytes,
		QueryTimeout:  config.Storage.QueryTimeout,
		WriteTimeout:  config.Storage.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test store: %w", err)
	}

	return repo, nil
}
