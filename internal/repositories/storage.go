package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StorageRepository is a string key/value store backed by the storage table.
//
// It plays the part browser localStorage plays for the web client: the session keeps its
// remembered token and username here between runs.
type StorageRepository struct {
	db *sql.DB
}

// NewStorageRepository creates a new [StorageRepository] with the given database connection
func NewStorageRepository(db *sql.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// GetItem returns the value stored under key. ok is false when the key is absent.
func (r *StorageRepository) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem inserts or replaces the value for key.
func (r *StorageRepository) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (r *StorageRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM storage"); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}
