package repository

import (
	"database/sql"
	"errors"
	"time"

	"mockmate/internal/database"
)

// ProgressRepository handles progress snapshot database operations
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// SaveSnapshot stores the serialized snapshot under the given key,
// replacing any previous snapshot for that key.
func (r *ProgressRepository) SaveSnapshot(key, data string, savedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM progress_snapshots WHERE session_key = ?", key); err != nil {
		return err
	}

	query := `
		INSERT INTO progress_snapshots (session_key, data, saved_at)
		VALUES (?, ?, ?)
	`
	if _, err := tx.Exec(query, key, data, savedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetSnapshot retrieves the serialized snapshot for the given key.
// Returns empty data and a zero time when no snapshot exists.
func (r *ProgressRepository) GetSnapshot(key string) (string, time.Time, error) {
	query := `
		SELECT data, saved_at
		FROM progress_snapshots
		WHERE session_key = ?
	`

	var data string
	var savedAt time.Time

	err := r.db.QueryRow(query, key).Scan(&data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}

	return data, savedAt, nil
}

// DeleteSnapshot removes the snapshot for the given key
func (r *ProgressRepository) DeleteSnapshot(key string) error {
	_, err := r.db.Exec("DELETE FROM progress_snapshots WHERE session_key = ?", key)
	return err
}
