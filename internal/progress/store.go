package progress

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mockmate/internal/models"
	"mockmate/internal/repository"
)

// DefaultKey is the snapshot slot for the single in-progress session
const DefaultKey = "current"

// Store persists in-progress session snapshots. Implementations enforce
// the expiry policy on load: an expired snapshot is treated as absent and
// removed.
type Store interface {
	Save(snapshot *models.ProgressSnapshot) error
	Load() (*models.ProgressSnapshot, error)
	Clear() error
}

// DBStore keeps snapshots in the local database
type DBStore struct {
	repo *repository.ProgressRepository
	key  string
	now  func() time.Time
}

// NewDBStore creates a database-backed progress store
func NewDBStore(repo *repository.ProgressRepository) *DBStore {
	return &DBStore{
		repo: repo,
		key:  DefaultKey,
		now:  time.Now,
	}
}

// Save writes the snapshot, stamping it with the current time
func (s *DBStore) Save(snapshot *models.ProgressSnapshot) error {
	snapshot.SavedAt = s.now()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.repo.SaveSnapshot(s.key, string(data), snapshot.SavedAt); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the saved snapshot, or nil when none exists or the saved
// one has passed the expiry window (in which case it is cleared).
func (s *DBStore) Load() (*models.ProgressSnapshot, error) {
	data, _, err := s.repo.GetSnapshot(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if data == "" {
		return nil, nil
	}

	var snapshot models.ProgressSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		// A snapshot we cannot decode is as good as absent
		_ = s.repo.DeleteSnapshot(s.key)
		return nil, nil
	}

	if snapshot.Expired(s.now()) {
		_ = s.repo.DeleteSnapshot(s.key)
		return nil, nil
	}

	return &snapshot, nil
}

// Clear removes any saved snapshot
func (s *DBStore) Clear() error {
	return s.repo.DeleteSnapshot(s.key)
}

// MemoryStore is an in-memory Store used in tests and as a fallback when
// no database is available.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot *models.ProgressSnapshot
	now      func() time.Time

	// SaveErr, when set, is returned from Save to simulate storage failure
	SaveErr error
}

// NewMemoryStore creates an in-memory progress store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// NewMemoryStoreAt creates an in-memory store with an injected clock
func NewMemoryStoreAt(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now}
}

// Save stores a copy of the snapshot
func (s *MemoryStore) Save(snapshot *models.ProgressSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	copied := *snapshot
	copied.SavedAt = s.now()
	copied.Questions = append([]string(nil), snapshot.Questions...)
	copied.Answers = append([]string(nil), snapshot.Answers...)
	s.snapshot = &copied
	return nil
}

// Load returns the stored snapshot if present and unexpired
func (s *MemoryStore) Load() (*models.ProgressSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return nil, nil
	}
	if s.snapshot.Expired(s.now()) {
		s.snapshot = nil
		return nil, nil
	}

	copied := *s.snapshot
	return &copied, nil
}

// Clear removes the stored snapshot
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	return nil
}
