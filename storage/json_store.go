package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"ytmovers/snapshot"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// JSONSnapshotStore implements SnapshotStore using a single JSON file.
// Writes go through an atomic temp-file+rename guarded by an advisory file
// lock, so a crashed run can never leave a half-written snapshot behind.
type JSONSnapshotStore struct {
	path   string
	logger *zap.Logger
}

// snapshotRecord is the on-disk envelope around a snapshot.
type snapshotRecord struct {
	Version  string             `json:"version"`
	SavedAt  time.Time          `json:"saved_at"`
	Snapshot *snapshot.Snapshot `json:"snapshot"`
}

// NewJSONSnapshotStore creates a snapshot store backed by the file at path.
// The file is not touched until the first Load or Save.
func NewJSONSnapshotStore(path string, logger *zap.Logger) *JSONSnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONSnapshotStore{path: path, logger: logger.Named("storage")}
}

// Load reads the stored snapshot. A missing file returns (nil, nil); so does
// an unparsable or invalid one, after logging, because a corrupt baseline is
// treated exactly like a first run.
func (s *JSONSnapshotStore) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Entity: "snapshot", Err: err}
	}

	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("snapshot file unparsable, treating as no previous snapshot",
			zap.String("path", s.path), zap.Error(err))
		return nil, nil
	}
	if rec.Snapshot == nil {
		s.logger.Warn("snapshot file has no snapshot record, treating as no previous snapshot",
			zap.String("path", s.path))
		return nil, nil
	}

	// Reject snapshots that violate the count invariants rather than feed
	// them to the delta engine as a baseline.
	for key, m := range rec.Snapshot.Videos {
		if err := m.Validate(); err != nil {
			s.logger.Warn("snapshot file carries invalid metrics, treating as no previous snapshot",
				zap.String("path", s.path), zap.String("key", key), zap.Error(err))
			return nil, nil
		}
	}

	return rec.Snapshot, nil
}

// Save replaces the stored snapshot with snap. The previous record is fully
// overwritten; there is no merge and no history.
func (s *JSONSnapshotStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := NewFileLock(s.path)
	if err := lock.Lock(lockTimeout); err != nil {
		return err
	}
	defer lock.Unlock()

	rec := snapshotRecord{
		Version:  schemaVersion,
		SavedAt:  time.Now(),
		Snapshot: snap,
	}

	writer, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "snapshot", Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rec); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: "snapshot", Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "snapshot", Err: err}
	}

	s.logger.Debug("snapshot saved",
		zap.String("path", s.path),
		zap.Int("videos", len(snap.Videos)),
		zap.String("run_id", snap.RunID))
	return nil
}
