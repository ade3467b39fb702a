// Package storage persists ytmovers run state: the single metrics snapshot
// that each run compares against, and the last-run timestamp that throttles
// the discovery pathway.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytmovers/snapshot"
)

// Sentinel errors for common storage conditions.
var (
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Entity, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "lock").
	Op string
	// Entity is the entity type ("snapshot", "run_guard").
	Entity string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// SnapshotStore holds at most one snapshot record: the result of the last
// successful run. Save is a total replacement, never a merge or append.
type SnapshotStore interface {
	// Load returns the stored snapshot. A missing or unparsable record
	// returns (nil, nil): parse failures degrade to "no previous snapshot"
	// so a corrupt file never aborts a run.
	Load(ctx context.Context) (*snapshot.Snapshot, error)
	// Save replaces the stored snapshot with s.
	Save(ctx context.Context, s *snapshot.Snapshot) error
}

// RunGuard persists the timestamp of the last successful discovery run.
// It is advisory process state that keeps a human from burning API quota
// twice in a day, not a concurrency primitive.
type RunGuard interface {
	// LastRun returns the recorded timestamp. ok is false when no run has
	// been recorded or the record is unreadable.
	LastRun(ctx context.Context) (t time.Time, ok bool, err error)
	// SetLastRun records t as the most recent successful run.
	SetLastRun(ctx context.Context, t time.Time) error
}
