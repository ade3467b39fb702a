package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"
)

// FileRunGuard records the timestamp of the last successful discovery run in
// a small JSON file.
type FileRunGuard struct {
	path string
}

type runGuardRecord struct {
	LastRun time.Time `json:"last_run"`
}

// NewFileRunGuard creates a run guard backed by the file at path.
func NewFileRunGuard(path string) *FileRunGuard {
	return &FileRunGuard{path: path}
}

// LastRun returns the recorded timestamp. A missing or unreadable record
// means "never ran" (ok=false), not an error.
func (g *FileRunGuard) LastRun(ctx context.Context) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}

	data, err := os.ReadFile(g.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, &StorageError{Op: "read", Entity: "run_guard", Err: err}
	}

	var rec runGuardRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.LastRun.IsZero() {
		return time.Time{}, false, nil
	}

	return rec.LastRun, true, nil
}

// SetLastRun records t as the most recent successful run.
func (g *FileRunGuard) SetLastRun(ctx context.Context, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writer, err := NewAtomicWriter(g.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "run_guard", Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(runGuardRecord{LastRun: t.Truncate(time.Second)}); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: "run_guard", Err: err}
	}

	return writer.Commit()
}
