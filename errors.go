package ytmovers

import (
	"ytmovers/storage"
	"ytmovers/tracker"
	"ytmovers/youtube"
)

// Error types from sub-packages, re-exported so library users can handle
// everything through the root package.
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytmovers.ErrEmptySnapshot) {
//		fmt.Println("nothing found, keeping the previous snapshot")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var storErr *ytmovers.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("%s %s failed: %v\n", storErr.Op, storErr.Entity, storErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// ProviderError wraps errors from YouTube API calls.
	ProviderError = youtube.ProviderError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrEmptySnapshot indicates an acquisition pass found no videos; the
	// stored baseline was left untouched.
	ErrEmptySnapshot = tracker.ErrEmptySnapshot
	// ErrMissingAPIKey indicates no YouTube API key was configured.
	ErrMissingAPIKey = youtube.ErrMissingAPIKey
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)
