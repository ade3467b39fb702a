package youtube

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ytmovers/internal/retry"
)

func TestNewAPIProvider(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr error
	}{
		{"empty key", "", ErrMissingAPIKey},
		{"valid key", "test-api-key-12345", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewAPIProvider(context.Background(), tt.apiKey)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewAPIProvider() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAPIProvider() error = %v, want nil", err)
			}
			if p == nil {
				t.Fatal("NewAPIProvider() returned nil provider for valid key")
			}
		})
	}
}

func TestBatchIDs(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{"empty", 0, 50, nil},
		{"single partial batch", 3, 50, []int{3}},
		{"exactly one batch", 50, 50, []int{50}},
		{"one over", 51, 50, []int{50, 1}},
		{"several batches", 120, 50, []int{50, 50, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.count)
			for i := range ids {
				ids[i] = fmt.Sprintf("vid-%03d", i)
			}

			batches := batchIDs(ids, tt.size)

			if len(batches) != len(tt.wantSizes) {
				t.Fatalf("batchIDs() produced %d batches, want %d", len(batches), len(tt.wantSizes))
			}
			seen := 0
			for i, b := range batches {
				if len(b) != tt.wantSizes[i] {
					t.Errorf("batch %d has %d ids, want %d", i, len(b), tt.wantSizes[i])
				}
				for _, id := range b {
					if id != ids[seen] {
						t.Errorf("batch %d out of order: got %q, want %q", i, id, ids[seen])
					}
					seen++
				}
			}
		})
	}
}

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"not found", retry.ErrNotFound, false},
		{"missing key", ErrMissingAPIKey, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"invalid key", errors.New("googleapi: Error 400: API key not valid"), false},
		{"quota exceeded", errors.New("googleapi: Error 403: quotaExceeded"), true},
		{"rate limited", errors.New("googleapi: Error 403: rateLimitExceeded"), true},
		{"generic transport error", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorClassifier(tt.err); got != tt.want {
				t.Errorf("apiErrorClassifier(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ProviderError{Op: "search", Target: "some query", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ProviderError should unwrap to the inner error")
	}
	want := `youtube: search "some query": boom`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
