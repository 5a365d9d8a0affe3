// Package runstore persists analysis runs.
//
// A run records the outcome of a single engine operation (width,
// antichain, safety, decompose) so it can be fetched later by ID.
// The Store interface supports different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - mongo: MongoDB-backed storage for server deployments
//
// Runs expire after a TTL; Cleanup removes stale entries on backends
// that do not expire documents themselves.
package runstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for run storage operations.
var (
	// ErrNotFound is returned when a run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrExpired is returned when a run exists but has exceeded its TTL.
	ErrExpired = errors.New("run expired")
)

// DefaultTTL is the default retention period for stored runs.
const DefaultTTL = 24 * time.Hour

// Run records the result of a single analysis operation.
type Run struct {
	ID        string          `json:"id" bson:"_id"`
	GraphID   string          `json:"graph_id" bson:"graph_id"`
	Operation string          `json:"operation" bson:"operation"`
	Payload   json.RawMessage `json:"payload" bson:"payload"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the run has exceeded its TTL.
func (r *Run) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Store is the interface for run storage backends.
type Store interface {
	// Get retrieves a run by ID.
	// Returns ErrNotFound if the run doesn't exist and ErrExpired if
	// it exists but has exceeded its TTL.
	Get(ctx context.Context, id string) (*Run, error)

	// Set stores a run.
	Set(ctx context.Context, run *Run) error

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired runs (may be a no-op for backends with
	// native expiration).
	Cleanup(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

// New creates a run for the given graph and operation. The payload is
// marshaled to JSON and the run receives a fresh UUID.
func New(graphID, operation string, payload any, ttl time.Duration) (*Run, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		GraphID:   graphID,
		Operation: operation,
		Payload:   data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
