// Package store indexes rendered cards.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and one-shot CLI runs
//   - [MongoStore]: a MongoDB collection shared by service instances
//
// An entry is write-once and identified by its record id and generation
// time, the same pair that names the PNG on disk.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no entry matches.
	ErrNotFound = errors.New("card not found")

	// ErrExists is returned when an entry with the same identity was already
	// saved.
	ErrExists = errors.New("card already indexed")
)

// Entry describes one rendered card.
type Entry struct {
	RecordID    int64     `json:"record_id" bson:"record_id"`
	GeneratedAt time.Time `json:"generated_at" bson:"generated_at"`
	Path        string    `json:"path" bson:"path"`
	DetailURL   string    `json:"detail_url" bson:"detail_url"`
	Theme       string    `json:"theme" bson:"theme"`
	Width       int       `json:"width" bson:"width"`
	Height      int       `json:"height" bson:"height"`
	Degraded    []string  `json:"degraded,omitempty" bson:"degraded,omitempty"`
	BatchID     string    `json:"batch_id,omitempty" bson:"batch_id,omitempty"`
}

// Store is the interface for card index backends.
type Store interface {
	// Save indexes e. It returns ErrExists for a duplicate identity.
	Save(ctx context.Context, e Entry) error

	// Get returns the entry for a record rendered at generatedAt.
	Get(ctx context.Context, recordID int64, generatedAt time.Time) (*Entry, error)

	// List returns every entry for a record, newest first.
	List(ctx context.Context, recordID int64) ([]Entry, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
