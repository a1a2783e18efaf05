// Package repository defines the event store contract and its SQLite
// implementation. The store is append-only: events are inserted, queried
// and wiped by reset, never updated.
package repository

import (
	"context"
	"time"

	"github.com/farhadf/linepulse/internal/domain/model"
)

// Window bounds a query by time. Zero values mean unbounded.
type Window struct {
	Since time.Time
	Until time.Time
}

// ItemResult is the per-item outcome of a batch append.
type ItemResult struct {
	ID  int64
	Err error
}

// Counts carries the store's cardinalities.
type Counts struct {
	Workers  int64
	Stations int64
	Events   int64
}

// Store provides durable access to reference data and the event log.
// Appends are durable before returning and reads reflect all prior
// appends. Query results carry NO ordering guarantee; chronological
// ordering is the duration resolver's responsibility.
type Store interface {
	// Append durably inserts one event and returns its assigned id.
	Append(ctx context.Context, ev model.Event) (int64, error)
	// AppendBatch inserts events one by one; a failing item never blocks
	// the rest.
	AppendBatch(ctx context.Context, evs []model.Event) []ItemResult

	// Events returns all events within the window.
	Events(ctx context.Context, w Window) ([]model.Event, error)
	// EventsByWorker returns one worker's events within the window.
	EventsByWorker(ctx context.Context, workerID string, w Window) ([]model.Event, error)
	// EventsByStation returns one station's events within the window.
	EventsByStation(ctx context.Context, stationID string, w Window) ([]model.Event, error)

	// Reference data access.
	Workers(ctx context.Context) ([]model.Worker, error)
	Workstations(ctx context.Context) ([]model.Workstation, error)
	// WorkerByID returns model.ErrWorkerNotFound for unknown ids.
	WorkerByID(ctx context.Context, id string) (model.Worker, error)
	// WorkstationByID returns model.ErrStationNotFound for unknown ids.
	WorkstationByID(ctx context.Context, id string) (model.Workstation, error)
	HasWorker(ctx context.Context, id string) (bool, error)
	HasStation(ctx context.Context, id string) (bool, error)

	// Counts returns worker/station/event cardinalities.
	Counts(ctx context.Context) (Counts, error)

	// Reset atomically wipes and reseeds reference and sample data:
	// either fully replaced or unchanged, never half-truncated.
	Reset(ctx context.Context) error

	// Ping verifies the underlying persistence is reachable.
	Ping(ctx context.Context) error

	Close() error
}
