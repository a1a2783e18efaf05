// Package validate checks candidate event records before storage.
package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farhadf/linepulse/internal/domain/model"
)

// Record is a candidate event as submitted by a caller, prior to any
// normalization. Confidence and Count are optional; zero values are the
// documented defaults.
type Record struct {
	Timestamp  string
	WorkerID   string
	StationID  string
	EventType  string
	Confidence float64
	Count      int
}

// Result pairs one batch item with its validation outcome.
type Result struct {
	Event model.Event
	Err   error
}

// ReferenceSet answers existence checks against reference data.
type ReferenceSet interface {
	HasWorker(ctx context.Context, id string) (bool, error)
	HasStation(ctx context.Context, id string) (bool, error)
}

// Validator normalizes records into storable events. Validation is a pure
// check: no side effects beyond the reference lookups.
type Validator struct {
	refs ReferenceSet
}

// New creates a Validator backed by the given reference data.
func New(refs ReferenceSet) *Validator {
	return &Validator{refs: refs}
}

// Validate checks a single record and returns the normalized event.
// Malformed input yields a *FieldError; an unknown worker or station
// yields model.ErrWorkerNotFound / model.ErrStationNotFound.
func (v *Validator) Validate(ctx context.Context, rec Record) (model.Event, error) {
	if strings.TrimSpace(rec.Timestamp) == "" {
		return model.Event{}, newFieldError("timestamp", "required")
	}
	if strings.TrimSpace(rec.WorkerID) == "" {
		return model.Event{}, newFieldError("worker_id", "required")
	}
	if strings.TrimSpace(rec.StationID) == "" {
		return model.Event{}, newFieldError("workstation_id", "required")
	}
	if strings.TrimSpace(rec.EventType) == "" {
		return model.Event{}, newFieldError("event_type", "required")
	}

	ts, err := time.Parse(time.RFC3339, rec.Timestamp)
	if err != nil {
		return model.Event{}, newFieldError("timestamp", "must be an RFC3339 timestamp")
	}

	et := model.EventType(rec.EventType)
	if !et.Valid() {
		return model.Event{}, newFieldError("event_type",
			"must be one of working, idle, absent, product_count")
	}

	if rec.Confidence < 0 || rec.Confidence > 1 {
		return model.Event{}, newFieldError("confidence", "must be between 0.0 and 1.0")
	}
	if rec.Count < 0 {
		return model.Event{}, newFieldError("count", "must not be negative")
	}

	ok, err := v.refs.HasWorker(ctx, rec.WorkerID)
	if err != nil {
		return model.Event{}, fmt.Errorf("worker lookup: %w", err)
	}
	if !ok {
		return model.Event{}, fmt.Errorf("worker %q: %w", rec.WorkerID, model.ErrWorkerNotFound)
	}

	ok, err = v.refs.HasStation(ctx, rec.StationID)
	if err != nil {
		return model.Event{}, fmt.Errorf("workstation lookup: %w", err)
	}
	if !ok {
		return model.Event{}, fmt.Errorf("workstation %q: %w", rec.StationID, model.ErrStationNotFound)
	}

	return model.Event{
		Timestamp:  ts.UTC(),
		WorkerID:   rec.WorkerID,
		StationID:  rec.StationID,
		Type:       et,
		Confidence: rec.Confidence,
		Count:      rec.Count,
	}, nil
}

// ValidateBatch applies Validate per item. One invalid record never blocks
// the rest; each result carries its own outcome.
func (v *Validator) ValidateBatch(ctx context.Context, recs []Record) []Result {
	results := make([]Result, len(recs))
	for i, rec := range recs {
		ev, err := v.Validate(ctx, rec)
		results[i] = Result{Event: ev, Err: err}
	}
	return results
}
