// Package model contains domain models passed between layers.
package model

import "time"

// EventType classifies an observed worker/workstation state.
type EventType string

// Known event types.
const (
	EventWorking      EventType = "working"
	EventIdle         EventType = "idle"
	EventAbsent       EventType = "absent"
	EventProductCount EventType = "product_count"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventWorking, EventIdle, EventAbsent, EventProductCount:
		return true
	}
	return false
}

// Span reports whether durations of this type count toward utilization.
// Working and idle events describe spans of activity; absent and
// product_count events are tracked but excluded from utilization math.
func (t EventType) Span() bool {
	return t == EventWorking || t == EventIdle
}

// Event is a single timestamped observation. Events are immutable once
// stored; the ID is assigned by the store on insert.
type Event struct {
	ID         int64
	Timestamp  time.Time
	WorkerID   string
	StationID  string
	Type       EventType
	Confidence float64 // provenance metadata, never used in aggregation
	Count      int     // meaningful only for product_count
}

// Worker is immutable reference data seeded at setup time.
type Worker struct {
	ID         string `json:"worker_id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Shift      string `json:"shift,omitempty"`
}

// Workstation is immutable reference data seeded at setup time.
type Workstation struct {
	ID       string `json:"station_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity,omitempty"`
}
