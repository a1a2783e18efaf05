// Package productivity aggregates resolved event durations into worker,
// workstation and factory summaries.
//
// All time values are reported in hours and rounded to two decimals for
// display stability; ratios are always computed from the unrounded sums.
// Division-by-zero guards return zero instead of propagating NaN.
package productivity

import (
	"math"
	"time"

	"github.com/farhadf/linepulse/internal/domain/model"
	"github.com/farhadf/linepulse/internal/domain/timeline"
)

// WorkerMetrics summarizes one worker's tracked activity.
type WorkerMetrics struct {
	WorkerID       string  `json:"worker_id"`
	Name           string  `json:"name"`
	ActiveHours    float64 `json:"active_time_hours"`
	IdleHours      float64 `json:"idle_time_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
	UnitsProduced  int     `json:"units_produced"`
	UnitsPerHour   float64 `json:"units_per_hour"`
	EventCount     int     `json:"event_count"`

	// Unrounded sums kept for factory rollups.
	active time.Duration
	idle   time.Duration
}

// StationMetrics summarizes activity observed at one workstation. A
// station is occupied during both working and idle spans; utilization is
// the working share of that occupancy.
type StationMetrics struct {
	StationID      string  `json:"station_id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	OccupancyHours float64 `json:"occupancy_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
	UnitsProduced  int     `json:"units_produced"`
	ThroughputRate float64 `json:"throughput_per_hour"`
	EventCount     int     `json:"event_count"`
}

// FactoryMetrics is the global rollup across all workers and stations.
type FactoryMetrics struct {
	TotalProductiveHours  float64 `json:"total_productive_hours"`
	TotalProductionCount  int     `json:"total_production_count"`
	AverageProductionRate float64 `json:"average_production_rate"`
	AverageUtilizationPct float64 `json:"average_utilization_pct"`
	WorkerCount           int64   `json:"worker_count"`
	StationCount          int64   `json:"station_count"`
	TotalEvents           int64   `json:"total_events"`
}

// Cardinalities carries the simple counts reported by factory metrics.
type Cardinalities struct {
	Workers  int64
	Stations int64
	Events   int64
}

// ForWorker computes metrics over one worker's events. Zero events yield
// a valid zero-valued summary.
func ForWorker(w model.Worker, events []model.Event) WorkerMetrics {
	spans := timeline.Resolve(events)
	totals := timeline.ByType(spans)

	units := 0
	for _, s := range spans {
		if s.Event.Type == model.EventProductCount {
			units += s.Event.Count
		}
	}

	active := totals[model.EventWorking]
	idle := totals[model.EventIdle]

	return WorkerMetrics{
		WorkerID:       w.ID,
		Name:           w.Name,
		ActiveHours:    round2(hours(active)),
		IdleHours:      round2(hours(idle)),
		UtilizationPct: round2(ratio(hours(active), hours(active)+hours(idle)) * 100),
		UnitsProduced:  units,
		UnitsPerHour:   round2(ratio(float64(units), hours(active))),
		EventCount:     len(events),
		active:         active,
		idle:           idle,
	}
}

// ForStation computes metrics over the events observed at one station.
func ForStation(st model.Workstation, events []model.Event) StationMetrics {
	spans := timeline.Resolve(events)
	totals := timeline.ByType(spans)

	units := 0
	for _, s := range spans {
		if s.Event.Type == model.EventProductCount {
			units += s.Event.Count
		}
	}

	working := totals[model.EventWorking]
	occupancy := working + totals[model.EventIdle]

	return StationMetrics{
		StationID:      st.ID,
		Name:           st.Name,
		Type:           st.Type,
		OccupancyHours: round2(hours(occupancy)),
		UtilizationPct: round2(ratio(hours(working), hours(occupancy)) * 100),
		UnitsProduced:  units,
		ThroughputRate: round2(ratio(float64(units), hours(occupancy))),
		EventCount:     len(events),
	}
}

// ForFactory rolls worker summaries up into factory-wide figures. The
// average utilization is the arithmetic mean over workers, zero when
// there are none.
func ForFactory(workers []WorkerMetrics, c Cardinalities) FactoryMetrics {
	var productive time.Duration
	var units int
	var utilSum float64
	for _, w := range workers {
		productive += w.active
		units += w.UnitsProduced
		utilSum += ratio(hours(w.active), hours(w.active)+hours(w.idle)) * 100
	}

	avgUtil := 0.0
	if len(workers) > 0 {
		avgUtil = utilSum / float64(len(workers))
	}

	return FactoryMetrics{
		TotalProductiveHours:  round2(hours(productive)),
		TotalProductionCount:  units,
		AverageProductionRate: round2(ratio(float64(units), hours(productive))),
		AverageUtilizationPct: round2(avgUtil),
		WorkerCount:           c.Workers,
		StationCount:          c.Stations,
		TotalEvents:           c.Events,
	}
}

func hours(d time.Duration) float64 {
	return d.Seconds() / 3600
}

// ratio divides, guarding the zero denominator.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
