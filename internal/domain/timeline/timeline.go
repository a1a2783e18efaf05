// Package timeline resolves unordered event sequences into attributed
// durations. This is the core transformation: each event owns the gap to
// its chronological successor, so the spans tile the observed window with
// no gaps or overlaps.
package timeline

import (
	"sort"
	"time"

	"github.com/farhadf/linepulse/internal/domain/model"
)

// Span is an event together with the duration attributed to it.
type Span struct {
	Event    model.Event
	Duration time.Duration
}

// Resolve orders events chronologically and assigns each one the distance
// to its successor. The last event has no successor and contributes zero
// duration; open-ended activity is not extrapolated. Ties on timestamp
// break by store id, which makes the result deterministic for any arrival
// order of the same event set.
//
// The input slice is not modified. Zero events yield an empty resolution;
// a single event yields one zero-duration span. Both are valid, not errors.
func Resolve(events []model.Event) []Span {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	spans := make([]Span, len(sorted))
	for i, ev := range sorted {
		var d time.Duration
		if i < len(sorted)-1 {
			d = sorted[i+1].Timestamp.Sub(ev.Timestamp)
		}
		spans[i] = Span{Event: ev, Duration: d}
	}
	return spans
}

// ByType sums resolved durations per event type.
func ByType(spans []Span) map[model.EventType]time.Duration {
	totals := make(map[model.EventType]time.Duration, 4)
	for _, s := range spans {
		totals[s.Event.Type] += s.Duration
	}
	return totals
}

// ForWorker resolves the subsequence of events belonging to one worker.
// Worker-perspective and station-perspective resolution are independent
// passes over the same underlying event set.
func ForWorker(events []model.Event, workerID string) []Span {
	return Resolve(filter(events, func(e model.Event) bool { return e.WorkerID == workerID }))
}

// ForStation resolves the subsequence of events observed at one station.
func ForStation(events []model.Event, stationID string) []Span {
	return Resolve(filter(events, func(e model.Event) bool { return e.StationID == stationID }))
}

func filter(events []model.Event, keep func(model.Event) bool) []model.Event {
	var out []model.Event
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
