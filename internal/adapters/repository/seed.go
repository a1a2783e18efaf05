package repository

import (
	"fmt"
	"time"

	"github.com/farhadf/linepulse/internal/domain/model"
)

// The seed set is fully deterministic: a fixed base instant rather than
// wall clock, so repeated resets produce identical data.
var seedBase = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

const (
	seedDays      = 2
	seedShiftFrom = 8  // first event hour, inclusive
	seedShiftTo   = 16 // last event hour, inclusive
)

// SeedWorkers returns the reference worker set.
func SeedWorkers() []model.Worker {
	return []model.Worker{
		{ID: "W1", Name: "Alice Johnson", Department: "assembly", Shift: "day"},
		{ID: "W2", Name: "Bob Smith", Department: "assembly", Shift: "day"},
		{ID: "W3", Name: "Carol Davis", Department: "inspection", Shift: "day"},
		{ID: "W4", Name: "David Wilson", Department: "packaging", Shift: "day"},
		{ID: "W5", Name: "Emma Brown", Department: "welding", Shift: "night"},
		{ID: "W6", Name: "Frank Miller", Department: "testing", Shift: "night"},
	}
}

// SeedWorkstations returns the reference station set.
func SeedWorkstations() []model.Workstation {
	return []model.Workstation{
		{ID: "S1", Name: "Assembly Line 1", Type: "assembly", Capacity: 4},
		{ID: "S2", Name: "Assembly Line 2", Type: "assembly", Capacity: 4},
		{ID: "S3", Name: "Quality Check", Type: "inspection", Capacity: 2},
		{ID: "S4", Name: "Packaging", Type: "packaging", Capacity: 3},
		{ID: "S5", Name: "Welding Station", Type: "welding", Capacity: 1},
		{ID: "S6", Name: "Testing Station", Type: "testing", Capacity: 2},
	}
}

// SeedEvents generates the sample event grid: for every worker and every
// shift hour across two days, an hourly working event, an idle event
// fifteen minutes in every third hour, and a product_count event half an
// hour in every second hour.
func SeedEvents() []model.Event {
	workers := SeedWorkers()
	var events []model.Event

	for day := 0; day < seedDays; day++ {
		for hour := seedShiftFrom; hour <= seedShiftTo; hour++ {
			for i, w := range workers {
				at := seedBase.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
				station := fmt.Sprintf("S%d", (i%6)+1)

				events = append(events, model.Event{
					Timestamp:  at,
					WorkerID:   w.ID,
					StationID:  station,
					Type:       model.EventWorking,
					Confidence: 0.95,
				})

				if hour%3 == 0 {
					events = append(events, model.Event{
						Timestamp:  at.Add(15 * time.Minute),
						WorkerID:   w.ID,
						StationID:  station,
						Type:       model.EventIdle,
						Confidence: 0.88,
					})
				}

				if hour%2 == 0 {
					events = append(events, model.Event{
						Timestamp:  at.Add(30 * time.Minute),
						WorkerID:   w.ID,
						StationID:  station,
						Type:       model.EventProductCount,
						Confidence: 0.92,
						Count:      5 + (i+hour)%6,
					})
				}
			}
		}
	}
	return events
}
