package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farhadf/linepulse/internal/adapters/repository"
	"github.com/farhadf/linepulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore(t *testing.T) *repository.GormStore {
	t.Helper()
	s, err := repository.New(context.Background(), repository.WithDSN(":memory:"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ts(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
}

func TestGormStore_Append(t *testing.T) {
	ctx := context.Background()

	// An unseeded store accepts appends directly; referential existence
	// is the validator's job, not the store's.
	Convey("Given an empty store", t, func() {
		s := newStore(t)

		Convey("When appending an event", func() {
			id, err := s.Append(ctx, model.Event{
				Timestamp: ts(8, 0),
				WorkerID:  "W1",
				StationID: "S1",
				Type:      model.EventWorking,
			})

			Convey("Then it should get a monotonic id and be immediately readable", func() {
				So(err, ShouldBeNil)
				So(id, ShouldBeGreaterThan, 0)

				events, err := s.EventsByWorker(ctx, "W1", repository.Window{Since: ts(7, 59)})
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].ID, ShouldEqual, id)
				So(events[0].Type, ShouldEqual, model.EventWorking)
				So(events[0].Timestamp.Equal(ts(8, 0)), ShouldBeTrue)
			})

			Convey("And a second append should get a larger id", func() {
				So(err, ShouldBeNil)
				id2, err := s.Append(ctx, model.Event{
					Timestamp: ts(9, 0),
					WorkerID:  "W1",
					StationID: "S1",
					Type:      model.EventIdle,
				})
				So(err, ShouldBeNil)
				So(id2, ShouldBeGreaterThan, id)
			})
		})

		Convey("When appending a batch", func() {
			results := s.AppendBatch(ctx, []model.Event{
				{Timestamp: ts(8, 0), WorkerID: "W1", StationID: "S1", Type: model.EventWorking},
				{Timestamp: ts(9, 0), WorkerID: "W2", StationID: "S2", Type: model.EventIdle},
			})

			Convey("Then every item should carry its own result", func() {
				So(len(results), ShouldEqual, 2)
				So(results[0].Err, ShouldBeNil)
				So(results[1].Err, ShouldBeNil)
				So(results[1].ID, ShouldBeGreaterThan, results[0].ID)
			})
		})
	})
}

func TestGormStore_Queries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with events across workers and stations", t, func() {
		s := newStore(t)
		So(s.Reset(ctx), ShouldBeNil)

		base := ts(8, 0).AddDate(0, 0, 30) // clear of the seed window
		for i, ev := range []model.Event{
			{WorkerID: "W1", StationID: "S1", Type: model.EventWorking},
			{WorkerID: "W1", StationID: "S2", Type: model.EventIdle},
			{WorkerID: "W2", StationID: "S1", Type: model.EventWorking},
		} {
			ev.Timestamp = base.Add(time.Duration(i) * time.Hour)
			_, err := s.Append(ctx, ev)
			So(err, ShouldBeNil)
		}

		Convey("When querying by worker with a window", func() {
			events, err := s.EventsByWorker(ctx, "W1", repository.Window{Since: base, Until: base.Add(3 * time.Hour)})

			Convey("Then only that worker's events in range should return", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
				for _, e := range events {
					So(e.WorkerID, ShouldEqual, "W1")
				}
			})
		})

		Convey("When querying by station", func() {
			events, err := s.EventsByStation(ctx, "S1", repository.Window{Since: base})

			Convey("Then both workers' events at that station should return", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
				for _, e := range events {
					So(e.StationID, ShouldEqual, "S1")
				}
			})
		})

		Convey("When narrowing the window", func() {
			events, err := s.Events(ctx, repository.Window{Since: base.Add(time.Hour), Until: base.Add(time.Hour)})

			Convey("Then bounds should be inclusive", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
			})
		})

		Convey("When looking up reference data", func() {
			w, err := s.WorkerByID(ctx, "W3")
			So(err, ShouldBeNil)
			So(w.Name, ShouldEqual, "Carol Davis")

			st, err := s.WorkstationByID(ctx, "S5")
			So(err, ShouldBeNil)
			So(st.Type, ShouldEqual, "welding")

			ok, err := s.HasWorker(ctx, "W6")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = s.HasStation(ctx, "S99")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When looking up an unknown worker", func() {
			_, err := s.WorkerByID(ctx, "W99")

			Convey("Then it should report the not-found sentinel", func() {
				So(errors.Is(err, model.ErrWorkerNotFound), ShouldBeTrue)
			})
		})

		Convey("When looking up an unknown station", func() {
			_, err := s.WorkstationByID(ctx, "S99")
			So(errors.Is(err, model.ErrStationNotFound), ShouldBeTrue)
		})
	})
}

func TestGormStore_Reset(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with extra data on top of the seed", t, func() {
		s := newStore(t)
		So(s.Reset(ctx), ShouldBeNil)

		_, err := s.Append(ctx, model.Event{
			Timestamp: ts(8, 0).AddDate(0, 0, 60),
			WorkerID:  "W1",
			StationID: "S1",
			Type:      model.EventWorking,
		})
		So(err, ShouldBeNil)

		Convey("When resetting again", func() {
			So(s.Reset(ctx), ShouldBeNil)

			Convey("Then the reference sets should be the deterministic seeds", func() {
				workers, err := s.Workers(ctx)
				So(err, ShouldBeNil)
				So(workers, ShouldResemble, repository.SeedWorkers())

				stations, err := s.Workstations(ctx)
				So(err, ShouldBeNil)
				So(stations, ShouldResemble, repository.SeedWorkstations())
			})

			Convey("Then the event count should match the seed set exactly", func() {
				c, err := s.Counts(ctx)
				So(err, ShouldBeNil)
				So(c.Workers, ShouldEqual, 6)
				So(c.Stations, ShouldEqual, 6)
				So(c.Events, ShouldEqual, int64(len(repository.SeedEvents())))
			})

			Convey("Then repeated resets should yield identical event logs", func() {
				before, err := s.Events(ctx, repository.Window{})
				So(err, ShouldBeNil)

				So(s.Reset(ctx), ShouldBeNil)
				after, err := s.Events(ctx, repository.Window{})
				So(err, ShouldBeNil)

				So(len(after), ShouldEqual, len(before))
				for i := range after {
					So(after[i].Timestamp.Equal(before[i].Timestamp), ShouldBeTrue)
					So(after[i].WorkerID, ShouldEqual, before[i].WorkerID)
					So(after[i].Type, ShouldEqual, before[i].Type)
					So(after[i].Count, ShouldEqual, before[i].Count)
				}
			})
		})
	})
}

func TestSeedEvents_Deterministic(t *testing.T) {
	Convey("Given the seed generator", t, func() {
		a := repository.SeedEvents()
		b := repository.SeedEvents()

		Convey("Then two runs should produce identical sequences", func() {
			So(len(a), ShouldEqual, len(b))
			So(a, ShouldResemble, b)
		})

		Convey("Then every event should reference seeded entities", func() {
			workers := map[string]bool{}
			for _, w := range repository.SeedWorkers() {
				workers[w.ID] = true
			}
			stations := map[string]bool{}
			for _, st := range repository.SeedWorkstations() {
				stations[st.ID] = true
			}
			for _, ev := range a {
				So(workers[ev.WorkerID], ShouldBeTrue)
				So(stations[ev.StationID], ShouldBeTrue)
				So(ev.Type.Valid(), ShouldBeTrue)
			}
		})

		Convey("Then product_count events should carry positive counts", func() {
			for _, ev := range a {
				if ev.Type == model.EventProductCount {
					So(ev.Count, ShouldBeGreaterThanOrEqualTo, 5)
				} else {
					So(ev.Count, ShouldEqual, 0)
				}
			}
		})
	})
}
