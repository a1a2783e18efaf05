package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/farhadf/linepulse/internal/domain/model"
	"github.com/farhadf/linepulse/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

type stubRefs struct {
	workers  map[string]bool
	stations map[string]bool
}

func (s *stubRefs) HasWorker(_ context.Context, id string) (bool, error) {
	return s.workers[id], nil
}

func (s *stubRefs) HasStation(_ context.Context, id string) (bool, error) {
	return s.stations[id], nil
}

func newStubRefs() *stubRefs {
	return &stubRefs{
		workers:  map[string]bool{"W1": true, "W2": true},
		stations: map[string]bool{"S1": true},
	}
}

func valid() validate.Record {
	return validate.Record{
		Timestamp:  "2025-03-03T08:00:00Z",
		WorkerID:   "W1",
		StationID:  "S1",
		EventType:  "working",
		Confidence: 0.95,
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a validator over known reference data", t, func() {
		v := validate.New(newStubRefs())

		Convey("When validating a well-formed record", func() {
			ev, err := v.Validate(ctx, valid())

			Convey("Then it should normalize into a storable event", func() {
				So(err, ShouldBeNil)
				So(ev.WorkerID, ShouldEqual, "W1")
				So(ev.StationID, ShouldEqual, "S1")
				So(ev.Type, ShouldEqual, model.EventWorking)
				So(ev.Timestamp.Hour(), ShouldEqual, 8)
				So(ev.Count, ShouldEqual, 0)
			})
		})

		Convey("When a required field is missing", func() {
			for _, tc := range []struct {
				field  string
				mutate func(*validate.Record)
			}{
				{"timestamp", func(r *validate.Record) { r.Timestamp = "" }},
				{"worker_id", func(r *validate.Record) { r.WorkerID = "" }},
				{"workstation_id", func(r *validate.Record) { r.StationID = " " }},
				{"event_type", func(r *validate.Record) { r.EventType = "" }},
			} {
				rec := valid()
				tc.mutate(&rec)
				_, err := v.Validate(ctx, rec)

				Convey("Then "+tc.field+" should be reported as the violated field", func() {
					So(errors.Is(err, validate.ErrInvalid), ShouldBeTrue)
					var fe *validate.FieldError
					So(errors.As(err, &fe), ShouldBeTrue)
					So(fe.Field, ShouldEqual, tc.field)
				})
			}
		})

		Convey("When the timestamp does not parse", func() {
			rec := valid()
			rec.Timestamp = "yesterday at noon"
			_, err := v.Validate(ctx, rec)

			Convey("Then it should fail validation, not crash", func() {
				So(errors.Is(err, validate.ErrInvalid), ShouldBeTrue)
			})
		})

		Convey("When the event type is unknown", func() {
			rec := valid()
			rec.EventType = "napping"
			_, err := v.Validate(ctx, rec)

			So(errors.Is(err, validate.ErrInvalid), ShouldBeTrue)
		})

		Convey("When confidence is out of range", func() {
			rec := valid()
			rec.Confidence = 1.5
			_, err := v.Validate(ctx, rec)

			So(errors.Is(err, validate.ErrInvalid), ShouldBeTrue)
		})

		Convey("When count is negative", func() {
			rec := valid()
			rec.EventType = "product_count"
			rec.Count = -3
			_, err := v.Validate(ctx, rec)

			So(errors.Is(err, validate.ErrInvalid), ShouldBeTrue)
		})

		Convey("When the worker is unknown", func() {
			rec := valid()
			rec.WorkerID = "W99"
			_, err := v.Validate(ctx, rec)

			Convey("Then it should be a not-found error, distinct from validation", func() {
				So(errors.Is(err, model.ErrWorkerNotFound), ShouldBeTrue)
				So(errors.Is(err, validate.ErrInvalid), ShouldBeFalse)
			})
		})

		Convey("When the workstation is unknown", func() {
			rec := valid()
			rec.StationID = "S99"
			_, err := v.Validate(ctx, rec)

			So(errors.Is(err, model.ErrStationNotFound), ShouldBeTrue)
		})
	})
}

func TestValidateBatch(t *testing.T) {
	ctx := context.Background()

	Convey("Given a batch of five records with one unknown worker", t, func() {
		v := validate.New(newStubRefs())
		recs := []validate.Record{valid(), valid(), valid(), valid(), valid()}
		recs[2].WorkerID = "W99"

		Convey("When validating the batch", func() {
			results := v.ValidateBatch(ctx, recs)

			Convey("Then the bad record should not block the others", func() {
				So(len(results), ShouldEqual, 5)
				ok := 0
				for _, r := range results {
					if r.Err == nil {
						ok++
					}
				}
				So(ok, ShouldEqual, 4)
			})

			Convey("Then the failing item should be flagged as not found", func() {
				So(errors.Is(results[2].Err, model.ErrWorkerNotFound), ShouldBeTrue)
			})
		})
	})
}
