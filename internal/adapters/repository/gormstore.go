package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/farhadf/linepulse/internal/domain/model"
	"github.com/farhadf/linepulse/pkg/metrics"
)

// Persistence records. Kept separate from the domain models so GORM
// concerns stay out of the domain packages.

type workerRecord struct {
	WorkerID   string `gorm:"primaryKey;column:worker_id"`
	Name       string `gorm:"not null"`
	Department string
	Shift      string
	CreatedAt  time.Time
}

func (workerRecord) TableName() string { return "workers" }

type stationRecord struct {
	StationID string `gorm:"primaryKey;column:station_id"`
	Name      string `gorm:"not null"`
	Type      string
	Capacity  int
	CreatedAt time.Time
}

func (stationRecord) TableName() string { return "workstations" }

type eventRecord struct {
	EventID    int64     `gorm:"primaryKey;autoIncrement;column:event_id"`
	Timestamp  time.Time `gorm:"not null;index"`
	WorkerID   string    `gorm:"not null;index"`
	StationID  string    `gorm:"not null;index"`
	EventType  string    `gorm:"not null"`
	Confidence float64
	Count      int
	CreatedAt  time.Time
}

func (eventRecord) TableName() string { return "events" }

// GormStore implements Store over SQLite via GORM. Writes serialize
// behind a mutex so concurrent appends never interleave on the
// auto-increment log; SQLite itself allows a single writer anyway.
type GormStore struct {
	db      *gorm.DB
	writeMu sync.Mutex

	dsn string
}

var _ Store = (*GormStore)(nil)

// New opens (or creates) the SQLite database and migrates the schema.
func New(ctx context.Context, opts ...Option) (*GormStore, error) {
	s := &GormStore{dsn: "linepulse.db"}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(sqlite.Open(s.dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// A single connection keeps the in-memory DSN coherent and enforces
	// the single-writer discipline.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.WithContext(ctx).AutoMigrate(&workerRecord{}, &stationRecord{}, &eventRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	return s, nil
}

// Append durably inserts one event and returns the assigned id.
func (s *GormStore) Append(ctx context.Context, ev model.Event) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rec := eventRecord{
		Timestamp:  ev.Timestamp.UTC(),
		WorkerID:   ev.WorkerID,
		StationID:  ev.StationID,
		EventType:  string(ev.Type),
		Confidence: ev.Confidence,
		Count:      ev.Count,
	}

	start := time.Now()
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("%w: append: %v", ErrStore, err)
	}
	metrics.ObserveStoreAppend(time.Since(start).Seconds())
	return rec.EventID, nil
}

// AppendBatch inserts events one at a time so a failing item never blocks
// the rest of the batch.
func (s *GormStore) AppendBatch(ctx context.Context, evs []model.Event) []ItemResult {
	results := make([]ItemResult, len(evs))
	for i, ev := range evs {
		id, err := s.Append(ctx, ev)
		results[i] = ItemResult{ID: id, Err: err}
	}
	return results
}

func (s *GormStore) eventQuery(ctx context.Context, w Window) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&eventRecord{})
	if !w.Since.IsZero() {
		q = q.Where("timestamp >= ?", w.Since.UTC())
	}
	if !w.Until.IsZero() {
		q = q.Where("timestamp <= ?", w.Until.UTC())
	}
	return q
}

func (s *GormStore) queryEvents(q *gorm.DB) ([]model.Event, error) {
	var recs []eventRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: query events: %v", ErrStore, err)
	}
	events := make([]model.Event, len(recs))
	for i, r := range recs {
		events[i] = model.Event{
			ID:         r.EventID,
			Timestamp:  r.Timestamp.UTC(),
			WorkerID:   r.WorkerID,
			StationID:  r.StationID,
			Type:       model.EventType(r.EventType),
			Confidence: r.Confidence,
			Count:      r.Count,
		}
	}
	return events, nil
}

// Events returns all events within the window, in no guaranteed order.
func (s *GormStore) Events(ctx context.Context, w Window) ([]model.Event, error) {
	return s.queryEvents(s.eventQuery(ctx, w))
}

// EventsByWorker returns one worker's events within the window.
func (s *GormStore) EventsByWorker(ctx context.Context, workerID string, w Window) ([]model.Event, error) {
	return s.queryEvents(s.eventQuery(ctx, w).Where("worker_id = ?", workerID))
}

// EventsByStation returns one station's events within the window.
func (s *GormStore) EventsByStation(ctx context.Context, stationID string, w Window) ([]model.Event, error) {
	return s.queryEvents(s.eventQuery(ctx, w).Where("station_id = ?", stationID))
}

// Workers lists the reference workers ordered by id.
func (s *GormStore) Workers(ctx context.Context) ([]model.Worker, error) {
	var recs []workerRecord
	if err := s.db.WithContext(ctx).Order("worker_id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: query workers: %v", ErrStore, err)
	}
	workers := make([]model.Worker, len(recs))
	for i, r := range recs {
		workers[i] = model.Worker{ID: r.WorkerID, Name: r.Name, Department: r.Department, Shift: r.Shift}
	}
	return workers, nil
}

// Workstations lists the reference stations ordered by id.
func (s *GormStore) Workstations(ctx context.Context) ([]model.Workstation, error) {
	var recs []stationRecord
	if err := s.db.WithContext(ctx).Order("station_id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: query workstations: %v", ErrStore, err)
	}
	stations := make([]model.Workstation, len(recs))
	for i, r := range recs {
		stations[i] = model.Workstation{ID: r.StationID, Name: r.Name, Type: r.Type, Capacity: r.Capacity}
	}
	return stations, nil
}

// WorkerByID fetches one worker, reporting unknown ids as not found.
func (s *GormStore) WorkerByID(ctx context.Context, id string) (model.Worker, error) {
	var rec workerRecord
	err := s.db.WithContext(ctx).Where("worker_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Worker{}, fmt.Errorf("worker %q: %w", id, model.ErrWorkerNotFound)
	}
	if err != nil {
		return model.Worker{}, fmt.Errorf("%w: query worker: %v", ErrStore, err)
	}
	return model.Worker{ID: rec.WorkerID, Name: rec.Name, Department: rec.Department, Shift: rec.Shift}, nil
}

// WorkstationByID fetches one station, reporting unknown ids as not found.
func (s *GormStore) WorkstationByID(ctx context.Context, id string) (model.Workstation, error) {
	var rec stationRecord
	err := s.db.WithContext(ctx).Where("station_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Workstation{}, fmt.Errorf("workstation %q: %w", id, model.ErrStationNotFound)
	}
	if err != nil {
		return model.Workstation{}, fmt.Errorf("%w: query workstation: %v", ErrStore, err)
	}
	return model.Workstation{ID: rec.StationID, Name: rec.Name, Type: rec.Type, Capacity: rec.Capacity}, nil
}

// HasWorker reports whether the worker exists in reference data.
func (s *GormStore) HasWorker(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&workerRecord{}).Where("worker_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("%w: worker exists: %v", ErrStore, err)
	}
	return n > 0, nil
}

// HasStation reports whether the station exists in reference data.
func (s *GormStore) HasStation(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&stationRecord{}).Where("station_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("%w: station exists: %v", ErrStore, err)
	}
	return n > 0, nil
}

// Counts returns the store's cardinalities.
func (s *GormStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	db := s.db.WithContext(ctx)
	if err := db.Model(&workerRecord{}).Count(&c.Workers).Error; err != nil {
		return Counts{}, fmt.Errorf("%w: count workers: %v", ErrStore, err)
	}
	if err := db.Model(&stationRecord{}).Count(&c.Stations).Error; err != nil {
		return Counts{}, fmt.Errorf("%w: count stations: %v", ErrStore, err)
	}
	if err := db.Model(&eventRecord{}).Count(&c.Events).Error; err != nil {
		return Counts{}, fmt.Errorf("%w: count events: %v", ErrStore, err)
	}
	return c, nil
}

// Reset wipes all data and reloads the deterministic seed set in one
// transaction, so a failure leaves the store unchanged.
func (s *GormStore) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"events", "workstations", "workers"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		for _, w := range SeedWorkers() {
			rec := workerRecord{WorkerID: w.ID, Name: w.Name, Department: w.Department, Shift: w.Shift}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		for _, st := range SeedWorkstations() {
			rec := stationRecord{StationID: st.ID, Name: st.Name, Type: st.Type, Capacity: st.Capacity}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		for _, ev := range SeedEvents() {
			rec := eventRecord{
				Timestamp:  ev.Timestamp.UTC(),
				WorkerID:   ev.WorkerID,
				StationID:  ev.StationID,
				EventType:  string(ev.Type),
				Confidence: ev.Confidence,
				Count:      ev.Count,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: reset: %v", ErrStore, err)
	}

	metrics.RecordReset()
	return nil
}

// Ping verifies the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: ping: %v", ErrStore, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrStore, err)
	}
	return nil
}

// Close releases the database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: close: %v", ErrStore, err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrStore, err)
	}
	return nil
}
