// Package app provides the core business facade that implements the
// ingestion and metrics contract consumed by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farhadf/linepulse/internal/adapters/repository"
	"github.com/farhadf/linepulse/internal/domain/model"
	"github.com/farhadf/linepulse/internal/domain/productivity"
	"github.com/farhadf/linepulse/internal/domain/types"
	"github.com/farhadf/linepulse/internal/domain/validate"
	"github.com/farhadf/linepulse/pkg/logger"
	"github.com/farhadf/linepulse/pkg/metrics"
)

const defaultMaxBatchSize = 500

// Service wires the validator, the event store and the aggregation logic
// behind the request/response contract. Metrics requests perform a full
// read-and-recompute over the relevant event set; no incremental state is
// kept between requests, so concurrent reads are safe by construction.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	validator *validate.Validator

	maxBatchSize int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing event store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBatchSize caps the number of records per batch ingestion.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxBatchSize: defaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the service for requests. The store must have been
// provided via WithStore.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return errors.New("service requires a store")
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.validator = validate.New(s.store)
	s.started = true
	s.logger.Info(ctx, "productivity service started",
		logger.Int("maxBatchSize", s.maxBatchSize),
	)
	return nil
}

// Stop releases the service's resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "productivity service stopped")
}

// IngestEvent validates and durably stores a single event, returning the
// assigned id. Fails fast with the specific error.
func (s *Service) IngestEvent(ctx context.Context, rec validate.Record) (int64, error) {
	ev, err := s.validator.Validate(ctx, rec)
	if err != nil {
		metrics.RecordEventRejected(rejectReason(err))
		return 0, err
	}

	id, err := s.store.Append(ctx, ev)
	if err != nil {
		metrics.RecordEventRejected(rejectReason(err))
		return 0, err
	}

	metrics.RecordEventIngested()
	s.logger.Debug(ctx, "event ingested",
		logger.Int64("id", id),
		logger.String("worker", ev.WorkerID),
		logger.String("station", ev.StationID),
		logger.String("type", string(ev.Type)),
	)
	return id, nil
}

// IngestBatch validates and stores records item by item. The result
// enumerates which records succeeded and which failed with why.
func (s *Service) IngestBatch(ctx context.Context, recs []validate.Record) (types.BatchResult, error) {
	if len(recs) > s.maxBatchSize {
		return types.BatchResult{}, fmt.Errorf("%w: %d records, limit %d", types.ErrBatchTooLarge, len(recs), s.maxBatchSize)
	}

	result := types.BatchResult{
		BatchID:    uuid.NewString(),
		TotalCount: len(recs),
		Items:      make([]types.BatchItem, len(recs)),
	}

	for i, vr := range s.validator.ValidateBatch(ctx, recs) {
		item := types.BatchItem{Index: i, Err: vr.Err}
		if vr.Err == nil {
			id, err := s.store.Append(ctx, vr.Event)
			item.ID, item.Err = id, err
		}
		if item.Err == nil {
			result.SuccessCount++
			metrics.RecordEventIngested()
		} else {
			metrics.RecordEventRejected(rejectReason(item.Err))
		}
		result.Items[i] = item
	}

	metrics.ObserveBatchSize(len(recs))
	s.logger.Info(ctx, "batch ingested",
		logger.String("batchID", result.BatchID),
		logger.Int("success", result.SuccessCount),
		logger.Int("total", result.TotalCount),
	)
	return result, nil
}

// WorkerMetrics recomputes metrics for one worker. Unknown ids are a
// not-found error; a known worker with zero events yields zero metrics.
func (s *Service) WorkerMetrics(ctx context.Context, workerID string) (productivity.WorkerMetrics, error) {
	w, err := s.store.WorkerByID(ctx, workerID)
	if err != nil {
		return productivity.WorkerMetrics{}, err
	}
	events, err := s.store.EventsByWorker(ctx, workerID, repository.Window{})
	if err != nil {
		return productivity.WorkerMetrics{}, err
	}

	start := time.Now()
	m := productivity.ForWorker(w, events)
	metrics.ObserveRecompute("worker", time.Since(start).Seconds())
	return m, nil
}

// AllWorkerMetrics recomputes metrics for every seeded worker.
func (s *Service) AllWorkerMetrics(ctx context.Context) ([]productivity.WorkerMetrics, error) {
	workers, err := s.store.Workers(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out := make([]productivity.WorkerMetrics, 0, len(workers))
	for _, w := range workers {
		events, err := s.store.EventsByWorker(ctx, w.ID, repository.Window{})
		if err != nil {
			return nil, err
		}
		out = append(out, productivity.ForWorker(w, events))
	}
	metrics.ObserveRecompute("workers", time.Since(start).Seconds())
	return out, nil
}

// StationMetrics recomputes metrics for one workstation.
func (s *Service) StationMetrics(ctx context.Context, stationID string) (productivity.StationMetrics, error) {
	st, err := s.store.WorkstationByID(ctx, stationID)
	if err != nil {
		return productivity.StationMetrics{}, err
	}
	events, err := s.store.EventsByStation(ctx, stationID, repository.Window{})
	if err != nil {
		return productivity.StationMetrics{}, err
	}

	start := time.Now()
	m := productivity.ForStation(st, events)
	metrics.ObserveRecompute("station", time.Since(start).Seconds())
	return m, nil
}

// AllStationMetrics recomputes metrics for every seeded workstation.
func (s *Service) AllStationMetrics(ctx context.Context) ([]productivity.StationMetrics, error) {
	stations, err := s.store.Workstations(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out := make([]productivity.StationMetrics, 0, len(stations))
	for _, st := range stations {
		events, err := s.store.EventsByStation(ctx, st.ID, repository.Window{})
		if err != nil {
			return nil, err
		}
		out = append(out, productivity.ForStation(st, events))
	}
	metrics.ObserveRecompute("stations", time.Since(start).Seconds())
	return out, nil
}

// FactoryMetrics rolls all workers up into the global summary.
func (s *Service) FactoryMetrics(ctx context.Context) (productivity.FactoryMetrics, error) {
	workers, err := s.AllWorkerMetrics(ctx)
	if err != nil {
		return productivity.FactoryMetrics{}, err
	}
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return productivity.FactoryMetrics{}, err
	}

	start := time.Now()
	m := productivity.ForFactory(workers, productivity.Cardinalities{
		Workers:  counts.Workers,
		Stations: counts.Stations,
		Events:   counts.Events,
	})
	metrics.ObserveRecompute("factory", time.Since(start).Seconds())
	return m, nil
}

// ListWorkers returns the reference worker set.
func (s *Service) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	return s.store.Workers(ctx)
}

// ListWorkstations returns the reference station set.
func (s *Service) ListWorkstations(ctx context.Context) ([]model.Workstation, error) {
	return s.store.Workstations(ctx)
}

// Reset wipes and reseeds the store with the deterministic sample data.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "store reset to seed data")
	return nil
}

// Ping verifies the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// RefreshGauges pushes current store cardinalities to the metrics
// registry; called periodically from main.
func (s *Service) RefreshGauges(ctx context.Context) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		s.logger.Warn(ctx, "gauge refresh failed", logger.Error(err))
		return
	}
	metrics.UpdateStoredEvents(counts.Events)
	metrics.UpdateWorkerCount(counts.Workers)
	metrics.UpdateStationCount(counts.Stations)
}

// rejectReason buckets ingestion failures for the rejection counter.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, validate.ErrInvalid):
		return "validation"
	case errors.Is(err, model.ErrWorkerNotFound), errors.Is(err, model.ErrStationNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrStore):
		return "store"
	default:
		return "other"
	}
}
