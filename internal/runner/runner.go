// Package runner drives the frost-number model from a stream of climate
// forcings: each record from the source topic becomes one model step, and
// each step's outputs are published to the sink topic.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/frost-number-service/internal/forcing"
	"github.com/couchcryptid/frost-number-service/internal/model"
	"github.com/couchcryptid/frost-number-service/internal/observability"
)

// BatchExtractor reads up to batchSize raw forcing records from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]forcing.Raw, error)
}

// BatchLoader writes multiple step results to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, results []forcing.StepResult) error
}

// Runner orchestrates the extract-step-publish loop around one Model.
type Runner struct {
	extractor BatchExtractor
	mdl       *model.Model
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Runner stepping the given initialized model.
func New(e BatchExtractor, m *model.Model, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Runner {
	return &Runner{
		extractor: e,
		mdl:       m,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil once the model has completed at least one step,
// or an error describing why the service is not yet ready.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("model has not completed any steps yet")
	}
	return nil
}

// Snapshot exposes the model state for the HTTP state endpoint.
func (r *Runner) Snapshot() model.Snapshot {
	return r.mdl.Snapshot()
}

// Run executes the stepping loop until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started", "batch_size", r.batchSize, "time_units", model.TimeUnits)
	r.metrics.RunnerRunning.Set(1)
	defer r.metrics.RunnerRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !r.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-step-publish cycle. Returns false if the runner should stop.
func (r *Runner) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := r.extractor.ExtractBatch(ctx, r.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.logger.Error("extract batch failed", "error", err)
		return r.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	r.metrics.ForcingsConsumed.Add(float64(len(rawBatch)))
	r.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	published, ok := r.stepAndPublish(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if published > 0 {
		r.metrics.StepDuration.Observe(time.Since(start).Seconds())
		r.ready.Store(true)
	}
	return true
}

// stepAndPublish steps the model once per parseable forcing, publishes the
// results, and commits offsets. Returns the number of published results and
// false if the runner should stop.
func (r *Runner) stepAndPublish(ctx context.Context, rawBatch []forcing.Raw, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	results := make([]forcing.StepResult, 0, len(rawBatch))
	stepped := make([]forcing.Raw, 0, len(rawBatch))

	for _, raw := range rawBatch {
		rec, err := forcing.Parse(raw)
		if err != nil {
			r.logger.Warn("malformed forcing, skipping record",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			r.metrics.ForcingErrors.Inc()
			r.commitOffset(ctx, raw)
			continue
		}

		result, err := r.step(rec)
		if err != nil {
			// A step error means the lifecycle contract was broken
			// (model not initialized); that is a wiring bug, not bad data.
			r.logger.Error("model step failed", "error", err)
			return 0, false
		}
		results = append(results, result)
		stepped = append(stepped, raw)
	}

	if len(results) == 0 {
		return 0, true
	}

	if err := r.loader.LoadBatch(ctx, results); err != nil {
		r.logger.Error("publish batch failed", "error", err, "batch_size", len(results))
		return 0, r.backoffOrStop(ctx, backoff, maxBackoff)
	}

	r.metrics.ResultsPublished.Add(float64(len(results)))

	for _, raw := range stepped {
		r.commitOffset(ctx, raw)
	}

	return len(results), true
}

// step applies one forcing record to the model and captures the outputs.
func (r *Runner) step(rec forcing.Record) (forcing.StepResult, error) {
	if err := r.mdl.SetValue(model.VarAirTempMin, rec.TimeMinC); err != nil {
		return forcing.StepResult{}, err
	}
	if err := r.mdl.SetValue(model.VarAirTempMax, rec.TimeMaxC); err != nil {
		return forcing.StepResult{}, err
	}
	if err := r.mdl.Update(); err != nil {
		return forcing.StepResult{}, err
	}

	snap := r.mdl.Snapshot()
	r.metrics.ModelTime.Set(snap.Time)
	r.metrics.FrostNumberAir.Set(snap.Numbers.Air)
	r.metrics.FrostNumberSurface.Set(snap.Numbers.Surface)
	r.metrics.FrostNumberStefan.Set(snap.Numbers.Stefan)

	return forcing.StepResult{
		Step:       snap.Steps,
		ModelTime:  snap.Time,
		TimeUnits:  snap.TimeUnits,
		Forcing:    rec,
		Air:        snap.Air,
		Surface:    snap.Surface,
		Numbers:    snap.Numbers,
		ComputedAt: snap.LastUpdate,
	}, nil
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the runner should stop.
func (r *Runner) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the record offset if a commit function is available.
func (r *Runner) commitOffset(ctx context.Context, raw forcing.Raw) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		r.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
