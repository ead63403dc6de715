// Package calculator recomputes schedules on demand for the CLI and the HTTP
// server. Each call validates the parameters, reuses a cached schedule when
// one exists for the same fingerprint, and merges against the schedule the
// caller is currently displaying.
package calculator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/mortgage-visualizer/internal/cache"
	"github.com/iwvelando/mortgage-visualizer/internal/chart"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
	"github.com/iwvelando/mortgage-visualizer/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Recorder receives calculation metrics. A nil Recorder is allowed.
type Recorder interface {
	ObserveCalculation(frequency string, d time.Duration)
	IncrCacheHit()
	IncrCacheMiss()
	IncrRejected()
}

// Request is one recomputation. Existing is the schedule currently on
// display, if any; it is never modified.
type Request struct {
	Parameters mortgage.Parameters
	Existing   mortgage.Schedule
}

// Result is the outcome of a recomputation.
type Result struct {
	ID       string
	Schedule mortgage.Schedule
	Series   chart.Series
	Summary  mortgage.Summary
	Warnings []string
	Cached   bool
	Duration time.Duration
}

// Calculator is safe for concurrent use.
type Calculator struct {
	cache     cache.Cache
	recorder  Recorder
	logger    *zap.Logger
	generator *mortgage.ScheduleGenerator
	group     singleflight.Group
}

// New creates a calculator. A nil cache disables caching.
func New(c cache.Cache, recorder Recorder, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.Nop{}
	}
	return &Calculator{
		cache:     c,
		recorder:  recorder,
		logger:    logger,
		generator: mortgage.NewScheduleGenerator(logger),
	}
}

// Compute validates the request and returns the schedule for it. Errors
// caused by the parameters wrap mortgage.ErrInvalidParameters.
func (c *Calculator) Compute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	params := req.Parameters

	if err := c.validate(req); err != nil {
		if c.recorder != nil {
			c.recorder.IncrRejected()
		}
		c.logger.Debug("rejected calculation",
			zap.String("op", "calculator.Compute"),
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, err
	}

	fresh, cached, err := c.fresh(ctx, params)
	if err != nil {
		return nil, err
	}

	schedule := fresh
	if len(req.Existing) > 0 {
		schedule = mortgage.Merge(req.Existing, fresh)
	}

	result := &Result{
		ID:       id,
		Schedule: schedule,
		Series:   chart.Build(schedule),
		Summary:  mortgage.Summarize(schedule),
		Warnings: validation.ParameterWarnings(params),
		Cached:   cached,
		Duration: time.Since(start),
	}

	if c.recorder != nil {
		c.recorder.ObserveCalculation(params.Frequency.String(), result.Duration)
	}
	c.logger.Debug("computed schedule",
		zap.String("op", "calculator.Compute"),
		zap.String("id", id),
		zap.Int("records", len(schedule)),
		zap.Bool("cached", cached),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (c *Calculator) validate(req Request) error {
	if err := validation.ValidateLimits(req.Parameters); err != nil {
		return err
	}
	if err := validation.ValidateExisting(req.Existing); err != nil {
		return err
	}
	return req.Parameters.Validate()
}

// fresh returns a private copy of the unmerged schedule for params.
func (c *Calculator) fresh(ctx context.Context, params mortgage.Parameters) (mortgage.Schedule, bool, error) {
	key := params.Fingerprint()
	if schedule, ok := c.cache.Get(ctx, key); ok {
		if c.recorder != nil {
			c.recorder.IncrCacheHit()
		}
		return schedule, true, nil
	}
	if c.recorder != nil {
		c.recorder.IncrCacheMiss()
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		schedule, err := c.generator.Generate(params, nil)
		if err != nil {
			return nil, err
		}
		// The request context may already be gone for some of the callers
		// sharing this computation.
		if err := c.cache.Set(context.Background(), key, schedule); err != nil {
			c.logger.Warn("failed to cache schedule",
				zap.String("op", "calculator.Compute"),
				zap.Error(err),
			)
		}
		return schedule, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		// Callers sharing a computation must not share records.
		return res.Val.(mortgage.Schedule).Clone(), false, nil
	}
}
