package mortgage

import (
	"fmt"

	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"go.uber.org/zap"
)

// ScheduleGenerator wraps ComputeSchedule with debug logging for callers
// that recompute on demand, such as the CLI and the HTTP server.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate computes the schedule for params, merging against existing when
// it is non-empty.
func (g *ScheduleGenerator) Generate(params Parameters, existing Schedule) (Schedule, error) {
	schedule, err := ComputeSchedule(params, existing)
	if err != nil {
		g.logger.Debug("rejected mortgage parameters",
			zap.String("op", "mortgage.Generate"),
			zap.Error(err),
		)
		return nil, err
	}

	terms, _ := Terms(params)
	summary := Summarize(schedule)
	if summary.PaidOff {
		g.logger.Debug(fmt.Sprintf("%s: loan of %.2f paid off after %d of %d %s payments",
			datetime.Format(summary.PayoffDate), params.Principal(), summary.Payments, terms.NumPayments, params.Frequency),
			zap.String("op", "mortgage.Generate"),
		)
	} else {
		sentinel, _ := schedule.Sentinel()
		g.logger.Debug(fmt.Sprintf("loan of %.2f not paid off within the term, %.2f outstanding",
			params.Principal(), Value(sentinel.RemainingPrincipal)),
			zap.String("op", "mortgage.Generate"),
		)
	}

	if len(existing) > summary.Payments+1 {
		g.logger.Debug("merged schedule keeps stale display positions",
			zap.String("op", "mortgage.Generate"),
			zap.Int("existing", len(existing)),
			zap.Int("unknown", len(schedule)-(summary.Payments+1)),
		)
	}
	return schedule, nil
}
