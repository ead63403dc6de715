package mortgage

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/mathutil"
)

// finalResidueTolerance is the relative difference between the last scheduled
// principal payment and the balance that still counts as paid off.
const finalResidueTolerance = 1e-9

// PeriodicTerms holds the per-period values derived from a payment frequency.
type PeriodicTerms struct {
	Rate         float64 // interest rate applied each period
	NumPayments  int
	IntervalDays int
}

// Terms derives the periodic rate, payment count and calendar step for the
// parameters' frequency.
func Terms(params Parameters) (PeriodicTerms, error) {
	var periodsPerYear, intervalDays int
	switch params.Frequency {
	case Monthly:
		periodsPerYear = constants.MonthsPerYear
		intervalDays = constants.MonthlyIntervalDays
	case BiWeekly, AcceleratedBiWeekly:
		periodsPerYear = constants.BiWeeklyPeriodsPerYear
		intervalDays = constants.BiWeeklyIntervalDays
	default:
		return PeriodicTerms{}, fmt.Errorf("%w: unrecognized payment frequency %q", ErrInvalidParameters, params.Frequency)
	}

	return PeriodicTerms{
		Rate:         mathutil.PeriodicRate(params.AnnualInterestRate, periodsPerYear),
		NumPayments:  params.TermYears * periodsPerYear,
		IntervalDays: intervalDays,
	}, nil
}

// CalculatePeriodicPayment calculates the level payment that amortizes
// principal over numPayments periods using the standard annuity formula.
func CalculatePeriodicPayment(principal, rate float64, numPayments int) float64 {
	if numPayments <= 0 {
		return 0
	}
	if rate == 0 {
		// For zero interest, simply divide the principal by the number of payments
		return principal / float64(numPayments)
	}
	return (principal * rate) / (1 - math.Pow(1+rate, -float64(numPayments)))
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, rate float64) float64 {
	return remainingPrincipal * rate
}

// ComputeSchedule computes the amortization schedule for params.
//
// The schedule lists one record per payment, starting on the start date, and
// ends with a sentinel record dated one period after the last payment that
// carries the remaining principal and zero amounts. The remaining principal
// is 0 once paid off; a balance left at the end of the term stays on the
// sentinel.
//
// When existing is non-empty the result is Merge(existing, schedule). The
// existing schedule is never modified.
func ComputeSchedule(params Parameters, existing Schedule) (Schedule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	terms, err := Terms(params)
	if err != nil {
		return nil, err
	}

	schedule := amortize(params, terms)
	if len(existing) > 0 {
		return Merge(existing, schedule), nil
	}
	return schedule, nil
}

func amortize(params Parameters, terms PeriodicTerms) Schedule {
	principal := params.Principal()
	payment := CalculatePeriodicPayment(principal, terms.Rate, terms.NumPayments)
	lumpSum := params.LumpSumPerPayment

	remaining := principal
	currentDate := datetime.Truncate(params.StartDate)
	capacity := 1
	if terms.NumPayments > 0 {
		capacity += terms.NumPayments
	}
	schedule := make(Schedule, 0, capacity)

	for i := 0; i < terms.NumPayments && remaining > 0; i++ {
		interestPaid := CalculateInterestPayment(remaining, terms.Rate)
		principalPaid := payment + lumpSum - interestPaid
		totalPayment := payment + lumpSum

		// Never pay more than is owed. On the last scheduled period a residue
		// that is only float error is folded in; any real balance is left for
		// the sentinel to carry.
		if principalPaid > remaining ||
			(i == terms.NumPayments-1 && mathutil.WithinRelativeTolerance(principalPaid, remaining, finalResidueTolerance)) {
			principalPaid = remaining
			totalPayment = principalPaid + interestPaid
		}

		schedule = append(schedule, NewPaymentRecord(currentDate,
			mathutil.NonNegative(remaining), principalPaid, interestPaid, totalPayment))

		remaining -= principalPaid
		currentDate = datetime.OffsetDays(currentDate, terms.IntervalDays)
	}

	return append(schedule, newSentinel(currentDate, remaining))
}

func newSentinel(date time.Time, remaining float64) PaymentRecord {
	return NewPaymentRecord(date, mathutil.NonNegative(remaining), 0, 0, 0)
}

// Merge lays a freshly computed schedule over a previously displayed one so
// that a display series keeps a stable length while parameters change.
//
// The result has max(len(existing), len(fresh)) records. Positions covered by
// fresh take the fresh record; positions past the end of fresh keep the
// existing record's date with every amount unknown. Neither input is modified.
func Merge(existing, fresh Schedule) Schedule {
	length := len(fresh)
	if len(existing) > length {
		length = len(existing)
	}

	merged := make(Schedule, length)
	copy(merged, fresh.Clone())
	for i := len(fresh); i < length; i++ {
		merged[i] = UnknownRecord(existing[i].PaymentDate)
	}
	return merged
}
