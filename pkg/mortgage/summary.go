package mortgage

import "time"

// Summary holds the headline figures of a schedule.
type Summary struct {
	Payments        int
	PeriodicPayment float64
	TotalInterest   float64
	TotalPrincipal  float64
	TotalPaid       float64
	PayoffDate      time.Time
	PaidOff         bool
}

// Summarize totals the real payments of a schedule. Unknown records are
// skipped and the sentinel contributes nothing.
func Summarize(schedule Schedule) Summary {
	var summary Summary
	payments := schedule.Payments()
	summary.Payments = len(payments)
	if len(payments) > 0 {
		summary.PeriodicPayment = Value(payments[0].TotalPayment)
	}
	summary.TotalInterest = schedule.TotalInterest()
	summary.TotalPrincipal = schedule.TotalPrincipal()
	summary.TotalPaid = schedule.TotalPaid()
	summary.PayoffDate, summary.PaidOff = schedule.PayoffDate()
	return summary
}
