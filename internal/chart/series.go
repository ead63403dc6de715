// Package chart turns an amortization schedule into the series plotted by the
// web UI: stacked cumulative interest and principal bars over a remaining
// principal line.
package chart

import (
	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
)

// Series holds one point per schedule record. Points after the payoff record
// are nil so the bars stop where the loan ends.
type Series struct {
	Labels              []string   `json:"labels"`
	CumulativeInterest  []*float64 `json:"cumulativeInterest"`
	CumulativePrincipal []*float64 `json:"cumulativePrincipal"`
	RemainingPrincipal  []*float64 `json:"remainingPrincipal"`
	TotalInterest       float64    `json:"totalInterest"`
	PayoffDate          string     `json:"payoffDate,omitempty"`
}

// Dataset describes how one series is drawn.
type Dataset struct {
	Type            string     `json:"type"` // bar or line
	Label           string     `json:"label"`
	Data            []*float64 `json:"data"`
	BackgroundColor string     `json:"backgroundColor"`
	BorderColor     string     `json:"borderColor"`
	Stack           string     `json:"stack"`
	Order           int        `json:"order"`
	Fill            bool       `json:"fill"`
}

// Build computes the chart series for a schedule.
func Build(schedule mortgage.Schedule) Series {
	series := Series{
		Labels:              make([]string, len(schedule)),
		CumulativeInterest:  make([]*float64, len(schedule)),
		CumulativePrincipal: make([]*float64, len(schedule)),
		RemainingPrincipal:  make([]*float64, len(schedule)),
	}

	var sumInterest, sumPrincipal float64
	completed := false
	for i, record := range schedule {
		series.Labels[i] = datetime.Format(record.PaymentDate)
		series.RemainingPrincipal[i] = record.RemainingPrincipal
		series.TotalInterest += mortgage.Value(record.InterestPaid)

		if series.PayoffDate == "" && record.IsPayoff() {
			series.PayoffDate = series.Labels[i]
		}

		if completed {
			continue
		}
		sumInterest += mortgage.Value(record.InterestPaid)
		sumPrincipal += mortgage.Value(record.PrincipalPaid)
		series.CumulativeInterest[i] = mortgage.Amount(sumInterest)
		series.CumulativePrincipal[i] = mortgage.Amount(sumPrincipal)
		if record.IsPayoff() {
			completed = true
		}
	}
	return series
}

// Datasets returns the series in drawing order.
func (s Series) Datasets() []Dataset {
	return []Dataset{
		{
			Type:            "bar",
			Label:           "Cumulative Interest Paid",
			Data:            s.CumulativeInterest,
			BackgroundColor: "#ffc9c9",
			BorderColor:     "#ff8787",
			Stack:           "stack1",
			Order:           2,
		},
		{
			Type:            "bar",
			Label:           "Cumulative Principal Paid",
			Data:            s.CumulativePrincipal,
			BackgroundColor: "#b2f2bb",
			BorderColor:     "#69db7c",
			Stack:           "stack1",
			Order:           2,
		},
		{
			Type:            "line",
			Label:           "Remaining Principal",
			Data:            s.RemainingPrincipal,
			BackgroundColor: "#a5d8ff",
			BorderColor:     "#4dabf7",
			Stack:           "line",
			Order:           1,
		},
	}
}
