package mortgage

import (
	"math"
	"testing"

	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSummarize(t *testing.T) {
	schedule, err := ComputeSchedule(referenceParameters(), nil)
	if err != nil {
		t.Fatalf("ComputeSchedule() error = %v", err)
	}

	summary := Summarize(schedule)
	if summary.Payments != 360 {
		t.Errorf("Payments = %d, expected 360", summary.Payments)
	}
	if math.Abs(summary.PeriodicPayment-886.70) > 0.01 {
		t.Errorf("PeriodicPayment = %.2f, expected 886.70", summary.PeriodicPayment)
	}
	if math.Abs(summary.TotalPrincipal-175000) > 1e-6 {
		t.Errorf("TotalPrincipal = %.6f, expected 175000", summary.TotalPrincipal)
	}
	// 360 payments of 886.70 less the principal, within rounding of the level payment
	if math.Abs(summary.TotalInterest-144212) > 5 {
		t.Errorf("TotalInterest = %.2f, expected about 144212", summary.TotalInterest)
	}
	if math.Abs(summary.TotalPaid-(summary.TotalInterest+summary.TotalPrincipal)) > 1e-6 {
		t.Errorf("TotalPaid = %.2f does not equal interest plus principal", summary.TotalPaid)
	}
	if !summary.PaidOff {
		t.Fatal("expected the loan to be paid off")
	}
	// 360 payments 30 days apart from 2025-01-01
	if datetime.Format(summary.PayoffDate) != "2054-07-28" {
		t.Errorf("PayoffDate = %s, expected 2054-07-28", datetime.Format(summary.PayoffDate))
	}
}

func TestSummarizeIgnoresUnknownRecords(t *testing.T) {
	schedule := Schedule{
		NewPaymentRecord(datetime.MustParseDate("2024-01-01"), 200, 100, 10, 110),
		NewPaymentRecord(datetime.MustParseDate("2024-01-31"), 100, 100, 5, 105),
		NewPaymentRecord(datetime.MustParseDate("2024-03-01"), 0, 0, 0, 0),
		UnknownRecord(datetime.MustParseDate("2024-03-31")),
	}

	summary := Summarize(schedule)
	if summary.Payments != 2 {
		t.Errorf("Payments = %d, expected 2", summary.Payments)
	}
	if summary.TotalInterest != 15 || summary.TotalPrincipal != 200 || summary.TotalPaid != 215 {
		t.Errorf("unexpected totals: %+v", summary)
	}
	if datetime.Format(summary.PayoffDate) != "2024-03-01" {
		t.Errorf("PayoffDate = %s, expected 2024-03-01", datetime.Format(summary.PayoffDate))
	}
}

func TestScheduleGeneratorLogsPayoff(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	generator := NewScheduleGenerator(zap.New(core))

	schedule, err := generator.Generate(shortParameters(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(schedule) != 7 {
		t.Errorf("Generate() returned %d records, expected 7", len(schedule))
	}

	entries := logs.FilterField(zap.String("op", "mortgage.Generate")).All()
	if len(entries) == 0 {
		t.Fatal("expected debug logging from Generate()")
	}
	if got := entries[0].Message; got != "2024-06-29: loan of 6000.00 paid off after 6 of 12 monthly payments" {
		t.Errorf("unexpected log message %q", got)
	}
}

func TestScheduleGeneratorRejectsInvalidParameters(t *testing.T) {
	generator := NewScheduleGenerator(nil)
	params := shortParameters()
	params.Frequency = "daily"

	if _, err := generator.Generate(params, nil); err == nil {
		t.Fatal("Generate() expected an error for an unknown frequency")
	}
}
