// Package output provides utilities for formatting and displaying amortization schedules.
package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/format"
	"github.com/iwvelando/mortgage-visualizer/pkg/mathutil"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
)

// Unknown is printed in place of an amount that is not part of the active projection.
const Unknown = "-"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3AA99F"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6F6E69"))
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, schedule mortgage.Schedule) error {
	if _, err := fmt.Fprintln(w, titleStyle.Render("--- Amortization schedule ---")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Date       | Remaining Principal | Principal Paid | Interest Paid | Total Payment\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "__________ | ___________________ | ______________ | _____________ | _____________\n"); err != nil {
		return err
	}
	for _, record := range schedule {
		_, err := fmt.Fprintf(w, "%s | %19s | %14s | %13s | %13s\n",
			datetime.Format(record.PaymentDate),
			format.OptionalCurrency(record.RemainingPrincipal, Unknown),
			format.OptionalCurrency(record.PrincipalPaid, Unknown),
			format.OptionalCurrency(record.InterestPaid, Unknown),
			format.OptionalCurrency(record.TotalPayment, Unknown))
		if err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat writes the schedule in comma-separated value format. Unknown
// amounts are written as empty fields.
func CsvFormat(w io.Writer, schedule mortgage.Schedule) error {
	if _, err := fmt.Fprintf(w, `"date","remaining principal","principal paid","interest paid","total payment"`+"\n"); err != nil {
		return err
	}
	for _, record := range schedule {
		_, err := fmt.Fprintf(w, `"%s","%s","%s","%s","%s"`+"\n",
			datetime.Format(record.PaymentDate),
			format.PlainAmount(record.RemainingPrincipal),
			format.PlainAmount(record.PrincipalPaid),
			format.PlainAmount(record.InterestPaid),
			format.PlainAmount(record.TotalPayment))
		if err != nil {
			return err
		}
	}
	return nil
}

// CsvString renders the schedule as CSV text.
func CsvString(schedule mortgage.Schedule) string {
	var buf bytes.Buffer
	_ = CsvFormat(&buf, schedule)
	return buf.String()
}

// SummaryFormat writes the headline figures of a schedule.
func SummaryFormat(w io.Writer, summary mortgage.Summary) error {
	payoff := "not paid off within the term"
	if summary.PaidOff {
		payoff = datetime.Format(summary.PayoffDate)
	}
	rows := []struct {
		label string
		value string
	}{
		{"Payments", fmt.Sprintf("%d", summary.Payments)},
		{"Periodic payment", format.Currency(summary.PeriodicPayment)},
		{"Total principal", format.Currency(summary.TotalPrincipal)},
		{"Total interest", format.Currency(summary.TotalInterest)},
		{"Total paid", format.Currency(summary.TotalPaid)},
		{"Interest share", format.Percent(mathutil.Round(mathutil.CalculatePercentage(summary.TotalInterest, summary.TotalPaid)))},
		{"Payoff date", payoff},
	}

	if _, err := fmt.Fprintln(w, titleStyle.Render("--- Summary ---")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-17s", row.label+":")), row.value); err != nil {
			return err
		}
	}
	return nil
}
