package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/format"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
)

// ValidateLimits rejects parameters that are outside what the CLI and server
// are willing to compute. Violations wrap mortgage.ErrInvalidParameters.
func ValidateLimits(params mortgage.Parameters) error {
	amounts := []struct {
		name  string
		value float64
	}{
		{"total price", params.TotalPrice},
		{"down payment", params.DownPayment},
		{"interest rate", params.AnnualInterestRate},
		{"lump sum", params.LumpSumPerPayment},
	}
	for _, amount := range amounts {
		if math.IsNaN(amount.value) || math.IsInf(amount.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", mortgage.ErrInvalidParameters, amount.name)
		}
	}

	if params.TermYears > constants.MaxTermYears {
		return fmt.Errorf("%w: term of %d years exceeds the maximum of %d",
			mortgage.ErrInvalidParameters, params.TermYears, constants.MaxTermYears)
	}
	if math.Abs(params.TotalPrice) > constants.MaxTotalPrice {
		return fmt.Errorf("%w: total price %s exceeds the maximum of %s",
			mortgage.ErrInvalidParameters, format.Currency(params.TotalPrice), format.Currency(constants.MaxTotalPrice))
	}
	if math.Abs(params.AnnualInterestRate) > constants.MaxInterestRate {
		return fmt.Errorf("%w: interest rate %s exceeds the maximum of %s",
			mortgage.ErrInvalidParameters, format.Percent(params.AnnualInterestRate), format.Percent(constants.MaxInterestRate))
	}
	return nil
}

// ValidateExisting bounds the displayed schedule a caller may ask to merge against.
func ValidateExisting(existing mortgage.Schedule) error {
	if len(existing) > constants.MaxExistingRecords {
		return fmt.Errorf("%w: existing schedule has %d records, the maximum is %d",
			mortgage.ErrInvalidParameters, len(existing), constants.MaxExistingRecords)
	}
	return nil
}

// ParameterWarnings returns non-fatal observations about parameters that are
// accepted but probably not what the user meant.
func ParameterWarnings(params mortgage.Parameters) []string {
	var warnings []string

	if params.TotalPrice == 0 {
		warnings = append(warnings, "total price is zero - the schedule will contain no payments")
	} else if params.Principal() == 0 {
		warnings = append(warnings, "down payment covers the total price - nothing is borrowed")
	}
	if params.TermYears <= 0 {
		warnings = append(warnings, fmt.Sprintf("term of %d years produces no payments", params.TermYears))
	}
	if params.AnnualInterestRate < 0 {
		warnings = append(warnings, fmt.Sprintf("interest rate %s is negative", format.Percent(params.AnnualInterestRate)))
	}
	if params.LumpSumPerPayment < 0 {
		warnings = append(warnings, fmt.Sprintf("lump sum payment %s is negative and will leave a balance at the end of the term",
			format.Currency(params.LumpSumPerPayment)))
	}

	if params.LumpSumPerPayment > 0 && params.Principal() > 0 {
		if terms, err := mortgage.Terms(params); err == nil && terms.NumPayments > 0 {
			payment := mortgage.CalculatePeriodicPayment(params.Principal(), terms.Rate, terms.NumPayments)
			if params.LumpSumPerPayment > payment {
				warnings = append(warnings, fmt.Sprintf("lump sum payment %s exceeds the periodic payment %s",
					format.Currency(params.LumpSumPerPayment), format.Currency(payment)))
			}
		}
	}

	return warnings
}
