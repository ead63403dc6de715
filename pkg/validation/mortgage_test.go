package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
)

func baseParameters() mortgage.Parameters {
	return mortgage.Parameters{
		TotalPrice:         300000,
		DownPayment:        60000,
		AnnualInterestRate: 5,
		TermYears:          25,
		Frequency:          mortgage.Monthly,
		StartDate:          datetime.MustParseDate("2024-01-01"),
	}
}

func TestValidateLimits(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(p *mortgage.Parameters)
		expectErr bool
	}{
		{name: "Typical mortgage", modify: func(p *mortgage.Parameters) {}},
		{name: "Maximum term", modify: func(p *mortgage.Parameters) { p.TermYears = 100 }},
		{name: "Term too long", modify: func(p *mortgage.Parameters) { p.TermYears = 101 }, expectErr: true},
		{name: "Price too large", modify: func(p *mortgage.Parameters) { p.TotalPrice = 2e12 }, expectErr: true},
		{name: "Rate too large", modify: func(p *mortgage.Parameters) { p.AnnualInterestRate = 250 }, expectErr: true},
		{name: "Negative rate allowed", modify: func(p *mortgage.Parameters) { p.AnnualInterestRate = -1 }},
		{name: "NaN price", modify: func(p *mortgage.Parameters) { p.TotalPrice = math.NaN() }, expectErr: true},
		{name: "Infinite lump sum", modify: func(p *mortgage.Parameters) { p.LumpSumPerPayment = math.Inf(1) }, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParameters()
			tt.modify(&params)
			err := ValidateLimits(params)
			if tt.expectErr {
				if !errors.Is(err, mortgage.ErrInvalidParameters) {
					t.Errorf("ValidateLimits() error = %v, expected ErrInvalidParameters", err)
				}
			} else if err != nil {
				t.Errorf("ValidateLimits() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateExisting(t *testing.T) {
	if err := ValidateExisting(make(mortgage.Schedule, 10)); err != nil {
		t.Errorf("ValidateExisting() unexpected error = %v", err)
	}
	if err := ValidateExisting(make(mortgage.Schedule, 5000)); !errors.Is(err, mortgage.ErrInvalidParameters) {
		t.Errorf("ValidateExisting() error = %v, expected ErrInvalidParameters", err)
	}
}

func TestParameterWarnings(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(p *mortgage.Parameters)
		contains []string
	}{
		{name: "No warnings", modify: func(p *mortgage.Parameters) {}},
		{name: "Zero price", modify: func(p *mortgage.Parameters) { p.TotalPrice, p.DownPayment = 0, 0 }, contains: []string{"total price is zero"}},
		{name: "Nothing borrowed", modify: func(p *mortgage.Parameters) { p.DownPayment = p.TotalPrice }, contains: []string{"nothing is borrowed"}},
		{name: "Zero term", modify: func(p *mortgage.Parameters) { p.TermYears = 0 }, contains: []string{"term of 0 years"}},
		{name: "Negative rate", modify: func(p *mortgage.Parameters) { p.AnnualInterestRate = -0.5 }, contains: []string{"-0.5% is negative"}},
		{name: "Negative lump sum", modify: func(p *mortgage.Parameters) { p.LumpSumPerPayment = -10 }, contains: []string{"-$10.00 is negative"}},
		{name: "Lump sum exceeds payment", modify: func(p *mortgage.Parameters) { p.LumpSumPerPayment = 5000 }, contains: []string{"exceeds the periodic payment"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParameters()
			tt.modify(&params)
			warnings := ParameterWarnings(params)
			if len(warnings) != len(tt.contains) {
				t.Fatalf("ParameterWarnings() = %v, expected %d warnings", warnings, len(tt.contains))
			}
			for i, want := range tt.contains {
				if !strings.Contains(warnings[i], want) {
					t.Errorf("warning %q does not contain %q", warnings[i], want)
				}
			}
		})
	}
}
