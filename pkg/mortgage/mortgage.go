// Package mortgage computes mortgage amortization schedules.
//
// The engine is a pure function from a set of loan Parameters to an ordered
// Schedule of PaymentRecords ending in a zero-balance sentinel. It keeps no
// package-level state and is safe for concurrent use.
package mortgage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
)

// ErrInvalidParameters is returned when the loan parameters violate a
// documented constraint. Errors returned by this package wrap it with detail.
var ErrInvalidParameters = errors.New("invalid mortgage parameters")

// Frequency is how often a payment is made.
type Frequency string

const (
	// Monthly pays every 30 days.
	Monthly Frequency = constants.FrequencyMonthly
	// BiWeekly pays every 14 days.
	BiWeekly Frequency = constants.FrequencyBiWeekly
	// AcceleratedBiWeekly is scheduled exactly like BiWeekly; any acceleration
	// comes from the lump sum the caller adds to every payment.
	AcceleratedBiWeekly Frequency = constants.FrequencyAcceleratedBiWeekly
)

// Frequencies lists the recognized payment frequencies.
var Frequencies = []Frequency{Monthly, BiWeekly, AcceleratedBiWeekly}

// ParseFrequency maps a frequency name onto a Frequency. Matching is
// case-insensitive and tolerates the unhyphenated "biweekly" spelling.
func ParseFrequency(name string) (Frequency, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, "biweekly", "bi-weekly")
	f := Frequency(normalized)
	if !f.Valid() {
		return "", fmt.Errorf("%w: unrecognized payment frequency %q, expected one of %s",
			ErrInvalidParameters, name, FrequencyNames())
	}
	return f, nil
}

// Valid reports whether f is one of the recognized frequencies.
func (f Frequency) Valid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// FrequencyNames lists the recognized frequency names, comma separated.
func FrequencyNames() string {
	names := make([]string, len(Frequencies))
	for i, f := range Frequencies {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func (f Frequency) String() string {
	return string(f)
}

// Parameters holds the inputs of a single amortization. It is never mutated
// by this package.
type Parameters struct {
	TotalPrice         float64
	DownPayment        float64
	AnnualInterestRate float64 // percent
	TermYears          int
	Frequency          Frequency
	LumpSumPerPayment  float64 // added to every payment
	StartDate          time.Time
}

// Principal is the amount borrowed.
func (p Parameters) Principal() float64 {
	return p.TotalPrice - p.DownPayment
}

// Validate checks the documented constraints on the parameters.
func (p Parameters) Validate() error {
	if p.DownPayment > p.TotalPrice {
		return fmt.Errorf("%w: down payment %.2f cannot be greater than the total price %.2f",
			ErrInvalidParameters, p.DownPayment, p.TotalPrice)
	}
	if p.DownPayment < 0 {
		return fmt.Errorf("%w: down payment %.2f cannot be negative", ErrInvalidParameters, p.DownPayment)
	}
	if !p.Frequency.Valid() {
		return fmt.Errorf("%w: unrecognized payment frequency %q", ErrInvalidParameters, p.Frequency)
	}
	return nil
}

// Fingerprint returns a stable key identifying the parameters. Two parameter
// sets with the same fingerprint produce the same schedule.
func (p Parameters) Fingerprint() string {
	formatFloat := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join([]string{
		"price=" + formatFloat(p.TotalPrice),
		"down=" + formatFloat(p.DownPayment),
		"rate=" + formatFloat(p.AnnualInterestRate),
		"term=" + strconv.Itoa(p.TermYears),
		"freq=" + string(p.Frequency),
		"lump=" + formatFloat(p.LumpSumPerPayment),
		"start=" + datetime.Format(p.StartDate),
	}, "|")
}

type parametersJSON struct {
	TotalPrice         float64   `json:"totalPrice"`
	DownPayment        float64   `json:"downPayment"`
	AnnualInterestRate float64   `json:"interestRate"`
	TermYears          int       `json:"termYears"`
	Frequency          Frequency `json:"frequency"`
	LumpSumPerPayment  float64   `json:"lumpSumPayment"`
	StartDate          string    `json:"startDate"`
}

// MarshalJSON encodes the start date as YYYY-MM-DD.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(parametersJSON{
		TotalPrice:         p.TotalPrice,
		DownPayment:        p.DownPayment,
		AnnualInterestRate: p.AnnualInterestRate,
		TermYears:          p.TermYears,
		Frequency:          p.Frequency,
		LumpSumPerPayment:  p.LumpSumPerPayment,
		StartDate:          datetime.Format(p.StartDate),
	})
}

// UnmarshalJSON decodes parameters, parsing the frequency name and start date.
// A missing start date is left as the zero time for the caller to default.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var raw parametersJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := Parameters{
		TotalPrice:         raw.TotalPrice,
		DownPayment:        raw.DownPayment,
		AnnualInterestRate: raw.AnnualInterestRate,
		TermYears:          raw.TermYears,
		Frequency:          raw.Frequency,
		LumpSumPerPayment:  raw.LumpSumPerPayment,
	}
	if raw.Frequency != "" {
		f, err := ParseFrequency(string(raw.Frequency))
		if err != nil {
			return err
		}
		decoded.Frequency = f
	}
	if raw.StartDate != "" {
		start, err := datetime.ParseDate(raw.StartDate)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		}
		decoded.StartDate = start
	}
	*p = decoded
	return nil
}

// PaymentRecord is one entry of a Schedule. Nil amounts mark a record that is
// no longer part of the active projection (see Merge).
type PaymentRecord struct {
	PaymentDate        time.Time
	RemainingPrincipal *float64
	PrincipalPaid      *float64
	InterestPaid       *float64
	TotalPayment       *float64
}

// NewPaymentRecord builds a record with all amounts known.
func NewPaymentRecord(date time.Time, remaining, principal, interest, total float64) PaymentRecord {
	return PaymentRecord{
		PaymentDate:        date,
		RemainingPrincipal: Amount(remaining),
		PrincipalPaid:      Amount(principal),
		InterestPaid:       Amount(interest),
		TotalPayment:       Amount(total),
	}
}

// UnknownRecord builds a record that only carries a date.
func UnknownRecord(date time.Time) PaymentRecord {
	return PaymentRecord{PaymentDate: date}
}

// Amount returns a pointer to v.
func Amount(v float64) *float64 {
	return &v
}

// Value dereferences an amount, treating nil as 0.
func Value(amount *float64) float64 {
	if amount == nil {
		return 0
	}
	return *amount
}

// Known reports whether the record carries computed amounts.
func (r PaymentRecord) Known() bool {
	return r.RemainingPrincipal != nil && r.PrincipalPaid != nil &&
		r.InterestPaid != nil && r.TotalPayment != nil
}

// IsPayoff reports whether the remaining principal is exactly zero.
func (r PaymentRecord) IsPayoff() bool {
	return r.RemainingPrincipal != nil && *r.RemainingPrincipal == 0
}

type paymentRecordJSON struct {
	PaymentDate        string   `json:"paymentDate"`
	RemainingPrincipal *float64 `json:"remainingPrincipal"`
	PrincipalPaid      *float64 `json:"principalPaid"`
	InterestPaid       *float64 `json:"interestPaid"`
	TotalPayment       *float64 `json:"totalPayment"`
}

// MarshalJSON encodes the date as YYYY-MM-DD and unknown amounts as null.
func (r PaymentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentRecordJSON{
		PaymentDate:        datetime.Format(r.PaymentDate),
		RemainingPrincipal: r.RemainingPrincipal,
		PrincipalPaid:      r.PrincipalPaid,
		InterestPaid:       r.InterestPaid,
		TotalPayment:       r.TotalPayment,
	})
}

// UnmarshalJSON decodes a record produced by MarshalJSON.
func (r *PaymentRecord) UnmarshalJSON(data []byte) error {
	var raw paymentRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := datetime.ParseDate(raw.PaymentDate)
	if err != nil {
		return fmt.Errorf("invalid payment record: %w", err)
	}
	*r = PaymentRecord{
		PaymentDate:        date,
		RemainingPrincipal: raw.RemainingPrincipal,
		PrincipalPaid:      raw.PrincipalPaid,
		InterestPaid:       raw.InterestPaid,
		TotalPayment:       raw.TotalPayment,
	}
	return nil
}

// Schedule is a chronological sequence of payment records. A computed
// schedule always ends with the payoff sentinel.
type Schedule []PaymentRecord

// Sentinel returns the terminal record.
func (s Schedule) Sentinel() (PaymentRecord, bool) {
	if len(s) == 0 {
		return PaymentRecord{}, false
	}
	return s[len(s)-1], true
}

// Payments returns the real payments, i.e. every known record except the
// terminal sentinel.
func (s Schedule) Payments() Schedule {
	payments := make(Schedule, 0, len(s))
	for i, record := range s {
		if !record.Known() {
			continue
		}
		if i == len(s)-1 || !s[i+1].Known() {
			// The last known record is the sentinel.
			break
		}
		payments = append(payments, record)
	}
	return payments
}

// PayoffDate returns the date of the first record whose remaining principal
// is exactly zero.
func (s Schedule) PayoffDate() (time.Time, bool) {
	for _, record := range s {
		if record.IsPayoff() {
			return record.PaymentDate, true
		}
	}
	return time.Time{}, false
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	clone := make(Schedule, len(s))
	for i, record := range s {
		clone[i] = PaymentRecord{PaymentDate: record.PaymentDate}
		if record.RemainingPrincipal != nil {
			clone[i].RemainingPrincipal = Amount(*record.RemainingPrincipal)
		}
		if record.PrincipalPaid != nil {
			clone[i].PrincipalPaid = Amount(*record.PrincipalPaid)
		}
		if record.InterestPaid != nil {
			clone[i].InterestPaid = Amount(*record.InterestPaid)
		}
		if record.TotalPayment != nil {
			clone[i].TotalPayment = Amount(*record.TotalPayment)
		}
	}
	return clone
}

// TotalInterest sums the interest of the real payments.
func (s Schedule) TotalInterest() float64 {
	var total float64
	for _, record := range s.Payments() {
		total += Value(record.InterestPaid)
	}
	return total
}

// TotalPrincipal sums the principal of the real payments.
func (s Schedule) TotalPrincipal() float64 {
	var total float64
	for _, record := range s.Payments() {
		total += Value(record.PrincipalPaid)
	}
	return total
}

// TotalPaid sums every real payment.
func (s Schedule) TotalPaid() float64 {
	var total float64
	for _, record := range s.Payments() {
		total += Value(record.TotalPayment)
	}
	return total
}
