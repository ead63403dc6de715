package mortgage

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected Frequency
		wantErr  bool
	}{
		{"monthly", Monthly, false},
		{"Monthly", Monthly, false},
		{"bi-weekly", BiWeekly, false},
		{"biweekly", BiWeekly, false},
		{" BI_WEEKLY ", BiWeekly, false},
		{"accelerated-bi-weekly", AcceleratedBiWeekly, false},
		{"accelerated-biweekly", AcceleratedBiWeekly, false},
		{"weekly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseFrequency(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameters) {
					t.Errorf("ParseFrequency(%q) error = %v, expected ErrInvalidParameters", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFrequency(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseFrequency(%q) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFrequencyValidFollowsFrequencies(t *testing.T) {
	for _, f := range Frequencies {
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
		if !strings.Contains(FrequencyNames(), string(f)) {
			t.Errorf("FrequencyNames() = %q, missing %s", FrequencyNames(), f)
		}
	}
	for _, f := range []Frequency{"", "weekly", "Monthly"} {
		if f.Valid() {
			t.Errorf("%q should not be valid", f)
		}
	}
	if FrequencyNames() != "monthly, bi-weekly, accelerated-bi-weekly" {
		t.Errorf("FrequencyNames() = %q", FrequencyNames())
	}

	_, err := ParseFrequency("weekly")
	if err == nil || !strings.Contains(err.Error(), FrequencyNames()) {
		t.Errorf("ParseFrequency() error = %v, expected it to list the recognized frequencies", err)
	}
}

func TestParametersFingerprint(t *testing.T) {
	a := standardParameters()
	b := standardParameters()
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("identical parameters have different fingerprints")
	}

	b.LumpSumPerPayment = 0.01
	if a.Fingerprint() == b.Fingerprint() {
		t.Errorf("different lump sums share a fingerprint")
	}

	c := standardParameters()
	c.StartDate = datetime.MustParseDate("2024-01-02")
	if a.Fingerprint() == c.Fingerprint() {
		t.Errorf("different start dates share a fingerprint")
	}
}

func TestParametersUnmarshalJSON(t *testing.T) {
	var params Parameters
	payload := `{"totalPrice":300000,"downPayment":60000,"interestRate":5,"termYears":25,` +
		`"frequency":"Bi-Weekly","lumpSumPayment":100,"startDate":"2024-01-01T05:00:00Z"}`
	if err := json.Unmarshal([]byte(payload), &params); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if params.Frequency != BiWeekly {
		t.Errorf("frequency = %s, expected %s", params.Frequency, BiWeekly)
	}
	if datetime.Format(params.StartDate) != "2024-01-01" {
		t.Errorf("start date = %s, expected 2024-01-01", datetime.Format(params.StartDate))
	}
	if params.Principal() != 240000 {
		t.Errorf("principal = %.2f, expected 240000", params.Principal())
	}

	err := json.Unmarshal([]byte(`{"frequency":"fortnightly"}`), &params)
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("json.Unmarshal() error = %v, expected ErrInvalidParameters", err)
	}
}

func TestPaymentRecordJSONUsesNullForUnknownAmounts(t *testing.T) {
	schedule := Schedule{
		NewPaymentRecord(datetime.MustParseDate("2024-01-01"), 1000, 100, 5, 105),
		UnknownRecord(datetime.MustParseDate("2024-01-31")),
	}

	data, err := json.Marshal(schedule)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	encoded := string(data)
	if !strings.Contains(encoded, `"paymentDate":"2024-01-01","remainingPrincipal":1000,"principalPaid":100,"interestPaid":5,"totalPayment":105`) {
		t.Errorf("unexpected encoding of a known record: %s", encoded)
	}
	if !strings.Contains(encoded, `"paymentDate":"2024-01-31","remainingPrincipal":null,"principalPaid":null,"interestPaid":null,"totalPayment":null`) {
		t.Errorf("unexpected encoding of an unknown record: %s", encoded)
	}

	var decoded Schedule
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(decoded) != 2 || !decoded[0].Known() || decoded[1].Known() {
		t.Errorf("decoded schedule lost the known/unknown distinction: %+v", decoded)
	}
}

func TestSchedulePaymentsAndPayoff(t *testing.T) {
	existing := Schedule{
		UnknownRecord(datetime.MustParseDate("2023-01-01")),
		UnknownRecord(datetime.MustParseDate("2023-01-15")),
		UnknownRecord(datetime.MustParseDate("2023-01-29")),
		UnknownRecord(datetime.MustParseDate("2023-02-12")),
		UnknownRecord(datetime.MustParseDate("2023-02-26")),
		UnknownRecord(datetime.MustParseDate("2023-03-12")),
		UnknownRecord(datetime.MustParseDate("2023-03-26")),
		UnknownRecord(datetime.MustParseDate("2023-04-09")),
		UnknownRecord(datetime.MustParseDate("2023-04-23")),
	}
	merged, err := ComputeSchedule(shortParameters(), existing)
	if err != nil {
		t.Fatalf("ComputeSchedule() error = %v", err)
	}

	if payments := merged.Payments(); len(payments) != 6 {
		t.Errorf("Payments() = %d records, expected 6", len(payments))
	}
	payoff, ok := merged.PayoffDate()
	if !ok {
		t.Fatal("PayoffDate() found no payoff")
	}
	// Six monthly payments from 2024-01-01 put the sentinel at 2024-06-29.
	if datetime.Format(payoff) != "2024-06-29" {
		t.Errorf("PayoffDate() = %s, expected 2024-06-29", datetime.Format(payoff))
	}

	if _, ok := Schedule(nil).Sentinel(); ok {
		t.Errorf("Sentinel() of an empty schedule should report false")
	}
}
