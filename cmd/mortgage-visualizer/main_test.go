package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
)

const testConfig = `mortgage:
  totalPrice: 7000
  downPayment: 1000
  interestRate: 0
  termYears: 1
  frequency: monthly
  startDate: "2024-01-01"
logging:
  level: error
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandPrettyOutput(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Amortization schedule", "2024-01-01", "$500.00", "2024-12-26"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRootCommandCSVOutput(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "--output-format", "csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, 12 payments, sentinel
	if len(lines) != 14 {
		t.Fatalf("expected 14 csv lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], `"date"`) {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"2024-01-01","6000.00","500.00","0.00","500.00"`) {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestRootCommandFlagOverrides(t *testing.T) {
	out, err := execute(t,
		"--config", writeTestConfig(t),
		"--output-format", "csv",
		"--lump-sum", "500",
		"--start-date", "2025-03-01",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// 6 payments of 1000 pay off 6000, plus header and sentinel
	if len(lines) != 8 {
		t.Fatalf("expected 8 csv lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], `"2025-03-01","6000.00","1000.00"`) {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestRootCommandSummary(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "--summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Amortization schedule") {
		t.Errorf("summary output should not include the schedule:\n%s", out)
	}
	if !strings.Contains(out, "2024-12-26") {
		t.Errorf("summary missing payoff date:\n%s", out)
	}
}

func TestRootCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid output format", args: []string{"--output-format", "xml"}},
		{name: "down payment over price", args: []string{"--down-payment", "8000"}},
		{name: "unknown frequency", args: []string{"--frequency", "weekly"}},
		{name: "bad start date", args: []string{"--start-date", "01/02/2024"}},
		{name: "term over limit", args: []string{"--term", "101"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", writeTestConfig(t), "--log-level", "error"}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRootCommandMissingExplicitConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := execute(t, "--config", missing); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != constants.Version {
		t.Errorf("expected %q, got %q", constants.Version, out)
	}
}
