package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", value, err)
	}
	return d
}

func TestTaxBracketBoundaries(t *testing.T) {
	tests := []struct {
		salary string
		want   string
	}{
		{salary: "1", want: "0"},
		{salary: "250000", want: "0"},
		{salary: "250001", want: "0.05"},
		{salary: "300000", want: "2500"},
		{salary: "500000", want: "12500"},
		{salary: "500001", want: "12500.2"},
		{salary: "750000", want: "62500"},
		{salary: "1000000", want: "112500"},
		{salary: "1000001", want: "112500.3"},
		{salary: "2000000", want: "412500"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.salary, func(t *testing.T) {
			got := Tax(dec(t, tc.salary))
			if !got.Equal(dec(t, tc.want)) {
				t.Fatalf("tax(%s): expected %s, got %s", tc.salary, tc.want, got)
			}
		})
	}
}

func TestTaxIsNonDecreasing(t *testing.T) {
	prev := decimal.Zero
	for salary := int64(0); salary <= 1500000; salary += 2500 {
		got := Tax(decimal.NewFromInt(salary))
		if got.LessThan(prev) {
			t.Fatalf("tax decreased at %d: %s < %s", salary, got, prev)
		}
		prev = got
	}
}

func TestCalculateRates(t *testing.T) {
	for _, raw := range []string{"1000", "250000", "612345.67", "1200000"} {
		salary := dec(t, raw)
		d := Calculate(salary)
		if !d.Bonus.Equal(salary.Mul(BonusRate).Round(2)) {
			t.Fatalf("bonus for %s: got %s", raw, d.Bonus)
		}
		if !d.PF.Equal(salary.Mul(PFRate).Round(2)) {
			t.Fatalf("pf for %s: got %s", raw, d.PF)
		}
		if !d.Tax.Equal(Tax(salary)) {
			t.Fatalf("tax for %s: got %s", raw, d.Tax)
		}
	}
}

func TestCalculateNonPositiveSalary(t *testing.T) {
	d := Calculate(decimal.Zero)
	if !d.Bonus.IsZero() || !d.PF.IsZero() || !d.Tax.IsZero() {
		t.Fatalf("expected zero deductions, got %+v", d)
	}
}

func TestNet(t *testing.T) {
	salary := dec(t, "600000")
	d := Calculate(salary)
	// 600000 - 72000 (pf) - 32500 (tax)
	if !d.Net(salary).Equal(dec(t, "495500")) {
		t.Fatalf("unexpected net %s", d.Net(salary))
	}
}
