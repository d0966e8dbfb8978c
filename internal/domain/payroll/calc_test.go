package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestComputeNet(t *testing.T) {
	tests := []struct {
		name string
		in   Components
		want string
	}{
		{
			name: "standard month",
			in:   Components{BaseSalary: dec("50000"), Allowances: dec("5000"), Bonus: dec("0"), Deductions: dec("2000"), Tax: dec("8000")},
			want: "45000",
		},
		{
			name: "bonus raises net",
			in:   Components{BaseSalary: dec("50000"), Allowances: dec("5000"), Bonus: dec("10000"), Deductions: dec("2000"), Tax: dec("8000")},
			want: "55000",
		},
		{
			name: "cents are exact",
			in:   Components{BaseSalary: dec("1000.10"), Allowances: dec("0.20"), Tax: dec("0.30")},
			want: "1000.00",
		},
		{
			name: "zero row",
			want: "0",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeNet(tc.in)
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("expected net %s, got %s", tc.want, got)
			}
		})
	}
}

func TestComputeWarnings(t *testing.T) {
	if w := computeWarnings(dec("10")); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}
	net := ComputeNet(Components{BaseSalary: dec("100"), Deductions: dec("150")})
	w := computeWarnings(net)
	if len(w) != 1 || w[0] != WarningNegativeNet {
		t.Fatalf("expected negative net warning, got %v", w)
	}
}
