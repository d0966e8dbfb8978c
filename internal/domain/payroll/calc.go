package payroll

import "github.com/shopspring/decimal"

// Components are the money inputs of one payroll row.
type Components struct {
	BaseSalary decimal.Decimal
	Allowances decimal.Decimal
	Bonus      decimal.Decimal
	Deductions decimal.Decimal
	Tax        decimal.Decimal
}

// ComputeNet returns base + allowances + bonus - deductions - tax rounded to
// cents.
func ComputeNet(c Components) decimal.Decimal {
	return c.BaseSalary.
		Add(c.Allowances).
		Add(c.Bonus).
		Sub(c.Deductions).
		Sub(c.Tax).
		Round(2)
}

func computeWarnings(net decimal.Decimal) []string {
	var warnings []string
	if net.IsNegative() {
		warnings = append(warnings, WarningNegativeNet)
	}
	return warnings
}
