package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
)

func validateRecord(rec *Record) error {
	var issues apperr.Issues
	if rec.EmployeeID <= 0 {
		issues.Add("employeeId", "must be a positive id")
	}
	if rec.Month < 1 || rec.Month > 12 {
		issues.Add("month", "must be between 1 and 12")
	}
	if rec.Year < 1900 || rec.Year > 9999 {
		issues.Add("year", "must be between 1900 and 9999")
	}
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"baseSalary", rec.BaseSalary},
		{"allowances", rec.Allowances},
		{"bonus", rec.Bonus},
		{"deductions", rec.Deductions},
		{"tax", rec.Tax},
	}
	for _, amount := range amounts {
		switch {
		case amount.value.IsNegative():
			issues.Add(amount.field, "must not be negative")
		case !amount.value.Equal(amount.value.Round(2)):
			issues.Add(amount.field, "must have at most 2 decimal places")
		}
	}
	if _, ok := statuses[rec.Status]; !ok {
		issues.Add("status", "must be one of draft, pending, approved, paid, cancelled")
	}
	return issues.Err()
}

// finalize recomputes the derived columns of a fully merged row.
func finalize(rec *Record, today time.Time) error {
	rec.Remarks = strings.TrimSpace(rec.Remarks)
	if err := validateRecord(rec); err != nil {
		return err
	}
	rec.NetSalary = ComputeNet(rec.Components())
	if rec.Status == StatusPaid && rec.PaidDate == nil {
		paid := today
		rec.PaidDate = &paid
	}
	rec.Warnings = computeWarnings(rec.NetSalary)
	return nil
}

func applyPatch(rec *Record, patch Patch) {
	if patch.Month != nil {
		rec.Month = *patch.Month
	}
	if patch.Year != nil {
		rec.Year = *patch.Year
	}
	setDecimal(&rec.BaseSalary, patch.BaseSalary)
	setDecimal(&rec.Allowances, patch.Allowances)
	setDecimal(&rec.Bonus, patch.Bonus)
	setDecimal(&rec.Deductions, patch.Deductions)
	setDecimal(&rec.Tax, patch.Tax)
	if patch.Status != nil {
		rec.Status = strings.TrimSpace(*patch.Status)
	}
	if patch.PaidDate != nil {
		paid := *patch.PaidDate
		rec.PaidDate = &paid
	}
	if patch.Remarks != nil {
		rec.Remarks = *patch.Remarks
	}
}

func setDecimal(dst *decimal.Decimal, value *decimal.Decimal) {
	if value != nil {
		*dst = *value
	}
}
