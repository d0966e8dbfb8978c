package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Record struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	EmployeeName string          `json:"employeeName,omitempty"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Bonus        decimal.Decimal `json:"bonus"`
	Deductions   decimal.Decimal `json:"deductions"`
	Tax          decimal.Decimal `json:"tax"`
	NetSalary    decimal.Decimal `json:"netSalary"`
	Status       string          `json:"status"`
	PaidDate     *time.Time      `json:"paidDate"`
	Remarks      string          `json:"remarks"`
	Warnings     []string        `json:"warnings,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (r Record) Components() Components {
	return Components{
		BaseSalary: r.BaseSalary,
		Allowances: r.Allowances,
		Bonus:      r.Bonus,
		Deductions: r.Deductions,
		Tax:        r.Tax,
	}
}

type Input struct {
	EmployeeID int64
	Month      int
	Year       int
	BaseSalary decimal.Decimal
	Allowances decimal.Decimal
	Bonus      decimal.Decimal
	Deductions decimal.Decimal
	Tax        decimal.Decimal
	Status     string
	PaidDate   *time.Time
	Remarks    string
}

type Patch struct {
	Month      *int
	Year       *int
	BaseSalary *decimal.Decimal
	Allowances *decimal.Decimal
	Bonus      *decimal.Decimal
	Deductions *decimal.Decimal
	Tax        *decimal.Decimal
	Status     *string
	PaidDate   *time.Time
	Remarks    *string
}

type Filter struct {
	EmployeeID *int64
	Month      *int
	Year       *int
	Status     string
	Limit      int
	Offset     int
}

// PayslipData is what the payslip renderer needs beyond the payroll row.
type PayslipData struct {
	Record        Record
	EmployeeEmail string
	Designation   string
	Department    string
}
