package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderPayslip lays out one payroll row as a single A4 page.
func RenderPayslip(data PayslipData) ([]byte, error) {
	rec := data.Record
	period := time.Date(rec.Year, time.Month(rec.Month), 1, 0, 0, 0, 0, time.UTC)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s", period.Format("January 2006")), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", rec.EmployeeName))
	pdf.Ln(7)
	if data.EmployeeEmail != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Email: %s", data.EmployeeEmail))
		pdf.Ln(7)
	}
	if data.Designation != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", data.Designation))
		pdf.Ln(7)
	}
	if data.Department != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", data.Department))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", rec.Status))
	pdf.Ln(12)

	lines := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Base salary", rec.BaseSalary},
		{"Allowances", rec.Allowances},
		{"Bonus", rec.Bonus},
		{"Deductions", rec.Deductions.Neg()},
		{"Tax", rec.Tax.Neg()},
	}
	for _, line := range lines {
		pdf.CellFormat(80, 8, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, line.amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, "Net salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, rec.NetSalary.StringFixed(2), "T", 1, "R", false, 0, "")

	if rec.PaidDate != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(6)
		pdf.Cell(0, 8, fmt.Sprintf("Paid on %s", rec.PaidDate.Format("2006-01-02")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PayslipFilename is the download name offered to clients.
func PayslipFilename(rec Record) string {
	return fmt.Sprintf("payslip-%d-%04d-%02d.pdf", rec.EmployeeID, rec.Year, rec.Month)
}
