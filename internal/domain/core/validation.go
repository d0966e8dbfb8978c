package core

import (
	"strings"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
)

func validateEmployee(emp Employee) error {
	var issues apperr.Issues
	if strings.TrimSpace(emp.Name) == "" {
		issues.Add("name", "is required")
	}
	if err := auth.ValidateEmail(emp.Email); err != nil {
		issues.Add("email", "must be a valid email address")
	}
	if _, ok := employeeStatuses[emp.Status]; !ok {
		issues.Add("status", "must be one of active, inactive, on_leave, terminated")
	}
	if emp.Salary != nil && emp.Salary.IsNegative() {
		issues.Add("salary", "must not be negative")
	}
	if emp.DepartmentID != nil && *emp.DepartmentID <= 0 {
		issues.Add("departmentId", "must be a positive id")
	}
	if emp.JoiningDate.IsZero() {
		issues.Add("joiningDate", "is required")
	}
	return issues.Err()
}

func validateDepartment(dep Department) error {
	var issues apperr.Issues
	if strings.TrimSpace(dep.Name) == "" {
		issues.Add("name", "is required")
	}
	if len(dep.Name) > 120 {
		issues.Add("name", "must be at most 120 characters")
	}
	if dep.Budget != nil && dep.Budget.LessThan(decimal.Zero) {
		issues.Add("budget", "must not be negative")
	}
	if dep.HeadID != nil && *dep.HeadID <= 0 {
		issues.Add("headId", "must be a positive id")
	}
	return issues.Err()
}

func applyEmployeePatch(emp *Employee, patch EmployeePatch) {
	if patch.DepartmentID.Set {
		emp.DepartmentID = patch.DepartmentID.Value
	}
	setString(&emp.Name, patch.Name)
	if patch.Email != nil {
		emp.Email = auth.NormalizeEmail(*patch.Email)
	}
	setString(&emp.Phone, patch.Phone)
	setString(&emp.Address, patch.Address)
	setString(&emp.City, patch.City)
	setString(&emp.State, patch.State)
	setString(&emp.ZipCode, patch.ZipCode)
	setString(&emp.EmergencyContact, patch.EmergencyContact)
	setString(&emp.EmergencyPhone, patch.EmergencyPhone)
	setString(&emp.Designation, patch.Designation)
	if patch.Salary != nil {
		salary := *patch.Salary
		emp.Salary = &salary
	}
	setString(&emp.Status, patch.Status)
	if patch.JoiningDate != nil {
		emp.JoiningDate = *patch.JoiningDate
	}
}

func applyDepartmentPatch(dep *Department, patch DepartmentPatch) {
	setString(&dep.Name, patch.Name)
	setString(&dep.Description, patch.Description)
	if patch.Budget.Set {
		dep.Budget = patch.Budget.Value
	}
	if patch.HeadID.Set {
		dep.HeadID = patch.HeadID.Value
	}
	if patch.Active != nil {
		dep.Active = *patch.Active
	}
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}
