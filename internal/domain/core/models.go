package core

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeStatusActive     = "active"
	EmployeeStatusInactive   = "inactive"
	EmployeeStatusOnLeave    = "on_leave"
	EmployeeStatusTerminated = "terminated"
)

var employeeStatuses = map[string]struct{}{
	EmployeeStatusActive:     {},
	EmployeeStatusInactive:   {},
	EmployeeStatusOnLeave:    {},
	EmployeeStatusTerminated: {},
}

type Employee struct {
	ID               int64            `json:"id"`
	AccountID        int64            `json:"accountId"`
	DepartmentID     *int64           `json:"departmentId"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	City             string           `json:"city"`
	State            string           `json:"state"`
	ZipCode          string           `json:"zipCode"`
	EmergencyContact string           `json:"emergencyContact,omitempty"`
	EmergencyPhone   string           `json:"emergencyPhone,omitempty"`
	Designation      string           `json:"designation"`
	Salary           *decimal.Decimal `json:"salary,omitempty"`
	Status           string           `json:"status"`
	JoiningDate      time.Time        `json:"joiningDate"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type Department struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	HeadID      *int64           `json:"headId"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Nullable distinguishes an absent JSON field from an explicit null, which
// PATCH needs for clearing optional references.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func Some[T any](value T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &value}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

type EmployeeInput struct {
	AccountID        *int64
	Password         string
	DepartmentID     *int64
	Name             string
	Email            string
	Phone            string
	Address          string
	City             string
	State            string
	ZipCode          string
	EmergencyContact string
	EmergencyPhone   string
	Designation      string
	Salary           *decimal.Decimal
	Status           string
	JoiningDate      *time.Time
}

type EmployeePatch struct {
	DepartmentID     Nullable[int64]
	Name             *string
	Email            *string
	Phone            *string
	Address          *string
	City             *string
	State            *string
	ZipCode          *string
	EmergencyContact *string
	EmergencyPhone   *string
	Designation      *string
	Salary           *decimal.Decimal
	Status           *string
	JoiningDate      *time.Time
}

type DepartmentInput struct {
	Name        string
	Description string
	Budget      *decimal.Decimal
	HeadID      *int64
	Active      *bool
}

type DepartmentPatch struct {
	Name        *string
	Description *string
	Budget      Nullable[decimal.Decimal]
	HeadID      Nullable[int64]
	Active      *bool
}

type EmployeeFilter struct {
	DepartmentID *int64
	Status       string
	Search       string
	Limit        int
	Offset       int
}

type DepartmentFilter struct {
	Active *bool
	Limit  int
	Offset int
}

// CascadeReport counts what one delete removed or detached.
type CascadeReport struct {
	Accounts            int64 `json:"accounts"`
	Employees           int64 `json:"employees"`
	Departments         int64 `json:"departments"`
	Attendance          int64 `json:"attendance"`
	Payroll             int64 `json:"payroll"`
	Reviews             int64 `json:"reviews"`
	HeadsCleared        int64 `json:"headsCleared"`
	EmployeesUnassigned int64 `json:"employeesUnassigned"`
}

type CreatedEmployee struct {
	Employee          Employee `json:"employee"`
	TemporaryPassword string   `json:"temporaryPassword,omitempty"`
}
