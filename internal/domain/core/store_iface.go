package core

import (
	"context"

	"workforce/internal/domain/auth"
)

type StoreAPI interface {
	CreateEmployee(ctx context.Context, emp Employee, account *auth.Account) (Employee, error)
	EmployeeByID(ctx context.Context, id int64) (Employee, error)
	EmployeeByAccountID(ctx context.Context, accountID int64) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error)
	UpdateEmployee(ctx context.Context, id int64, apply func(*Employee) error) (Employee, error)

	CreateDepartment(ctx context.Context, dep Department) (Department, error)
	DepartmentByID(ctx context.Context, id int64) (Department, error)
	ListDepartments(ctx context.Context, filter DepartmentFilter) ([]Department, int, error)
	UpdateDepartment(ctx context.Context, id int64, apply func(*Department) error) (Department, error)

	DeleteAccount(ctx context.Context, id int64) (CascadeReport, error)
	DeleteEmployee(ctx context.Context, id int64) (CascadeReport, error)
	DeleteDepartment(ctx context.Context, id int64) (CascadeReport, error)
}

var _ StoreAPI = (*Store)(nil)
