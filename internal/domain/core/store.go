package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
	"workforce/internal/platform/db/query"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const employeeColumns = `id, account_id, department_id, name, email, phone, address, city, state, zip_code,
  emergency_contact, emergency_phone, designation, salary, status, joining_date, created_at, updated_at`

const departmentColumns = `id, name, description, budget, head_id, active, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.AccountID, &emp.DepartmentID, &emp.Name, &emp.Email, &emp.Phone, &emp.Address,
		&emp.City, &emp.State, &emp.ZipCode, &emp.EmergencyContact, &emp.EmergencyPhone, &emp.Designation,
		&emp.Salary, &emp.Status, &emp.JoiningDate, &emp.CreatedAt, &emp.UpdatedAt)
	return emp, err
}

func scanDepartment(row pgx.Row) (Department, error) {
	var dep Department
	err := row.Scan(&dep.ID, &dep.Name, &dep.Description, &dep.Budget, &dep.HeadID, &dep.Active, &dep.CreatedAt, &dep.UpdatedAt)
	return dep, err
}

func storeErr(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity)
	}
	return apperr.FromStore(err)
}

// CreateEmployee inserts the employee and, when account is non-nil, the
// account it belongs to, in one transaction.
func (s *Store) CreateEmployee(ctx context.Context, emp Employee, account *auth.Account) (Employee, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	if account != nil {
		if err := tx.QueryRow(ctx, `
      INSERT INTO accounts (email, secret_hash, role, active, first_name, last_name)
      VALUES ($1,$2,$3,$4,$5,$6)
      RETURNING id
    `, account.Email, account.SecretHash, string(account.Role), account.Active, account.FirstName, account.LastName).Scan(&emp.AccountID); err != nil {
			return Employee{}, apperr.FromStore(err)
		}
	}

	created, err := scanEmployee(tx.QueryRow(ctx, `
    INSERT INTO employees (account_id, department_id, name, email, phone, address, city, state, zip_code,
      emergency_contact, emergency_phone, designation, salary, status, joining_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,COALESCE($13::numeric, 0),$14,$15)
    RETURNING `+employeeColumns,
		emp.AccountID, emp.DepartmentID, emp.Name, emp.Email, emp.Phone, emp.Address, emp.City, emp.State, emp.ZipCode,
		emp.EmergencyContact, emp.EmergencyPhone, emp.Designation, emp.Salary, emp.Status, emp.JoiningDate))
	if err != nil {
		return Employee{}, apperr.FromStore(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, apperr.FromStore(err)
	}
	return created, nil
}

func (s *Store) EmployeeByID(ctx context.Context, id int64) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	return emp, storeErr(err, "employee")
}

func (s *Store) EmployeeByAccountID(ctx context.Context, accountID int64) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE account_id = $1", accountID))
	return emp, storeErr(err, "employee")
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	var f query.Filter
	if filter.DepartmentID != nil {
		f.Add("department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		f.Add("status = ?", filter.Status)
	}
	if filter.Search != "" {
		f.AddAny("(name ILIKE ? OR email ILIKE ? OR designation ILIKE ?)", "%"+filter.Search+"%")
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+f.Where(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	page, args := f.Page(filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees"+f.Where()+" ORDER BY name, id"+page, args...)
	if err != nil {
		return nil, 0, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, apperr.FromStore(err)
		}
		out = append(out, emp)
	}
	return out, total, apperr.FromStore(rows.Err())
}

// UpdateEmployee locks the row, lets apply merge and validate the change on
// the full record, then writes every column back.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, apply func(*Employee) error) (Employee, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	emp, err := scanEmployee(tx.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return Employee{}, storeErr(err, "employee")
	}
	if err := apply(&emp); err != nil {
		return Employee{}, err
	}

	updated, err := scanEmployee(tx.QueryRow(ctx, `
    UPDATE employees
    SET department_id = $1,
        name = $2,
        email = $3,
        phone = $4,
        address = $5,
        city = $6,
        state = $7,
        zip_code = $8,
        emergency_contact = $9,
        emergency_phone = $10,
        designation = $11,
        salary = COALESCE($12::numeric, salary),
        status = $13,
        joining_date = $14,
        updated_at = now()
    WHERE id = $15
    RETURNING `+employeeColumns,
		emp.DepartmentID, emp.Name, emp.Email, emp.Phone, emp.Address, emp.City, emp.State, emp.ZipCode,
		emp.EmergencyContact, emp.EmergencyPhone, emp.Designation, emp.Salary, emp.Status, emp.JoiningDate, id))
	if err != nil {
		return Employee{}, apperr.FromStore(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, apperr.FromStore(err)
	}
	return updated, nil
}

func (s *Store) CreateDepartment(ctx context.Context, dep Department) (Department, error) {
	created, err := scanDepartment(s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, budget, head_id, active)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+departmentColumns,
		dep.Name, dep.Description, dep.Budget, dep.HeadID, dep.Active))
	return created, apperr.FromStore(err)
}

func (s *Store) DepartmentByID(ctx context.Context, id int64) (Department, error) {
	dep, err := scanDepartment(s.DB.QueryRow(ctx, "SELECT "+departmentColumns+" FROM departments WHERE id = $1", id))
	return dep, storeErr(err, "department")
}

func (s *Store) ListDepartments(ctx context.Context, filter DepartmentFilter) ([]Department, int, error) {
	var f query.Filter
	if filter.Active != nil {
		f.Add("active = ?", *filter.Active)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments"+f.Where(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	page, args := f.Page(filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, "SELECT "+departmentColumns+" FROM departments"+f.Where()+" ORDER BY name, id"+page, args...)
	if err != nil {
		return nil, 0, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Department{}
	for rows.Next() {
		dep, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, apperr.FromStore(err)
		}
		out = append(out, dep)
	}
	return out, total, apperr.FromStore(rows.Err())
}

func (s *Store) UpdateDepartment(ctx context.Context, id int64, apply func(*Department) error) (Department, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Department{}, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	dep, err := scanDepartment(tx.QueryRow(ctx, "SELECT "+departmentColumns+" FROM departments WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return Department{}, storeErr(err, "department")
	}
	if err := apply(&dep); err != nil {
		return Department{}, err
	}

	updated, err := scanDepartment(tx.QueryRow(ctx, `
    UPDATE departments
    SET name = $1, description = $2, budget = $3, head_id = $4, active = $5, updated_at = now()
    WHERE id = $6
    RETURNING `+departmentColumns,
		dep.Name, dep.Description, dep.Budget, dep.HeadID, dep.Active, id))
	if err != nil {
		return Department{}, apperr.FromStore(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Department{}, apperr.FromStore(err)
	}
	return updated, nil
}
