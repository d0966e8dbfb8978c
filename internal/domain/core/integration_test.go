package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/platform/db/dbtest"
)

func newIntegrationService(t *testing.T) (*core.Service, *pgxpool.Pool) {
	t.Helper()
	pool := dbtest.Open(t)
	svc := core.NewService(core.NewStore(pool), auth.NewHasher(bcrypt.MinCost), nil)
	return svc, pool
}

func mustEmployee(t *testing.T, svc *core.Service, name, email string, dept *int64) core.Employee {
	t.Helper()
	created, err := svc.CreateEmployee(context.Background(), core.EmployeeInput{Name: name, Email: email, DepartmentID: dept})
	if err != nil {
		t.Fatalf("create employee %s: %v", email, err)
	}
	return created.Employee
}

func count(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func TestDeleteAccountCascades(t *testing.T) {
	svc, pool := newIntegrationService(t)
	ctx := context.Background()

	subject := mustEmployee(t, svc, "Subject Person", "subject@example.com", nil)
	reviewer := mustEmployee(t, svc, "Reviewer Person", "reviewer@example.com", nil)

	dep, err := svc.CreateDepartment(ctx, core.DepartmentInput{Name: "Research", HeadID: &subject.ID})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}

	seed := []string{
		"INSERT INTO attendance (employee_id, date) VALUES ($1, '2026-01-05')",
		"INSERT INTO payroll (employee_id, month, year, base_salary, net_salary) VALUES ($1, 1, 2026, 1000, 1000)",
	}
	for _, q := range seed {
		if _, err := pool.Exec(ctx, q, subject.ID); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := pool.Exec(ctx, `INSERT INTO performance_reviews (employee_id, reviewer_id, period, rating)
    VALUES ($1, $2, '2026-Q1', 4.0), ($2, $1, '2026-Q1', 3.5)`, subject.ID, reviewer.ID); err != nil {
		t.Fatalf("seed reviews: %v", err)
	}

	report, err := svc.DeleteAccount(ctx, subject.AccountID)
	if err != nil {
		t.Fatalf("delete account: %v", err)
	}
	want := core.CascadeReport{Accounts: 1, Employees: 1, Attendance: 1, Payroll: 1, Reviews: 2, HeadsCleared: 1}
	if report != want {
		t.Fatalf("unexpected report %+v", report)
	}

	if n := count(t, pool, "SELECT COUNT(1) FROM employees WHERE id = $1", subject.ID); n != 0 {
		t.Fatalf("employee still present")
	}
	if n := count(t, pool, "SELECT COUNT(1) FROM performance_reviews"); n != 0 {
		t.Fatalf("expected reviews gone, %d remain", n)
	}
	got, err := svc.GetDepartment(ctx, dep.ID)
	if err != nil {
		t.Fatalf("get department: %v", err)
	}
	if got.HeadID != nil {
		t.Fatalf("expected head cleared, got %d", *got.HeadID)
	}
	if _, err := svc.GetEmployee(ctx, reviewer.ID); err != nil {
		t.Fatalf("reviewer must survive: %v", err)
	}
}

func TestDeleteDepartmentUnassignsEmployees(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	dep, err := svc.CreateDepartment(ctx, core.DepartmentInput{Name: "Sales"})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}
	emp := mustEmployee(t, svc, "Seller", "seller@example.com", &dep.ID)

	report, err := svc.DeleteDepartment(ctx, dep.ID)
	if err != nil {
		t.Fatalf("delete department: %v", err)
	}
	if report.Departments != 1 || report.EmployeesUnassigned != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	got, err := svc.GetEmployee(ctx, emp.ID)
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if got.DepartmentID != nil {
		t.Fatal("expected department cleared")
	}
	if _, err := svc.DeleteDepartment(ctx, dep.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestEmployeeReferencesAreChecked(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	missing := int64(9999)
	_, err := svc.CreateEmployee(ctx, core.EmployeeInput{Name: "Ghost", Email: "ghost@example.com", DepartmentID: &missing})
	if !errors.Is(err, apperr.ErrParentNotFound) {
		t.Fatalf("expected parent not found, got %v", err)
	}

	mustEmployee(t, svc, "First", "dup@example.com", nil)
	_, err = svc.CreateEmployee(ctx, core.EmployeeInput{Name: "Second", Email: "DUP@example.com"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestConcurrentRegistrationYieldsOneAccount(t *testing.T) {
	pool := dbtest.Open(t)
	store := auth.NewStore(pool)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreateAccount(ctx, auth.Account{
				Email:      "race@example.com",
				SecretHash: "x",
				Role:       auth.RoleEmployee,
				Active:     true,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("expected one success, got %d successes and %d conflicts", ok, conflicts)
	}
}
