package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
)

type SecretHasher interface {
	Hash(secret string) (string, error)
}

// AccountRevoker invalidates outstanding tokens of a deleted account.
type AccountRevoker interface {
	RevokeAccount(ctx context.Context, accountID int64) error
}

type Service struct {
	Store   StoreAPI
	Hasher  SecretHasher
	Revoker AccountRevoker
	Now     func() time.Time
}

func NewService(store StoreAPI, hasher SecretHasher, revoker AccountRevoker) *Service {
	return &Service{Store: store, Hasher: hasher, Revoker: revoker, Now: time.Now}
}

func (s *Service) today() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateEmployee links an existing account when AccountID is given and
// otherwise creates an employee-role account with the employee's email. The
// generated temporary password, if any, is returned exactly once.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (CreatedEmployee, error) {
	emp := Employee{
		AccountID:        valueOr(in.AccountID, 0),
		DepartmentID:     in.DepartmentID,
		Name:             strings.TrimSpace(in.Name),
		Email:            auth.NormalizeEmail(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		ZipCode:          strings.TrimSpace(in.ZipCode),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(in.EmergencyPhone),
		Designation:      strings.TrimSpace(in.Designation),
		Salary:           in.Salary,
		Status:           in.Status,
		JoiningDate:      s.today(),
	}
	if emp.Status == "" {
		emp.Status = EmployeeStatusActive
	}
	if in.JoiningDate != nil {
		emp.JoiningDate = *in.JoiningDate
	}
	if err := validateEmployee(emp); err != nil {
		return CreatedEmployee{}, err
	}

	if in.AccountID != nil {
		if *in.AccountID <= 0 {
			return CreatedEmployee{}, apperr.Validation("accountId", "must be a positive id")
		}
		created, err := s.Store.CreateEmployee(ctx, emp, nil)
		if err != nil {
			return CreatedEmployee{}, err
		}
		return CreatedEmployee{Employee: created}, nil
	}

	secret := in.Password
	temporary := ""
	if secret == "" {
		generated, err := temporarySecret()
		if err != nil {
			return CreatedEmployee{}, apperr.Internal(err)
		}
		secret, temporary = generated, generated
	} else if err := auth.ValidateSecret("password", secret); err != nil {
		return CreatedEmployee{}, err
	}

	hash, err := s.Hasher.Hash(secret)
	if err != nil {
		return CreatedEmployee{}, apperr.Internal(err)
	}
	first, last := splitName(emp.Name)
	created, err := s.Store.CreateEmployee(ctx, emp, &auth.Account{
		Email:      emp.Email,
		SecretHash: hash,
		Role:       auth.RoleEmployee,
		Active:     true,
		FirstName:  first,
		LastName:   last,
	})
	if err != nil {
		return CreatedEmployee{}, err
	}
	return CreatedEmployee{Employee: created, TemporaryPassword: temporary}, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.Store.EmployeeByID(ctx, id)
}

func (s *Service) EmployeeForAccount(ctx context.Context, accountID int64) (Employee, error) {
	return s.Store.EmployeeByAccountID(ctx, accountID)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	if filter.Status != "" {
		if _, ok := employeeStatuses[filter.Status]; !ok {
			return nil, 0, apperr.Validation("status", "must be one of active, inactive, on_leave, terminated")
		}
	}
	return s.Store.ListEmployees(ctx, filter)
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, patch EmployeePatch) (Employee, error) {
	return s.Store.UpdateEmployee(ctx, id, func(emp *Employee) error {
		applyEmployeePatch(emp, patch)
		return validateEmployee(*emp)
	})
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) (CascadeReport, error) {
	return s.Store.DeleteEmployee(ctx, id)
}

// DeleteAccount removes the account with its employee record and everything
// hanging off it, then revokes the account's tokens.
func (s *Service) DeleteAccount(ctx context.Context, id int64) (CascadeReport, error) {
	report, err := s.Store.DeleteAccount(ctx, id)
	if err != nil {
		return report, err
	}
	if s.Revoker != nil {
		if err := s.Revoker.RevokeAccount(ctx, id); err != nil {
			slog.Error("revoke tokens of deleted account failed", "accountId", id, "err", err)
		}
	}
	return report, nil
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput) (Department, error) {
	dep := Department{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Budget:      in.Budget,
		HeadID:      in.HeadID,
		Active:      true,
	}
	if in.Active != nil {
		dep.Active = *in.Active
	}
	if err := validateDepartment(dep); err != nil {
		return Department{}, err
	}
	return s.Store.CreateDepartment(ctx, dep)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (Department, error) {
	return s.Store.DepartmentByID(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, filter DepartmentFilter) ([]Department, int, error) {
	return s.Store.ListDepartments(ctx, filter)
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, patch DepartmentPatch) (Department, error) {
	return s.Store.UpdateDepartment(ctx, id, func(dep *Department) error {
		applyDepartmentPatch(dep, patch)
		return validateDepartment(*dep)
	})
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) (CascadeReport, error) {
	return s.Store.DeleteDepartment(ctx, id)
}

func (s *Service) DepartmentEmployees(ctx context.Context, id int64, limit, offset int) ([]Employee, int, error) {
	if _, err := s.Store.DepartmentByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.Store.ListEmployees(ctx, EmployeeFilter{DepartmentID: &id, Limit: limit, Offset: offset})
}

// ResolveSubject returns the employee id of the caller, or NotFound when the
// account has no employee record.
func (s *Service) ResolveSubject(ctx context.Context, caller auth.Identity) (int64, error) {
	emp, err := s.Store.EmployeeByAccountID(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return 0, apperr.NotFound("employee record for caller")
		}
		return 0, err
	}
	return emp.ID, nil
}

func temporarySecret() (string, error) {
	buff := make([]byte, 12)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}

func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
