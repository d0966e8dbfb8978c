package payroll

import (
	"context"
	"strings"
	"time"

	"workforce/internal/domain/apperr"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) today() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) Create(ctx context.Context, in Input) (Record, error) {
	rec := Record{
		EmployeeID: in.EmployeeID,
		Month:      in.Month,
		Year:       in.Year,
		BaseSalary: in.BaseSalary,
		Allowances: in.Allowances,
		Bonus:      in.Bonus,
		Deductions: in.Deductions,
		Tax:        in.Tax,
		Status:     strings.TrimSpace(in.Status),
		PaidDate:   in.PaidDate,
		Remarks:    in.Remarks,
	}
	if rec.Status == "" {
		rec.Status = StatusDraft
	}
	if err := finalize(&rec, s.today()); err != nil {
		return Record{}, err
	}
	return s.Store.Create(ctx, rec)
}

// Get hides rows of other employees from a scoped caller.
func (s *Service) Get(ctx context.Context, id int64, subject *int64) (Record, error) {
	rec, err := s.Store.ByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if subject != nil && rec.EmployeeID != *subject {
		return Record{}, apperr.NotFound("payroll record")
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, filter Filter, subject *int64) ([]Record, int, error) {
	if filter.Status != "" {
		if _, ok := statuses[filter.Status]; !ok {
			return nil, 0, apperr.Validation("status", "unknown payroll status")
		}
	}
	if filter.Month != nil && (*filter.Month < 1 || *filter.Month > 12) {
		return nil, 0, apperr.Validation("month", "must be between 1 and 12")
	}
	if subject != nil {
		filter.EmployeeID = subject
	}
	return s.Store.List(ctx, filter)
}

// Update merges the patch into the locked row; net salary is always
// recomputed from the merged components.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Record, error) {
	today := s.today()
	return s.Store.Update(ctx, id, func(rec *Record) error {
		applyPatch(rec, patch)
		return finalize(rec, today)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Store.Delete(ctx, id)
}

// Payslip renders the PDF for a payroll row the caller may read.
func (s *Service) Payslip(ctx context.Context, id int64, subject *int64) ([]byte, string, error) {
	data, err := s.Store.PayslipData(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if subject != nil && data.Record.EmployeeID != *subject {
		return nil, "", apperr.NotFound("payroll record")
	}
	pdf, err := RenderPayslip(data)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return pdf, PayslipFilename(data.Record), nil
}
