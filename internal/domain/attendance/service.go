package attendance

import (
	"context"
	"strings"

	"workforce/internal/domain/apperr"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, in Input) (Record, error) {
	rec := Record{
		EmployeeID:   in.EmployeeID,
		Date:         in.Date,
		Status:       strings.TrimSpace(in.Status),
		CheckInTime:  in.CheckInTime,
		CheckOutTime: in.CheckOutTime,
		Remarks:      in.Remarks,
	}
	if rec.Status == "" {
		rec.Status = StatusPresent
	}
	if err := validateRecord(&rec); err != nil {
		return Record{}, err
	}
	return s.Store.Create(ctx, rec)
}

// Get returns the record. A non-nil subject restricts visibility to that
// employee's own rows; anything else reads as missing.
func (s *Service) Get(ctx context.Context, id int64, subject *int64) (Record, error) {
	rec, err := s.Store.ByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if subject != nil && rec.EmployeeID != *subject {
		return Record{}, apperr.NotFound("attendance record")
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, filter Filter, subject *int64) ([]Record, int, error) {
	if filter.Status != "" {
		if _, ok := statuses[filter.Status]; !ok {
			return nil, 0, apperr.Validation("status", "unknown attendance status")
		}
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, apperr.Validation("to", "must not be before from")
	}
	if subject != nil {
		filter.EmployeeID = subject
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Record, error) {
	return s.Store.Update(ctx, id, func(rec *Record) error {
		applyPatch(rec, patch)
		return validateRecord(rec)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Store.Delete(ctx, id)
}
