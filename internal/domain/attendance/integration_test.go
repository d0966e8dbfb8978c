package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/attendance"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/platform/db/dbtest"
)

func TestAttendanceStore(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()

	people := core.NewService(core.NewStore(pool), auth.NewHasher(bcrypt.MinCost), nil)
	created, err := people.CreateEmployee(ctx, core.EmployeeInput{Name: "Clock Watcher", Email: "clock@example.com"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	empID := created.Employee.ID

	svc := attendance.NewService(attendance.NewStore(pool))
	in, out := "09:00", "17:15"
	first, err := svc.Create(ctx, attendance.Input{
		EmployeeID:   empID,
		Date:         time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckInTime:  &in,
		CheckOutTime: &out,
	})
	if err != nil {
		t.Fatalf("create attendance: %v", err)
	}
	if first.EmployeeName != "Clock Watcher" || *first.CheckOutTime != "17:15:00" {
		t.Fatalf("unexpected record %+v", first)
	}
	if _, err := svc.Create(ctx, attendance.Input{EmployeeID: empID, Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Status: attendance.StatusSickLeave}); err != nil {
		t.Fatalf("create attendance: %v", err)
	}

	_, err = svc.Create(ctx, attendance.Input{EmployeeID: empID + 100, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)})
	if !errors.Is(err, apperr.ErrParentNotFound) {
		t.Fatalf("expected parent not found, got %v", err)
	}

	from := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	items, total, err := svc.List(ctx, attendance.Filter{EmployeeID: &empID, From: &from, Limit: 10}, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Status != attendance.StatusSickLeave {
		t.Fatalf("unexpected list %d %+v", total, items)
	}

	earlier := "08:00"
	if _, err := svc.Update(ctx, first.ID, attendance.Patch{CheckOutTime: &earlier}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
