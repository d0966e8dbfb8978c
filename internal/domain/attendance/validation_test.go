package attendance

import (
	"errors"
	"testing"
	"time"

	"workforce/internal/domain/apperr"
)

func strPtr(value string) *string { return &value }

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "09:30", want: "09:30:00", ok: true},
		{in: "17:45:10", want: "17:45:10", ok: true},
		{in: " 08:00 ", want: "08:00:00", ok: true},
		{in: "9:30", ok: false},
		{in: "25:00", ok: false},
		{in: "12:60", ok: false},
		{in: "noon", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			got, ok := NormalizeClock(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("NormalizeClock(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		rec   Record
		field string
	}{
		{name: "valid", rec: Record{EmployeeID: 1, Date: day, Status: StatusPresent, CheckInTime: strPtr("09:00"), CheckOutTime: strPtr("17:30")}},
		{name: "valid without times", rec: Record{EmployeeID: 1, Date: day, Status: StatusAbsent}},
		{name: "same in and out", rec: Record{EmployeeID: 1, Date: day, Status: StatusHalfDay, CheckInTime: strPtr("09:00"), CheckOutTime: strPtr("09:00:00")}},
		{name: "missing employee", rec: Record{Date: day, Status: StatusPresent}, field: "employeeId"},
		{name: "missing date", rec: Record{EmployeeID: 1, Status: StatusPresent}, field: "date"},
		{name: "bad status", rec: Record{EmployeeID: 1, Date: day, Status: "vacation"}, field: "status"},
		{name: "bad time", rec: Record{EmployeeID: 1, Date: day, Status: StatusPresent, CheckInTime: strPtr("9am")}, field: "checkInTime"},
		{name: "checkout before checkin", rec: Record{EmployeeID: 1, Date: day, Status: StatusPresent, CheckInTime: strPtr("18:00"), CheckOutTime: strPtr("08:00")}, field: "checkOutTime"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := tc.rec
			err := validateRecord(&rec)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if appErr.Fields[0].Field != tc.field {
				t.Fatalf("expected field %s, got %+v", tc.field, appErr.Fields)
			}
		})
	}
}

func TestValidateRecordNormalizesTimes(t *testing.T) {
	rec := Record{EmployeeID: 1, Date: time.Now(), Status: StatusPresent, CheckInTime: strPtr("08:15")}
	if err := validateRecord(&rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rec.CheckInTime != "08:15:00" {
		t.Fatalf("expected normalized time, got %s", *rec.CheckInTime)
	}
}

func TestApplyPatchClearsTimes(t *testing.T) {
	rec := Record{CheckInTime: strPtr("08:00:00"), CheckOutTime: strPtr("16:00:00"), Status: StatusPresent}
	applyPatch(&rec, Patch{ClearCheckOut: true, Status: strPtr(StatusHalfDay)})
	if rec.CheckOutTime != nil {
		t.Fatal("expected check-out cleared")
	}
	if rec.CheckInTime == nil || rec.Status != StatusHalfDay {
		t.Fatalf("unexpected record %+v", rec)
	}
}
