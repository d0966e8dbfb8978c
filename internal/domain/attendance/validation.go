package attendance

import (
	"strings"
	"time"

	"workforce/internal/domain/apperr"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// NormalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeClock(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, value); err == nil && len(value) == len(layout) {
			return parsed.Format("15:04:05"), true
		}
	}
	return "", false
}

func validateRecord(rec *Record) error {
	var issues apperr.Issues
	if rec.EmployeeID <= 0 {
		issues.Add("employeeId", "must be a positive id")
	}
	if rec.Date.IsZero() {
		issues.Add("date", "is required")
	}
	if _, ok := statuses[rec.Status]; !ok {
		issues.Add("status", "must be one of present, absent, half_day, sick_leave, paid_leave, unpaid_leave")
	}
	in, inOK := normalizeOptional(rec.CheckInTime)
	if !inOK {
		issues.Add("checkInTime", "must be HH:MM or HH:MM:SS")
	}
	out, outOK := normalizeOptional(rec.CheckOutTime)
	if !outOK {
		issues.Add("checkOutTime", "must be HH:MM or HH:MM:SS")
	}
	if in != nil && out != nil && *out < *in {
		issues.Add("checkOutTime", "must not be before checkInTime")
	}
	if err := issues.Err(); err != nil {
		return err
	}
	rec.CheckInTime, rec.CheckOutTime = in, out
	rec.Remarks = strings.TrimSpace(rec.Remarks)
	return nil
}

func normalizeOptional(value *string) (*string, bool) {
	if value == nil {
		return nil, true
	}
	normalized, ok := NormalizeClock(*value)
	if !ok {
		return nil, false
	}
	return &normalized, true
}

func applyPatch(rec *Record, patch Patch) {
	if patch.Date != nil {
		rec.Date = *patch.Date
	}
	if patch.Status != nil {
		rec.Status = strings.TrimSpace(*patch.Status)
	}
	if patch.ClearCheckIn {
		rec.CheckInTime = nil
	} else if patch.CheckInTime != nil {
		value := *patch.CheckInTime
		rec.CheckInTime = &value
	}
	if patch.ClearCheckOut {
		rec.CheckOutTime = nil
	} else if patch.CheckOutTime != nil {
		value := *patch.CheckOutTime
		rec.CheckOutTime = &value
	}
	if patch.Remarks != nil {
		rec.Remarks = *patch.Remarks
	}
}
