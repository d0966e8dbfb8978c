package attendance

import "time"

const (
	StatusPresent     = "present"
	StatusAbsent      = "absent"
	StatusHalfDay     = "half_day"
	StatusSickLeave   = "sick_leave"
	StatusPaidLeave   = "paid_leave"
	StatusUnpaidLeave = "unpaid_leave"
)

var statuses = map[string]struct{}{
	StatusPresent:     {},
	StatusAbsent:      {},
	StatusHalfDay:     {},
	StatusSickLeave:   {},
	StatusPaidLeave:   {},
	StatusUnpaidLeave: {},
}

// Record is one day of attendance. Check-in and check-out are wall-clock
// times normalized to HH:MM:SS.
type Record struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	CheckInTime  *string   `json:"checkInTime"`
	CheckOutTime *string   `json:"checkOutTime"`
	Remarks      string    `json:"remarks"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Input struct {
	EmployeeID   int64
	Date         time.Time
	Status       string
	CheckInTime  *string
	CheckOutTime *string
	Remarks      string
}

// Patch carries the fields present in a partial update. ClearCheckIn and
// ClearCheckOut remove a recorded time.
type Patch struct {
	Date          *time.Time
	Status        *string
	CheckInTime   *string
	CheckOutTime  *string
	ClearCheckIn  bool
	ClearCheckOut bool
	Remarks       *string
}

type Filter struct {
	EmployeeID *int64
	From       *time.Time
	To         *time.Time
	Status     string
	Limit      int
	Offset     int
}
