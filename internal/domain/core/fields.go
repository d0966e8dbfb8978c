package core

import "workforce/internal/domain/auth"

// FilterEmployeeFields hides compensation and emergency contact details from
// callers who are neither staff nor the employee themselves.
func FilterEmployeeFields(emp *Employee, caller auth.Identity) {
	if caller.Role == auth.RoleAdmin || caller.Role == auth.RoleHR {
		return
	}
	if emp.AccountID == caller.AccountID {
		return
	}
	emp.Salary = nil
	emp.EmergencyContact = ""
	emp.EmergencyPhone = ""
	emp.Address = ""
	emp.Phone = ""
}
