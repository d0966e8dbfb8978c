package auth

type Operation string

const (
	OpMe           Operation = "auth.me"
	OpLogout       Operation = "auth.logout"
	OpChangeSecret Operation = "auth.change_secret"
	OpMFA          Operation = "auth.mfa"

	OpAccountList   Operation = "account.list"
	OpAccountCreate Operation = "account.create"
	OpAccountUpdate Operation = "account.update"
	OpAccountDelete Operation = "account.delete"

	OpEmployeeList   Operation = "employee.list"
	OpEmployeeRead   Operation = "employee.read"
	OpEmployeeCreate Operation = "employee.create"
	OpEmployeeUpdate Operation = "employee.update"
	OpEmployeeDelete Operation = "employee.delete"

	OpDepartmentList   Operation = "department.list"
	OpDepartmentRead   Operation = "department.read"
	OpDepartmentCreate Operation = "department.create"
	OpDepartmentUpdate Operation = "department.update"
	OpDepartmentDelete Operation = "department.delete"

	OpAttendanceList   Operation = "attendance.list"
	OpAttendanceRead   Operation = "attendance.read"
	OpAttendanceCreate Operation = "attendance.create"
	OpAttendanceUpdate Operation = "attendance.update"
	OpAttendanceDelete Operation = "attendance.delete"

	OpPayrollList    Operation = "payroll.list"
	OpPayrollRead    Operation = "payroll.read"
	OpPayrollPayslip Operation = "payroll.payslip"
	OpPayrollCreate  Operation = "payroll.create"
	OpPayrollUpdate  Operation = "payroll.update"
	OpPayrollDelete  Operation = "payroll.delete"

	OpReviewList   Operation = "review.list"
	OpReviewRead   Operation = "review.read"
	OpReviewCreate Operation = "review.create"
	OpReviewUpdate Operation = "review.update"
	OpReviewDelete Operation = "review.delete"
)

type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

var (
	everyone   = NewRoleSet(RoleAdmin, RoleHR, RoleEmployee)
	staff      = NewRoleSet(RoleAdmin, RoleHR)
	adminsOnly = NewRoleSet(RoleAdmin)
)

// Capabilities is the whole authorization policy. Roles are flat: admin is
// not implicitly granted anything hr has.
var Capabilities = map[Operation]RoleSet{
	OpMe:           everyone,
	OpLogout:       everyone,
	OpChangeSecret: everyone,
	OpMFA:          everyone,

	OpAccountList:   adminsOnly,
	OpAccountCreate: adminsOnly,
	OpAccountUpdate: adminsOnly,
	OpAccountDelete: adminsOnly,

	OpEmployeeList:   everyone,
	OpEmployeeRead:   everyone,
	OpEmployeeCreate: staff,
	OpEmployeeUpdate: staff,
	OpEmployeeDelete: adminsOnly,

	OpDepartmentList:   everyone,
	OpDepartmentRead:   everyone,
	OpDepartmentCreate: staff,
	OpDepartmentUpdate: staff,
	OpDepartmentDelete: adminsOnly,

	OpAttendanceList:   everyone,
	OpAttendanceRead:   everyone,
	OpAttendanceCreate: staff,
	OpAttendanceUpdate: staff,
	OpAttendanceDelete: adminsOnly,

	OpPayrollList:    everyone,
	OpPayrollRead:    everyone,
	OpPayrollPayslip: everyone,
	OpPayrollCreate:  staff,
	OpPayrollUpdate:  staff,
	OpPayrollDelete:  adminsOnly,

	OpReviewList:   everyone,
	OpReviewRead:   everyone,
	OpReviewCreate: staff,
	OpReviewUpdate: staff,
	OpReviewDelete: adminsOnly,
}

func Authorize(role Role, required RoleSet) bool {
	return required.Contains(role)
}

// Allowed reports whether role may perform op. Unknown operations are denied.
func Allowed(role Role, op Operation) bool {
	required, ok := Capabilities[op]
	if !ok {
		return false
	}
	return Authorize(role, required)
}

// Scoped reports whether the role only sees rows it is the subject of.
func Scoped(role Role) bool {
	return role == RoleEmployee
}
