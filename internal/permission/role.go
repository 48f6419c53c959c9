package permission

import (
	"fmt"
	"strings"
)

// EmployeeRole is the role an EmployeeInfo record holds inside a company.
type EmployeeRole int

const (
	EmployeeRoleEmployee EmployeeRole = iota
	EmployeeRoleSupervisor
	EmployeeRoleAdmin
)

// Role is the ordered authorization level of an actor in a company.
// Checks are always Role >= threshold or Role > target, never equality.
type Role int

const (
	RoleNone Role = iota
	RoleVisitor
	RoleManager
	RoleEditor
	RoleOwner
)

// ForEmployeeRole maps a membership role to its permission level.
func ForEmployeeRole(r EmployeeRole) Role {
	switch r {
	case EmployeeRoleEmployee:
		return RoleVisitor
	case EmployeeRoleSupervisor:
		return RoleManager
	case EmployeeRoleAdmin:
		return RoleEditor
	default:
		return RoleNone
	}
}

// RequiresDepartment reports whether holders of r must belong to a department.
func (r EmployeeRole) RequiresDepartment() bool {
	switch r {
	case EmployeeRoleSupervisor:
		return true
	default:
		return false
	}
}

// DepartmentBoundRoles lists every membership role that requires a department.
func DepartmentBoundRoles() []EmployeeRole {
	var out []EmployeeRole
	for r := EmployeeRoleEmployee; r <= EmployeeRoleAdmin; r++ {
		if r.RequiresDepartment() {
			out = append(out, r)
		}
	}
	return out
}

func (r EmployeeRole) Valid() bool {
	return r >= EmployeeRoleEmployee && r <= EmployeeRoleAdmin
}

func (r EmployeeRole) String() string {
	switch r {
	case EmployeeRoleEmployee:
		return "Employee"
	case EmployeeRoleSupervisor:
		return "Supervisor"
	case EmployeeRoleAdmin:
		return "Admin"
	default:
		return fmt.Sprintf("EmployeeRole(%d)", int(r))
	}
}

func ParseEmployeeRole(s string) (EmployeeRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee":
		return EmployeeRoleEmployee, nil
	case "supervisor":
		return EmployeeRoleSupervisor, nil
	case "admin":
		return EmployeeRoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown employee role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleVisitor:
		return "visitor"
	case RoleManager:
		return "manager"
	case RoleEditor:
		return "editor"
	case RoleOwner:
		return "owner"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// AtLeast reports r >= threshold.
func (r Role) AtLeast(threshold Role) bool {
	return r >= threshold
}

// Outranks reports r > other; used for managing other members.
func (r Role) Outranks(other Role) bool {
	return r > other
}
