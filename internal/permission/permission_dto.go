package permission

import "github.com/google/uuid"

// Decision is the resolved authorization of one actor in one company.
type Decision struct {
	CompanyID uuid.UUID
	Role      Role
	// DepartmentID is set when the actor's role confines them to a department.
	DepartmentID *uuid.UUID
	Allowed      bool
}

type PermissionResponse struct {
	CompanyID    string  `json:"company_id"`
	Role         string  `json:"role"`
	Level        int     `json:"level"`
	DepartmentID *string `json:"department_id,omitempty"`
}

// ContextKey is the gin context key RequirePermission stores the Decision under.
const ContextKey = "permission"

// DecisionFrom returns the Decision stored by RequirePermission, or a None decision.
func DecisionFrom(c interface{ Get(string) (any, bool) }) Decision {
	v, ok := c.Get(ContextKey)
	if !ok {
		return Decision{Role: RoleNone}
	}
	d, ok := v.(Decision)
	if !ok {
		return Decision{Role: RoleNone}
	}
	return d
}
