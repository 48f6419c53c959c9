package employee

type AddEmployeeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Employee Supervisor Admin employee supervisor admin"`
}

// ChangeDepartmentRequest: a null department_id clears the assignment.
type ChangeDepartmentRequest struct {
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	HasJoined    bool    `json:"has_joined"`
	DepartmentID *string `json:"department_id,omitempty"`
}

type MeResponse struct {
	EmployeeResponse
	Permission string `json:"permission"`
}

type DeleteAllResponse struct {
	Removed int `json:"removed"`
}
