package vacation

type CreateVacationRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type VacationResponse struct {
	ID         string  `json:"id"`
	CompanyID  string  `json:"company_id"`
	EmployeeID string  `json:"employee_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Days       int     `json:"days"`
	Status     string  `json:"status"`
	CreatedOn  string  `json:"created_on"`
	DecidedBy  *string `json:"decided_by,omitempty"`
	DecidedAt  *string `json:"decided_at,omitempty"`
}

type YearBudget struct {
	Year      int `json:"year"`
	MaxDays   int `json:"max_days"`
	Consumed  int `json:"consumed"`
	Remaining int `json:"remaining"`
}

type BudgetResponse struct {
	EmployeeID string       `json:"employee_id"`
	Pending    int          `json:"pending_requests"`
	Years      []YearBudget `json:"years"`
}
