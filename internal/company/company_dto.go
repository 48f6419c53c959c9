package company

type CreateCompanyRequest struct {
	Name                   string `json:"name" binding:"required,max=150"`
	MaxVacationDaysPerYear *int   `json:"max_vacation_days_per_year" binding:"omitempty,min=0"`
}

type UpdateCompanyRequest struct {
	Name                   *string `json:"name" binding:"omitempty,max=150"`
	MaxVacationDaysPerYear *int    `json:"max_vacation_days_per_year" binding:"omitempty,min=0"`
}

type CompanyResponse struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	OwnerEmail             string `json:"owner_email"`
	MaxVacationDaysPerYear int    `json:"max_vacation_days_per_year"`
	IsOwner                bool   `json:"is_owner"`
	CreatedAt              string `json:"created_at"`
}

type InviteResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}
