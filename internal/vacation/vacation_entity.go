package vacation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDenied   = "DENIED"
)

type Vacation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_vacations_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_vacations_employee_start;uniqueIndex:uq_vacations_employee_end"`

	StartDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_vacations_employee_start"`
	EndDate   time.Time `gorm:"type:date;not null;uniqueIndex:uq_vacations_employee_end"`
	Days      int       `gorm:"type:int;not null"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_vacations_company_status"`
	CreatedOn time.Time  `gorm:"not null"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time
}

func (Vacation) TableName() string {
	return "vacations"
}

// CompanyPolicy is the slice of a company the engine needs.
type CompanyPolicy struct {
	ID                     uuid.UUID
	MaxVacationDaysPerYear int
}

// EmployeeRef is the membership row a vacation hangs off.
type EmployeeRef struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	UserID       *uuid.UUID
	HasJoined    bool
	DepartmentID *uuid.UUID
}

// BoundTo reports whether the record is joined and linked to userID.
func (e EmployeeRef) BoundTo(userID uuid.UUID) bool {
	return e.HasJoined && e.UserID != nil && *e.UserID == userID
}
