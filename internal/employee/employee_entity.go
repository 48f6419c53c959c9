package employee

import (
	"time"

	"go-vacation/internal/permission"

	"github.com/google/uuid"
)

// Employee is the membership record binding an email to a company.
// It exists before the matching user account joins.
type Employee struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID               `gorm:"type:uuid;index;uniqueIndex:uq_employees_company_email"`
	Email           string                  `gorm:"not null"`
	NormalizedEmail string                  `gorm:"not null;uniqueIndex:uq_employees_company_email"`
	UserID          *uuid.UUID              `gorm:"type:uuid;index"`
	HasJoined       bool                    `gorm:"not null;default:false"`
	Role            permission.EmployeeRole `gorm:"type:smallint;not null;default:0"`
	DepartmentID    *uuid.UUID              `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// CompanyRef is what a join needs to know about the invited company.
type CompanyRef struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	OwnerEmail string
}
