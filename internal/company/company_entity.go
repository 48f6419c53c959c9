package company

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                   string    `gorm:"type:varchar(150);not null"`
	NormalizedName         string    `gorm:"type:varchar(150);not null"`
	OwnerID                uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerEmail             string    `gorm:"type:varchar(255);not null"`
	InviteToken            string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	MaxVacationDaysPerYear int       `gorm:"not null"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}
