package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null"`
	Name           string    `gorm:"size:255;not null"`
	NormalizedName string    `gorm:"size:255;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}
