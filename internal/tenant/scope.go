// Package tenant keeps every query inside one company.
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const column = "company_id"

// Scope filters on the current table's company_id, so it stays unambiguous in joins.
func Scope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: column},
			Value:  companyID,
		})
	}
}
