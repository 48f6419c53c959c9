// Package dbtx lets gorm repositories run on a *sql.Tx owned by a service.
package dbtx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
)

// Bind returns a gorm handle whose statements execute on tx.
// A nil tx returns db unchanged.
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	// Context forces gorm to clone the statement so the root handle keeps its pool.
	session := db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	session.Statement.ConnPool = tx
	return session
}

// Lock takes a transaction-scoped advisory lock on key.
// It is released automatically on commit or rollback.
func Lock(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error
}

// DepartmentsKey is the advisory lock key guarding department membership
// of one company. Department deletion and role or department changes of its
// employees take it so the bound-member check cannot race an assignment.
func DepartmentsKey(companyID string) string {
	return "departments:" + companyID
}

// IsUniqueViolation reports a unique-constraint failure, optionally on a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return hasCode(err, pgUniqueViolation, constraint)
}

// IsExclusionViolation reports an exclusion-constraint failure, optionally on a named constraint.
func IsExclusionViolation(err error, constraint string) bool {
	return hasCode(err, pgExclusionViolation, constraint)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgForeignKeyViolation, "")
}

func hasCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
