package cleanup

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const denyStalePendingSQL = `UPDATE vacations SET status = 'DENIED', decided_at = ?
WHERE id IN (
	SELECT id FROM vacations
	WHERE status = 'PENDING' AND start_date <= ?
	ORDER BY start_date
	LIMIT ?
)`

const purgeDeniedSQL = `DELETE FROM vacations
WHERE id IN (
	SELECT id FROM vacations
	WHERE status = 'DENIED' AND start_date < ?
	ORDER BY start_date
	LIMIT ?
)`

//go:generate mockgen -source=cleanup_repo.go -destination=mock/cleanup_repo_mock.go -package=mock
type Repository interface {
	DenyStalePending(ctx context.Context, today time.Time, limit int) (int64, error)
	PurgeDenied(ctx context.Context, before time.Time, limit int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// DenyStalePending denies up to limit pending vacations starting on or before today.
func (r *repository) DenyStalePending(ctx context.Context, today time.Time, limit int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(denyStalePendingSQL, time.Now().UTC(), today, limit)
	return res.RowsAffected, res.Error
}

// PurgeDenied deletes up to limit denied vacations starting before the given date.
func (r *repository) PurgeDenied(ctx context.Context, before time.Time, limit int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(purgeDeniedSQL, before, limit)
	return res.RowsAffected, res.Error
}
