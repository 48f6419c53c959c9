package department

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-vacation/internal/config"
	departmenterrors "go-vacation/internal/department/errors"
	"go-vacation/internal/shared/contextutil"
	"go-vacation/internal/shared/normalize"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const listCacheTTL = 30 * time.Minute

func GetDepartmentListKey(companyID string) string {
	return fmt.Sprintf("departments:all:%s", companyID)
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, companyID string) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (DepartmentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	DeleteAll(ctx context.Context, companyID string) (int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	limits config.Limits
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, limits config.Limits, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, limits: limits, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateDepartmentRequest,
) (DepartmentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create department requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidCompanyID
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DepartmentResponse{}, departmenterrors.ErrInvalidName
	}
	normalized := normalize.Key(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return DepartmentResponse{}, err
	}

	count, err := qtx.CountByCompany(ctx, companyUUID)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	if count >= int64(s.limits.DepartmentsPerCompany) {
		s.logger.Warn("create department limit reached", zap.String("company_id", companyID), zap.Int64("count", count))
		return DepartmentResponse{}, departmenterrors.ErrDepartmentLimit
	}

	exists, err := qtx.ExistsByNormalizedName(ctx, companyUUID, normalized)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	if exists {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentExists
	}

	dept := &Department{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		Name:           name,
		NormalizedName: normalized,
	}
	if err := qtx.Create(ctx, dept); err != nil {
		s.logger.Error("create department persist failed", zap.String("request_id", rid), zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("create department success",
		zap.String("request_id", rid),
		zap.String("department_id", dept.ID.String()),
	)
	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]DepartmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, departmenterrors.ErrInvalidCompanyID
	}
	cacheKey := GetDepartmentListKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []DepartmentResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	if err := s.requireCompany(ctx, s.repo, companyUUID); err != nil {
		return nil, err
	}
	depts, err := s.repo.FindAllByCompany(ctx, companyUUID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	resp := mapToListResponse(depts)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, listCacheTTL).Err(); err != nil {
				s.logger.Warn("department list cache set failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (DepartmentResponse, error) {
	companyUUID, deptUUID, err := parseIDs(companyID, id)
	if err != nil {
		return DepartmentResponse{}, err
	}
	dept, err := s.repo.FindByIDAndCompany(ctx, companyUUID, deptUUID)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*dept), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateDepartmentRequest,
) (DepartmentResponse, error) {
	companyUUID, deptUUID, err := parseIDs(companyID, id)
	if err != nil {
		return DepartmentResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DepartmentResponse{}, departmenterrors.ErrInvalidName
	}
	normalized := normalize.Key(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByIDAndCompany(ctx, companyUUID, deptUUID)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	if dept.Name == name {
		return mapToResponse(*dept), nil
	}
	if dept.NormalizedName != normalized {
		exists, err := qtx.ExistsByNormalizedName(ctx, companyUUID, normalized)
		if err != nil {
			return DepartmentResponse{}, mapRepositoryError(err)
		}
		if exists {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentExists
		}
	}

	dept.Name = name
	dept.NormalizedName = normalized
	if err := qtx.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	return mapToResponse(*dept), nil
}

// Delete removes one department after detaching its members.
func (s *service) Delete(ctx context.Context, companyID, id string) error {
	s.logger.Debug("delete department requested",
		zap.String("company_id", companyID),
		zap.String("department_id", id),
	)
	companyUUID, deptUUID, err := parseIDs(companyID, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return err
	}
	if err := qtx.LockMembership(ctx, companyUUID); err != nil {
		return mapRepositoryError(err)
	}
	if _, err := qtx.FindByIDAndCompany(ctx, companyUUID, deptUUID); err != nil {
		return mapRepositoryError(err)
	}

	bound, err := qtx.CountBoundMembers(ctx, companyUUID, &deptUUID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if bound > 0 {
		s.logger.Warn("delete department blocked", zap.String("department_id", id), zap.Int64("bound_members", bound))
		return departmenterrors.ErrDepartmentInUse
	}

	if err := qtx.ClearMembers(ctx, companyUUID, &deptUUID); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, companyUUID, deptUUID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("delete department success", zap.String("department_id", id))
	return nil
}

func (s *service) DeleteAll(ctx context.Context, companyID string) (int64, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return 0, departmenterrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return 0, err
	}
	if err := qtx.LockMembership(ctx, companyUUID); err != nil {
		return 0, mapRepositoryError(err)
	}

	bound, err := qtx.CountBoundMembers(ctx, companyUUID, nil)
	if err != nil {
		return 0, mapRepositoryError(err)
	}
	if bound > 0 {
		s.logger.Warn("delete all departments blocked", zap.String("company_id", companyID), zap.Int64("bound_members", bound))
		return 0, departmenterrors.ErrDepartmentInUse
	}

	if err := qtx.ClearMembers(ctx, companyUUID, nil); err != nil {
		return 0, mapRepositoryError(err)
	}
	removed, err := qtx.DeleteAll(ctx, companyUUID)
	if err != nil {
		return 0, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("delete all departments success",
		zap.String("company_id", companyID),
		zap.Int64("removed", removed),
	)
	return removed, nil
}

func (s *service) requireCompany(ctx context.Context, repo Repository, companyID uuid.UUID) error {
	exists, err := repo.CompanyExists(ctx, companyID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !exists {
		return departmenterrors.ErrCompanyNotFound
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetDepartmentListKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate department list cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func parseIDs(companyID, id string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, departmenterrors.ErrInvalidCompanyID
	}
	deptUUID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, uuid.Nil, departmenterrors.ErrInvalidDepartmentID
	}
	return companyUUID, deptUUID, nil
}

func mapToResponse(dept Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        dept.ID.String(),
		CompanyID: dept.CompanyID.String(),
		Name:      dept.Name,
		CreatedAt: dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt: dept.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
