package company

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	companyerrors "go-vacation/internal/company/errors"
	"go-vacation/internal/config"
	"go-vacation/internal/department"
	"go-vacation/internal/employee"
	"go-vacation/internal/shared/contextutil"
	"go-vacation/internal/shared/normalize"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, owner contextutil.Identity, req CreateCompanyRequest) (*CompanyResponse, error)
	GetByID(ctx context.Context, id string, userID string) (*CompanyResponse, error)
	ListForUser(ctx context.Context, userID string) ([]CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)
	Delete(ctx context.Context, id string) error
	RegenerateInvite(ctx context.Context, id, scheme, host string) (*InviteResponse, error)
	InviteLink(ctx context.Context, id, scheme, host string) (*InviteResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	rdb     *redis.Client
	limits  config.Limits
	policy  config.VacationPolicy
	baseURL *url.URL
	logger  *zap.Logger
}

// NewService builds the company service. publicBaseURL may be empty.
func NewService(
	db *sql.DB,
	repo Repository,
	rdb *redis.Client,
	limits config.Limits,
	policy config.VacationPolicy,
	publicBaseURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	s := &service{db: db, repo: repo, rdb: rdb, limits: limits, policy: policy, logger: l}
	if publicBaseURL != "" {
		if u, err := url.Parse(publicBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
			s.baseURL = u
		} else {
			l.Warn("ignoring invalid public base url", zap.String("url", publicBaseURL))
		}
	}
	return s
}

func (s *service) Create(ctx context.Context, owner contextutil.Identity, req CreateCompanyRequest) (*CompanyResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create company requested", zap.String("request_id", rid), zap.String("owner_id", owner.UserID))

	ownerID, err := uuid.Parse(owner.UserID)
	if err != nil || strings.TrimSpace(owner.Email) == "" {
		return nil, companyerrors.ErrInvalidOwner
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, companyerrors.ErrInvalidName
	}
	maxDays := s.policy.DefaultMaxDays
	if req.MaxVacationDaysPerYear != nil {
		maxDays = *req.MaxVacationDaysPerYear
	}
	if err := s.checkMaxDays(maxDays); err != nil {
		return nil, err
	}
	normalized := normalize.Key(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	count, err := qtx.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if count >= int64(s.limits.CompaniesPerOwner) {
		s.logger.Warn("create company limit reached", zap.String("owner_id", owner.UserID), zap.Int64("count", count))
		return nil, companyerrors.ErrCompanyLimit
	}

	exists, err := qtx.ExistsByOwnerAndName(ctx, ownerID, normalized)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if exists {
		return nil, companyerrors.ErrCompanyAlreadyExists
	}

	comp := &Company{
		ID:                     uuid.New(),
		Name:                   name,
		NormalizedName:         normalized,
		OwnerID:                ownerID,
		OwnerEmail:             strings.TrimSpace(owner.Email),
		InviteToken:            newInviteToken(),
		MaxVacationDaysPerYear: maxDays,
	}
	if err := qtx.Create(ctx, comp); err != nil {
		s.logger.Error("create company persist failed", zap.String("request_id", rid), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("create company success", zap.String("request_id", rid), zap.String("company_id", comp.ID.String()))
	return s.mapToResponse(comp, ownerID), nil
}

func (s *service) GetByID(ctx context.Context, id string, userID string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	viewer, _ := uuid.Parse(userID)
	return s.mapToResponse(comp, viewer), nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]CompanyResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, companyerrors.ErrInvalidOwner
	}

	companies, err := s.repo.ListForUser(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	result := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		result = append(result, *s.mapToResponse(&companies[i], uid))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	comp, err := qtx.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, companyerrors.ErrInvalidName
		}
		normalized := normalize.Key(name)
		if normalized != comp.NormalizedName {
			exists, err := qtx.ExistsByOwnerAndName(ctx, comp.OwnerID, normalized)
			if err != nil {
				return nil, mapRepositoryError(err)
			}
			if exists {
				return nil, companyerrors.ErrCompanyAlreadyExists
			}
		}
		comp.Name = name
		comp.NormalizedName = normalized
	}
	if req.MaxVacationDaysPerYear != nil {
		if err := s.checkMaxDays(*req.MaxVacationDaysPerYear); err != nil {
			return nil, err
		}
		comp.MaxVacationDaysPerYear = *req.MaxVacationDaysPerYear
	}

	if err := qtx.Update(ctx, comp); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("update company success", zap.String("company_id", id))
	return s.mapToResponse(comp, comp.OwnerID), nil
}

// Delete removes the company and everything it owns in one transaction.
func (s *service) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return companyerrors.ErrInvalidCompanyID
	}
	s.logger.Debug("delete company requested", zap.String("company_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.GetByID(ctx, uid); err != nil {
		return mapRepositoryError(err)
	}

	steps := []struct {
		name string
		run  func(context.Context, uuid.UUID) error
	}{
		{"clear department refs", qtx.ClearDepartmentRefs},
		{"delete departments", qtx.DeleteDepartments},
		{"delete vacations", qtx.DeleteVacations},
		{"delete employees", qtx.DeleteEmployees},
		{"delete company", qtx.Delete},
	}
	for _, step := range steps {
		if err := step.run(ctx, uid); err != nil {
			s.logger.Error("delete company step failed",
				zap.String("company_id", id),
				zap.String("step", step.name),
				zap.Error(err),
			)
			return mapRepositoryError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapRepositoryError(err)
	}

	if s.rdb != nil {
		keys := []string{employee.GetEmployeeListKey(id), department.GetDepartmentListKey(id)}
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			s.logger.Error("failed to invalidate company caches", zap.Strings("keys", keys), zap.Error(err))
		}
	}

	s.logger.Info("delete company success", zap.String("company_id", id))
	return nil
}

func (s *service) RegenerateInvite(ctx context.Context, id, scheme, host string) (*InviteResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	comp, err := qtx.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	comp.InviteToken = newInviteToken()
	if err := qtx.Update(ctx, comp); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("invite token regenerated", zap.String("company_id", id))
	return &InviteResponse{Token: comp.InviteToken, Link: s.link(scheme, host, comp.InviteToken)}, nil
}

func (s *service) InviteLink(ctx context.Context, id, scheme, host string) (*InviteResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}
	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &InviteResponse{Token: comp.InviteToken, Link: s.link(scheme, host, comp.InviteToken)}, nil
}

func (s *service) link(scheme, host, token string) string {
	if s.baseURL != nil {
		scheme, host = s.baseURL.Scheme, s.baseURL.Host
	}
	return fmt.Sprintf("%s://%s/Company/Join/%s", scheme, host, token)
}

func (s *service) checkMaxDays(days int) error {
	if days < s.policy.MinMaxDays || days > s.policy.MaxMaxDays {
		return companyerrors.ErrInvalidMaxDays.Withf(
			"max vacation days per year must be between %d and %d", s.policy.MinMaxDays, s.policy.MaxMaxDays)
	}
	return nil
}

func newInviteToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *service) mapToResponse(c *Company, viewer uuid.UUID) *CompanyResponse {
	return &CompanyResponse{
		ID:                     c.ID.String(),
		Name:                   c.Name,
		OwnerEmail:             c.OwnerEmail,
		MaxVacationDaysPerYear: c.MaxVacationDaysPerYear,
		IsOwner:                c.OwnerID == viewer,
		CreatedAt:              c.CreatedAt.Format(time.RFC3339),
	}
}
