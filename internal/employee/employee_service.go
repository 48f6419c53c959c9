package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go-vacation/internal/config"
	employeeerrors "go-vacation/internal/employee/errors"
	"go-vacation/internal/events"
	"go-vacation/internal/messaging/kafka"
	"go-vacation/internal/permission"
	"go-vacation/internal/shared/contextutil"
	"go-vacation/internal/shared/normalize"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeListKeyPrefix = "employees:list:"

func GetEmployeeListKey(companyID string) string {
	return EmployeeListKeyPrefix + companyID
}

type Service interface {
	Add(ctx context.Context, companyID string, req AddEmployeeRequest) (EmployeeResponse, error)
	Join(ctx context.Context, identity contextutil.Identity, inviteToken string) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID string, actor permission.Decision, employeeID string) error
	DeleteAll(ctx context.Context, companyID string, actor permission.Decision) (int, error)
	ChangeRole(ctx context.Context, companyID string, actor permission.Decision, employeeID string, req ChangeRoleRequest) (EmployeeResponse, error)
	ChangeDepartment(ctx context.Context, companyID string, actor permission.Decision, employeeID string, req ChangeDepartmentRequest) (EmployeeResponse, error)
	List(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Me(ctx context.Context, companyID string, identity contextutil.Identity, actor permission.Decision) (MeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	limits config.Limits
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	limits config.Limits,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		limits: limits,
		logger: l,
	}
}

func (s *service) Add(ctx context.Context, companyID string, req AddEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("add employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmail
	}
	email := addr.Address
	normalized := normalize.Key(email)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return EmployeeResponse{}, err
	}

	count, err := qtx.CountByCompany(ctx, companyUUID)
	if err != nil {
		s.logger.Error("add employee count failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if count >= int64(s.limits.EmployeesPerCompany) {
		s.logger.Warn("add employee limit reached", zap.String("company_id", companyID), zap.Int64("count", count))
		return EmployeeResponse{}, employeeerrors.ErrEmployeeLimit
	}

	if _, err := qtx.FindByNormalizedEmail(ctx, companyUUID, normalized); err == nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("add employee email lookup failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl := &Employee{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		Email:           email,
		NormalizedEmail: normalized,
		Role:            permission.EmployeeRoleEmployee,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("add employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, events.EmployeeAdded, *empl); err != nil {
		s.logger.Error("add employee outbox persist failed", zap.String("employee_id", empl.ID.String()), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("add employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Join(ctx context.Context, identity contextutil.Identity, inviteToken string) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("join company requested", zap.String("request_id", rid), zap.String("user_id", identity.UserID))

	userUUID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrNotInvited
	}
	normalized := normalize.Key(identity.Email)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("join company begin tx failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	company, err := qtx.FindCompanyByInviteToken(ctx, inviteToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidInvite
		}
		s.logger.Error("join company invite lookup failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if company.OwnerID == userUUID || normalize.Key(company.OwnerEmail) == normalized {
		return EmployeeResponse{}, employeeerrors.ErrOwnerCannotJoin
	}

	joined, err := qtx.CountJoinedByUser(ctx, userUUID)
	if err != nil {
		s.logger.Error("join company count failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if joined >= int64(s.limits.JoinedCompaniesPerUser) {
		s.logger.Warn("join company limit reached", zap.String("user_id", identity.UserID), zap.Int64("joined", joined))
		return EmployeeResponse{}, employeeerrors.ErrJoinLimit
	}

	empl, err := qtx.FindByNormalizedEmail(ctx, company.ID, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrNotInvited
		}
		s.logger.Error("join company employee lookup failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if empl.HasJoined {
		return EmployeeResponse{}, employeeerrors.ErrAlreadyJoined
	}

	empl.HasJoined = true
	empl.UserID = &userUUID
	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("join company persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueue(ctx, tx, events.EmployeeJoined, *empl); err != nil {
		s.logger.Error("join company outbox persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("join company commit failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, company.ID.String())

	s.logger.Info("join company success",
		zap.String("company_id", company.ID.String()),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, companyID string, actor permission.Decision, employeeID string) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("actor_role", actor.Role.String()),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return employeeerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return err
	}
	empl, err := qtx.FindByIDAndCompany(ctx, companyUUID, employeeUUID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !actor.Role.Outranks(permission.ForEmployeeRole(empl.Role)) {
		s.logger.Warn("delete employee rejected",
			zap.String("employee_id", employeeID),
			zap.String("target_role", empl.Role.String()),
		)
		return employeeerrors.ErrCannotManage
	}

	if err := qtx.Delete(ctx, companyUUID, []uuid.UUID{empl.ID}); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.enqueue(ctx, tx, events.EmployeeRemoved, *empl); err != nil {
		s.logger.Error("delete employee outbox persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("delete employee success", zap.String("employee_id", employeeID))
	return nil
}

// DeleteAll removes every employee the actor strictly outranks and keeps the rest.
func (s *service) DeleteAll(ctx context.Context, companyID string, actor permission.Decision) (int, error) {
	s.logger.Debug("delete all employees requested",
		zap.String("company_id", companyID),
		zap.String("actor_role", actor.Role.String()),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return 0, employeeerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete all employees begin tx failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return 0, err
	}
	all, err := qtx.FindAllByCompany(ctx, companyUUID)
	if err != nil {
		return 0, mapRepositoryError(err)
	}

	var removed []Employee
	for _, e := range all {
		if actor.Role.Outranks(permission.ForEmployeeRole(e.Role)) {
			removed = append(removed, e)
		}
	}
	if len(removed) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(removed))
	for i, e := range removed {
		ids[i] = e.ID
	}
	if err := qtx.Delete(ctx, companyUUID, ids); err != nil {
		s.logger.Error("delete all employees failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}
	for _, e := range removed {
		if err := s.enqueue(ctx, tx, events.EmployeeRemoved, e); err != nil {
			s.logger.Error("delete all employees outbox persist failed", zap.Error(err))
			return 0, mapRepositoryError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete all employees commit failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("delete all employees success",
		zap.String("company_id", companyID),
		zap.Int("removed", len(removed)),
		zap.Int("kept", len(all)-len(removed)),
	)
	return len(removed), nil
}

func (s *service) ChangeRole(ctx context.Context, companyID string, actor permission.Decision, employeeID string, req ChangeRoleRequest) (EmployeeResponse, error) {
	s.logger.Debug("change employee role requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("role", req.Role),
	)

	newRole, err := permission.ParseEmployeeRole(req.Role)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}
	companyUUID, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("change employee role begin tx failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return EmployeeResponse{}, err
	}
	if newRole.RequiresDepartment() {
		if err := qtx.LockDepartments(ctx, companyUUID); err != nil {
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}
	empl, err := qtx.FindByIDAndCompany(ctx, companyUUID, employeeUUID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if empl.Role == newRole {
		return mapToResponse(*empl), nil
	}
	if !actor.Role.Outranks(permission.ForEmployeeRole(empl.Role)) {
		return EmployeeResponse{}, employeeerrors.ErrCannotManage
	}
	if !actor.Role.Outranks(permission.ForEmployeeRole(newRole)) {
		return EmployeeResponse{}, employeeerrors.ErrCannotAssignRole
	}
	if newRole.RequiresDepartment() && empl.DepartmentID == nil {
		s.logger.Warn("change employee role needs department", zap.String("employee_id", employeeID))
		return EmployeeResponse{}, employeeerrors.ErrSupervisorNeedsDepartment
	}

	empl.Role = newRole
	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("change employee role persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("change employee role commit failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("change employee role success",
		zap.String("employee_id", employeeID),
		zap.String("role", newRole.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) ChangeDepartment(ctx context.Context, companyID string, actor permission.Decision, employeeID string, req ChangeDepartmentRequest) (EmployeeResponse, error) {
	s.logger.Debug("change employee department requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	companyUUID, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	var target *uuid.UUID
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		id, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrDepartmentNotFound
		}
		target = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("change employee department begin tx failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireCompany(ctx, qtx, companyUUID); err != nil {
		return EmployeeResponse{}, err
	}
	if target != nil {
		if err := qtx.LockDepartments(ctx, companyUUID); err != nil {
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}
	empl, err := qtx.FindByIDAndCompany(ctx, companyUUID, employeeUUID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if sameDepartment(empl.DepartmentID, target) {
		return mapToResponse(*empl), nil
	}

	// Clearing the department is always allowed.
	if target != nil {
		if !actor.Role.Outranks(permission.ForEmployeeRole(empl.Role)) {
			return EmployeeResponse{}, employeeerrors.ErrCannotManage
		}
		exists, err := qtx.DepartmentExists(ctx, companyUUID, *target)
		if err != nil {
			return EmployeeResponse{}, mapRepositoryError(err)
		}
		if !exists {
			return EmployeeResponse{}, employeeerrors.ErrDepartmentNotFound
		}
	}

	empl.DepartmentID = target
	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("change employee department persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("change employee department commit failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("change employee department success", zap.String("employee_id", employeeID))
	return mapToResponse(*empl), nil
}

func (s *service) List(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}
	cacheKey := GetEmployeeListKey(companyID)

	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight agar cache miss serentak cukup satu query
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		if err := s.requireCompany(ctx, s.repo, companyUUID); err != nil {
			return nil, err
		}
		emps, err := s.repo.FindAllByCompany(ctx, companyUUID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, time.Hour).Err(); err != nil {
					s.logger.Warn("employee list cache set failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	companyUUID, employeeUUID, err := parseIDs(companyID, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	empl, err := s.repo.FindByIDAndCompany(ctx, companyUUID, employeeUUID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

// Me returns the caller's own membership together with their resolved permission.
func (s *service) Me(ctx context.Context, companyID string, identity contextutil.Identity, actor permission.Decision) (MeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return MeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	empl, err := s.repo.FindByNormalizedEmail(ctx, companyUUID, normalize.Key(identity.Email))
	if err != nil {
		return MeResponse{}, mapRepositoryError(err)
	}
	return MeResponse{
		EmployeeResponse: mapToResponse(*empl),
		Permission:       actor.Role.String(),
	}, nil
}

func (s *service) requireCompany(ctx context.Context, repo Repository, companyID uuid.UUID) error {
	exists, err := repo.CompanyExists(ctx, companyID)
	if err != nil {
		s.logger.Error("employee company lookup failed", zap.String("company_id", companyID.String()), zap.Error(err))
		return mapRepositoryError(err)
	}
	if !exists {
		return employeeerrors.ErrCompanyNotFound
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeListKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee list cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, e Employee) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event := events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: e.ID.String(),
		CompanyID:  e.CompanyID.String(),
		Email:      e.Email,
		ActorID:    contextutil.GetUserID(ctx),
		OccurredAt: time.Now().UTC(),
	}
	return kafka.Enqueue(ctx, s.outbox.WithTx(tx), rid, "employee", e.ID.String(), eventType, events.EmployeeLifecycleTopic, event)
}

func sameDepartment(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func parseIDs(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, employeeerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, employeeerrors.ErrInvalidEmployeeID
	}
	return companyUUID, employeeUUID, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        e.ID.String(),
		CompanyID: e.CompanyID.String(),
		Email:     e.Email,
		Role:      e.Role.String(),
		HasJoined: e.HasJoined,
	}
	if e.DepartmentID != nil {
		v := e.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}

func mapToListResponse(list []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(list))
	for i, e := range list {
		resp[i] = mapToResponse(e)
	}
	return resp
}
