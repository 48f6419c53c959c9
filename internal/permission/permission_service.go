package permission

import (
	"context"
	"errors"

	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/normalize"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Resolve(ctx context.Context, companyID, actorEmail string) (Role, error)
	NeededDepartmentID(ctx context.Context, companyID, actorEmail string) (*uuid.UUID, error)
	Authorize(ctx context.Context, companyID, actorEmail, resource, action string) (Decision, error)
}

type service struct {
	repo     Repository
	enforcer Enforcer
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("permission.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("permission.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

func (s *service) Resolve(ctx context.Context, companyID, actorEmail string) (Role, error) {
	d, err := s.resolve(ctx, companyID, actorEmail)
	return d.Role, err
}

func (s *service) NeededDepartmentID(ctx context.Context, companyID, actorEmail string) (*uuid.UUID, error) {
	d, err := s.resolve(ctx, companyID, actorEmail)
	return d.DepartmentID, err
}

func (s *service) Authorize(ctx context.Context, companyID, actorEmail, resource, action string) (Decision, error) {
	d, err := s.resolve(ctx, companyID, actorEmail)
	if err != nil {
		return d, err
	}
	if d.Role == RoleNone {
		return d, nil
	}

	allowed, err := s.enforcer.Enforce(d.Role.String(), resource, action)
	if err != nil {
		s.logger.Error("permission enforce failed",
			zap.String("company_id", companyID),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return d, apperror.Wrap(err, apperror.CodeInternalError, "permission check failed", apperror.ErrInternal.HTTPStatus)
	}
	d.Allowed = allowed

	s.logger.Debug("permission decision",
		zap.String("company_id", companyID),
		zap.String("role", d.Role.String()),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return d, nil
}

func (s *service) resolve(ctx context.Context, companyID, actorEmail string) (Decision, error) {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return Decision{Role: RoleNone}, nil
	}
	d := Decision{CompanyID: cid, Role: RoleNone}

	email := normalize.Key(actorEmail)
	if email == "" {
		return d, nil
	}

	ownerEmail, err := s.repo.FindOwnerEmail(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d, nil
		}
		s.logger.Error("permission lookup owner failed", zap.String("company_id", companyID), zap.Error(err))
		return d, apperror.Database(err)
	}
	if normalize.Key(ownerEmail) == email {
		d.Role = RoleOwner
		return d, nil
	}

	member, err := s.repo.FindJoinedMember(ctx, cid, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d, nil
		}
		s.logger.Error("permission lookup member failed", zap.String("company_id", companyID), zap.Error(err))
		return d, apperror.Database(err)
	}

	d.Role = ForEmployeeRole(member.Role)
	if member.Role.RequiresDepartment() && member.DepartmentID != nil {
		id := *member.DepartmentID
		d.DepartmentID = &id
	}
	return d, nil
}

func mapToResponse(d Decision) PermissionResponse {
	resp := PermissionResponse{
		CompanyID: d.CompanyID.String(),
		Role:      d.Role.String(),
		Level:     int(d.Role),
	}
	if d.DepartmentID != nil {
		v := d.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}
