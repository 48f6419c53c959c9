package vacation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-vacation/internal/config"
	"go-vacation/internal/events"
	"go-vacation/internal/messaging/kafka"
	"go-vacation/internal/permission"
	"go-vacation/internal/shared/contextutil"
	vacationerrors "go-vacation/internal/vacation/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, companyID, userID string, req CreateVacationRequest) (VacationResponse, error)
	Delete(ctx context.Context, companyID, userID, employeeID, vacationID string) error
	ChangeStatus(ctx context.Context, companyID, actorUserID string, actor permission.Decision, vacationID string, req ChangeStatusRequest) (VacationResponse, error)
	ListForEmployee(ctx context.Context, companyID, userID, employeeID string) ([]VacationResponse, error)
	ListForReview(ctx context.Context, companyID string, actor permission.Decision, status string) ([]VacationResponse, error)
	GetByID(ctx context.Context, companyID, userID string, actor permission.Decision, vacationID string) (VacationResponse, error)
	Budget(ctx context.Context, companyID, userID, employeeID string) (BudgetResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	policy config.VacationPolicy
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, policy config.VacationPolicy, logger ...*zap.Logger) Service {
	l := zap.L().Named("vacation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vacation.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		policy: policy,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) today() time.Time {
	return DateOf(s.now().UTC())
}

func (s *service) Create(ctx context.Context, companyID, userID string, req CreateVacationRequest) (VacationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create vacation requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidCompanyID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidUserID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidEmployeeID
	}
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidDateFormat
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidDateFormat
	}

	if err := s.checkDates(start, end); err != nil {
		s.logger.Warn("create vacation rejected", zap.String("company_id", companyID), zap.Error(err))
		return VacationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create vacation begin tx failed", zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Serializes checks 6-9 and the insert for one employee.
	if err := qtx.LockEmployee(ctx, employeeUUID); err != nil {
		s.logger.Error("create vacation lock failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	company, err := s.findCompany(ctx, qtx, companyUUID)
	if err != nil {
		return VacationResponse{}, err
	}
	if _, err := s.findBoundEmployee(ctx, qtx, companyUUID, employeeUUID, userUUID); err != nil {
		return VacationResponse{}, err
	}

	existing, err := qtx.ListByEmployee(ctx, employeeUUID)
	if err != nil {
		s.logger.Error("create vacation list existing failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	if err := s.checkAgainstExisting(company, existing, start, end); err != nil {
		s.logger.Warn("create vacation rejected",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return VacationResponse{}, err
	}

	v := &Vacation{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		StartDate:  start,
		EndDate:    end,
		Days:       TotalDays(start, end),
		Status:     StatusPending,
		CreatedOn:  s.now().UTC(),
	}
	if err := qtx.Create(ctx, v); err != nil {
		s.logger.Error("create vacation persist failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, events.VacationRequested, *v, userID); err != nil {
		s.logger.Error("create vacation outbox persist failed", zap.String("vacation_id", v.ID.String()), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create vacation commit failed", zap.String("request_id", rid), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create vacation success",
		zap.String("request_id", rid),
		zap.String("vacation_id", v.ID.String()),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days", v.Days),
	)
	return mapToResponse(*v), nil
}

// checkDates runs the checks that need no stored state, in order.
func (s *service) checkDates(start, end time.Time) error {
	if end.Before(start) {
		return vacationerrors.ErrEndBeforeStart
	}

	tomorrow := s.today().AddDate(0, 0, 1)
	if start.Before(tomorrow) {
		return vacationerrors.ErrStartNotInFuture
	}

	horizon := AddMonths(tomorrow, s.policy.HorizonMonths)
	if start.After(horizon) || end.After(horizon) {
		return vacationerrors.ErrTooFarInFuture
	}
	return nil
}

func (s *service) checkAgainstExisting(company *CompanyPolicy, existing []Vacation, start, end time.Time) error {
	// A new boundary landing on an existing start or end date is a collision.
	for _, v := range existing {
		if v.StartDate.Equal(start) || v.StartDate.Equal(end) {
			return vacationerrors.ErrStartDateTaken.Withf(
				"start date %s is already taken by a %s vacation", FormatDate(v.StartDate), v.Status)
		}
		if v.EndDate.Equal(start) || v.EndDate.Equal(end) {
			return vacationerrors.ErrEndDateTaken.Withf(
				"end date %s is already taken by a %s vacation", FormatDate(v.EndDate), v.Status)
		}
	}

	total := TotalDays(start, end)
	for _, part := range SplitByYear(start, end) {
		remaining := company.MaxVacationDaysPerYear - ConsumedInYear(existing, part.Year)
		if part.Days > remaining {
			return vacationerrors.ErrNotEnoughDays.Withf(
				"not enough vacation days left: requested %d days", total)
		}
	}

	pending := 0
	for _, v := range existing {
		if v.Status == StatusPending {
			pending++
		}
	}
	if pending >= s.policy.PendingLimit(company.MaxVacationDaysPerYear) {
		return vacationerrors.ErrPendingLimit
	}

	for _, v := range existing {
		if Overlaps(start, end, v.StartDate, v.EndDate) {
			return vacationerrors.ErrOverlap.Withf(
				"vacation overlaps a %s vacation from %s to %s",
				v.Status, FormatDate(v.StartDate), FormatDate(v.EndDate))
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, companyID, userID, employeeID, vacationID string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete vacation requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("vacation_id", vacationID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return vacationerrors.ErrInvalidCompanyID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return vacationerrors.ErrInvalidUserID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return vacationerrors.ErrInvalidEmployeeID
	}
	vacationUUID, err := uuid.Parse(vacationID)
	if err != nil {
		return vacationerrors.ErrVacationNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete vacation begin tx failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := s.findCompany(ctx, qtx, companyUUID); err != nil {
		return err
	}
	if _, err := s.findBoundEmployee(ctx, qtx, companyUUID, employeeUUID, userUUID); err != nil {
		return err
	}

	v, err := qtx.FindByID(ctx, companyUUID, vacationUUID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if v.EmployeeID != employeeUUID {
		return vacationerrors.ErrVacationNotFound
	}
	if v.Status == StatusDenied {
		return vacationerrors.ErrVacationDenied
	}
	if !v.StartDate.After(s.today()) {
		return vacationerrors.ErrVacationStarted
	}

	if err := qtx.Delete(ctx, v.ID); err != nil {
		s.logger.Error("delete vacation persist failed", zap.String("vacation_id", vacationID), zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.enqueue(ctx, tx, events.VacationDeleted, *v, userID); err != nil {
		s.logger.Error("delete vacation outbox persist failed", zap.String("vacation_id", vacationID), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete vacation commit failed", zap.String("vacation_id", vacationID), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete vacation success",
		zap.String("request_id", rid),
		zap.String("vacation_id", vacationID),
	)
	return nil
}

func (s *service) ChangeStatus(ctx context.Context, companyID, actorUserID string, actor permission.Decision, vacationID string, req ChangeStatusRequest) (VacationResponse, error) {
	s.logger.Debug("change vacation status requested",
		zap.String("company_id", companyID),
		zap.String("vacation_id", vacationID),
		zap.String("target_status", req.Status),
		zap.String("actor_role", actor.Role.String()),
	)

	if !actor.Role.AtLeast(permission.RoleManager) {
		return VacationResponse{}, vacationerrors.ErrReviewForbidden
	}
	if req.Status != StatusApproved && req.Status != StatusDenied {
		return VacationResponse{}, vacationerrors.ErrInvalidStatus
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorUserID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidUserID
	}
	vacationUUID, err := uuid.Parse(vacationID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrVacationNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("change vacation status begin tx failed", zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v, err := qtx.FindByID(ctx, companyUUID, vacationUUID)
	if err != nil {
		return VacationResponse{}, mapRepositoryError(err)
	}

	if actor.DepartmentID != nil {
		owner, err := qtx.FindEmployee(ctx, companyUUID, v.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return VacationResponse{}, vacationerrors.ErrEmployeeNotFound
			}
			return VacationResponse{}, mapRepositoryError(err)
		}
		if owner.DepartmentID == nil || *owner.DepartmentID != *actor.DepartmentID {
			s.logger.Warn("change vacation status outside department",
				zap.String("vacation_id", vacationID),
				zap.String("department_id", actor.DepartmentID.String()),
			)
			return VacationResponse{}, vacationerrors.ErrOutsideDepartment
		}
	}

	if v.Status != StatusPending {
		s.logger.Warn("change vacation status invalid",
			zap.String("vacation_id", vacationID),
			zap.String("from_status", v.Status),
			zap.String("to_status", req.Status),
		)
		return VacationResponse{}, vacationerrors.ErrInvalidStatusTransition
	}

	now := s.now().UTC()
	v.Status = req.Status
	v.DecidedBy = &actorUUID
	v.DecidedAt = &now

	if err := qtx.UpdateStatus(ctx, v); err != nil {
		s.logger.Error("change vacation status persist failed", zap.String("vacation_id", vacationID), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueue(ctx, tx, events.VacationStatusChanged, *v, actorUserID); err != nil {
		s.logger.Error("change vacation status outbox persist failed", zap.String("vacation_id", vacationID), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("change vacation status commit failed", zap.String("vacation_id", vacationID), zap.Error(err))
		return VacationResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("change vacation status success",
		zap.String("vacation_id", vacationID),
		zap.String("status", v.Status),
	)
	return mapToResponse(*v), nil
}

func (s *service) ListForEmployee(ctx context.Context, companyID, userID, employeeID string) ([]VacationResponse, error) {
	companyUUID, userUUID, employeeUUID, err := parseOwnerIDs(companyID, userID, employeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findCompany(ctx, s.repo, companyUUID); err != nil {
		return nil, err
	}
	if _, err := s.findBoundEmployee(ctx, s.repo, companyUUID, employeeUUID, userUUID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByEmployee(ctx, employeeUUID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(list), nil
}

func (s *service) ListForReview(ctx context.Context, companyID string, actor permission.Decision, status string) ([]VacationResponse, error) {
	if !actor.Role.AtLeast(permission.RoleManager) {
		return nil, vacationerrors.ErrReviewForbidden
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, vacationerrors.ErrInvalidCompanyID
	}
	switch status {
	case "", StatusPending, StatusApproved, StatusDenied:
	default:
		return nil, vacationerrors.ErrInvalidStatus.Withf("unknown status filter %q", status)
	}

	if _, err := s.findCompany(ctx, s.repo, companyUUID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListForReview(ctx, companyUUID, status, actor.DepartmentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(list), nil
}

// GetByID is visible to the vacation's owner and to reviewers in scope.
// Everyone else gets not-found.
func (s *service) GetByID(ctx context.Context, companyID, userID string, actor permission.Decision, vacationID string) (VacationResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidCompanyID
	}
	vacationUUID, err := uuid.Parse(vacationID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrVacationNotFound
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return VacationResponse{}, vacationerrors.ErrInvalidUserID
	}

	v, err := s.repo.FindByID(ctx, companyUUID, vacationUUID)
	if err != nil {
		return VacationResponse{}, mapRepositoryError(err)
	}
	owner, err := s.repo.FindEmployee(ctx, companyUUID, v.EmployeeID)
	if err != nil {
		return VacationResponse{}, mapRepositoryError(err)
	}

	if owner.BoundTo(userUUID) {
		return mapToResponse(*v), nil
	}
	if !actor.Role.AtLeast(permission.RoleManager) {
		return VacationResponse{}, vacationerrors.ErrVacationNotFound
	}
	if actor.DepartmentID != nil && (owner.DepartmentID == nil || *owner.DepartmentID != *actor.DepartmentID) {
		return VacationResponse{}, vacationerrors.ErrVacationNotFound
	}
	return mapToResponse(*v), nil
}

// Budget reports consumed and remaining days for the current and next year.
func (s *service) Budget(ctx context.Context, companyID, userID, employeeID string) (BudgetResponse, error) {
	companyUUID, userUUID, employeeUUID, err := parseOwnerIDs(companyID, userID, employeeID)
	if err != nil {
		return BudgetResponse{}, err
	}
	company, err := s.findCompany(ctx, s.repo, companyUUID)
	if err != nil {
		return BudgetResponse{}, err
	}
	if _, err := s.findBoundEmployee(ctx, s.repo, companyUUID, employeeUUID, userUUID); err != nil {
		return BudgetResponse{}, err
	}

	list, err := s.repo.ListByEmployee(ctx, employeeUUID)
	if err != nil {
		return BudgetResponse{}, mapRepositoryError(err)
	}

	resp := BudgetResponse{EmployeeID: employeeID}
	for _, v := range list {
		if v.Status == StatusPending {
			resp.Pending++
		}
	}
	year := s.today().Year()
	for _, y := range []int{year, year + 1} {
		consumed := ConsumedInYear(list, y)
		resp.Years = append(resp.Years, YearBudget{
			Year:      y,
			MaxDays:   company.MaxVacationDaysPerYear,
			Consumed:  consumed,
			Remaining: company.MaxVacationDaysPerYear - consumed,
		})
	}
	return resp, nil
}

func (s *service) findCompany(ctx context.Context, repo Repository, companyID uuid.UUID) (*CompanyPolicy, error) {
	c, err := repo.FindCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vacationerrors.ErrCompanyNotFound
		}
		s.logger.Error("vacation find company failed", zap.String("company_id", companyID.String()), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return c, nil
}

// findBoundEmployee fails with not-found unless the employee is joined and linked to userID.
func (s *service) findBoundEmployee(ctx context.Context, repo Repository, companyID, employeeID, userID uuid.UUID) (*EmployeeRef, error) {
	e, err := repo.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vacationerrors.ErrEmployeeNotFound
		}
		s.logger.Error("vacation find employee failed", zap.String("employee_id", employeeID.String()), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	if !e.BoundTo(userID) {
		return nil, vacationerrors.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, v Vacation, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event := events.VacationLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		VacationID: v.ID.String(),
		EmployeeID: v.EmployeeID.String(),
		CompanyID:  v.CompanyID.String(),
		StartDate:  FormatDate(v.StartDate),
		EndDate:    FormatDate(v.EndDate),
		Days:       v.Days,
		Status:     v.Status,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}
	return kafka.Enqueue(ctx, s.outbox.WithTx(tx), rid, "vacation", v.ID.String(), eventType, events.VacationLifecycleTopic, event)
}

func parseOwnerIDs(companyID, userID, employeeID string) (uuid.UUID, uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, vacationerrors.ErrInvalidCompanyID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, vacationerrors.ErrInvalidUserID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, vacationerrors.ErrInvalidEmployeeID
	}
	return companyUUID, userUUID, employeeUUID, nil
}

func mapToResponse(v Vacation) VacationResponse {
	resp := VacationResponse{
		ID:         v.ID.String(),
		CompanyID:  v.CompanyID.String(),
		EmployeeID: v.EmployeeID.String(),
		StartDate:  FormatDate(v.StartDate),
		EndDate:    FormatDate(v.EndDate),
		Days:       v.Days,
		Status:     v.Status,
		CreatedOn:  v.CreatedOn.Format(time.RFC3339),
	}
	if v.DecidedBy != nil {
		s := v.DecidedBy.String()
		resp.DecidedBy = &s
	}
	if v.DecidedAt != nil {
		s := v.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}

func mapToListResponse(list []Vacation) []VacationResponse {
	resp := make([]VacationResponse, len(list))
	for i, v := range list {
		resp[i] = mapToResponse(v)
	}
	return resp
}
