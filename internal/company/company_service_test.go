package company_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-vacation/internal/company"
	companyerrors "go-vacation/internal/company/errors"
	"go-vacation/internal/config"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/contextutil"

	companyMock "go-vacation/internal/company/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   company.Service
	repo      *companyMock.MockRepository
	redismock redismock.ClientMock
	ownerID   uuid.UUID
}

func testPolicy() config.VacationPolicy {
	return config.VacationPolicy{HorizonMonths: 6, DefaultMaxDays: 20, MinMaxDays: 0, MaxMaxDays: 365}
}

func setupServiceTest(t *testing.T, baseURL string) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbRedis, redisMock := redismock.NewClientMock()
	repo := companyMock.NewMockRepository(ctrl)

	svc := company.NewService(db, repo, dbRedis, config.Limits{CompaniesPerOwner: 2}, testPolicy(), baseURL)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
		ownerID:   uuid.New(),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (deps *serviceDeps) owner() contextutil.Identity {
	return contextutil.Identity{UserID: deps.ownerID.String(), Email: "boss@example.com"}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success dengan default max days", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountByOwner(gomock.Any(), deps.ownerID).Return(int64(1), nil)
		deps.repo.EXPECT().ExistsByOwnerAndName(gomock.Any(), deps.ownerID, "acme").Return(false, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *company.Company) error {
				assert.Equal(t, "Acme", c.Name)
				assert.Equal(t, deps.ownerID, c.OwnerID)
				assert.Equal(t, "boss@example.com", c.OwnerEmail)
				assert.Equal(t, 20, c.MaxVacationDaysPerYear)
				assert.Len(t, c.InviteToken, 32)
				return nil
			})

		resp, err := deps.service.Create(ctx, deps.owner(), company.CreateCompanyRequest{Name: " Acme "})

		require.NoError(t, err)
		assert.Equal(t, "Acme", resp.Name)
		assert.True(t, resp.IsOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("Batas company per owner", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountByOwner(gomock.Any(), deps.ownerID).Return(int64(2), nil)

		_, err := deps.service.Create(ctx, deps.owner(), company.CreateCompanyRequest{Name: "Acme"})
		assert.ErrorIs(t, err, companyerrors.ErrCompanyLimit)
	})

	t.Run("Nama sama milik owner yang sama", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CountByOwner(gomock.Any(), deps.ownerID).Return(int64(0), nil)
		deps.repo.EXPECT().ExistsByOwnerAndName(gomock.Any(), deps.ownerID, "acme").Return(true, nil)

		_, err := deps.service.Create(ctx, deps.owner(), company.CreateCompanyRequest{Name: "ACME"})
		assert.ErrorIs(t, err, companyerrors.ErrCompanyAlreadyExists)
	})

	t.Run("Max days di luar batas", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		days := 400

		_, err := deps.service.Create(ctx, deps.owner(), company.CreateCompanyRequest{Name: "Acme", MaxVacationDaysPerYear: &days})

		assert.ErrorIs(t, err, companyerrors.ErrInvalidMaxDays)
		assert.Contains(t, err.Error(), "between 0 and 365")
	})

	t.Run("Nama kosong", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		_, err := deps.service.Create(ctx, deps.owner(), company.CreateCompanyRequest{Name: "  "})
		assert.ErrorIs(t, err, companyerrors.ErrInvalidName)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		deps.repo.EXPECT().GetByID(gomock.Any(), id).
			Return(&company.Company{ID: id, Name: "Test Company", OwnerID: deps.ownerID}, nil)

		resp, err := deps.service.GetByID(ctx, id.String(), uuid.NewString())

		require.NoError(t, err)
		assert.Equal(t, "Test Company", resp.Name)
		assert.False(t, resp.IsOwner)
	})

	t.Run("Not Found", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id.String(), "")
		assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	})
}

func TestService_ListForUser(t *testing.T) {
	deps := setupServiceTest(t, "")
	owned := company.Company{ID: uuid.New(), Name: "Mine", OwnerID: deps.ownerID}
	joined := company.Company{ID: uuid.New(), Name: "Theirs", OwnerID: uuid.New()}
	deps.repo.EXPECT().ListForUser(gomock.Any(), deps.ownerID).Return([]company.Company{owned, joined}, nil)

	resp, err := deps.service.ListForUser(context.Background(), deps.ownerID.String())

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.True(t, resp[0].IsOwner)
	assert.False(t, resp[1].IsOwner)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Ganti nama dan max days", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByID(gomock.Any(), id).
			Return(&company.Company{ID: id, Name: "Old", NormalizedName: "old", OwnerID: deps.ownerID, MaxVacationDaysPerYear: 10}, nil)
		deps.repo.EXPECT().ExistsByOwnerAndName(gomock.Any(), deps.ownerID, "new").Return(false, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *company.Company) error {
				assert.Equal(t, "New", c.Name)
				assert.Equal(t, 15, c.MaxVacationDaysPerYear)
				return nil
			})
		name, days := "New", 15

		resp, err := deps.service.Update(ctx, id.String(), company.UpdateCompanyRequest{Name: &name, MaxVacationDaysPerYear: &days})

		require.NoError(t, err)
		assert.Equal(t, 15, resp.MaxVacationDaysPerYear)
	})

	t.Run("Nama bentrok", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByID(gomock.Any(), id).
			Return(&company.Company{ID: id, Name: "Old", NormalizedName: "old", OwnerID: deps.ownerID}, nil)
		deps.repo.EXPECT().ExistsByOwnerAndName(gomock.Any(), deps.ownerID, "other").Return(true, nil)
		name := "Other"

		_, err := deps.service.Update(ctx, id.String(), company.UpdateCompanyRequest{Name: &name})
		assert.ErrorIs(t, err, companyerrors.ErrCompanyAlreadyExists)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Cascade berurutan dalam satu transaksi", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(&company.Company{ID: id}, nil)
		gomock.InOrder(
			deps.repo.EXPECT().ClearDepartmentRefs(gomock.Any(), id).Return(nil),
			deps.repo.EXPECT().DeleteDepartments(gomock.Any(), id).Return(nil),
			deps.repo.EXPECT().DeleteVacations(gomock.Any(), id).Return(nil),
			deps.repo.EXPECT().DeleteEmployees(gomock.Any(), id).Return(nil),
			deps.repo.EXPECT().Delete(gomock.Any(), id).Return(nil),
		)
		deps.redismock.ExpectDel("employees:list:"+id.String(), "departments:all:"+id.String()).SetVal(2)

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("Gagal di tengah membatalkan semua", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(&company.Company{ID: id}, nil)
		deps.repo.EXPECT().ClearDepartmentRefs(gomock.Any(), id).Return(nil)
		deps.repo.EXPECT().DeleteDepartments(gomock.Any(), id).Return(nil)
		deps.repo.EXPECT().DeleteVacations(gomock.Any(), id).Return(errors.New("deadlock detected"))

		err := deps.service.Delete(ctx, id.String())

		require.Error(t, err)
		assert.Equal(t, "database error: deadlock detected", err.Error())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("Company tidak ada", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, id.String())
		assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	})

	t.Run("Begin tx gagal dibungkus sebagai error database", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		deps.sqlMock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := deps.service.Delete(ctx, uuid.NewString())

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeDatabaseError, appErr.Code)
		assert.Equal(t, "database error: too many connections", err.Error())
	})
}

func TestService_Invite(t *testing.T) {
	ctx := context.Background()

	t.Run("Link memakai scheme dan host request", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(&company.Company{ID: id, InviteToken: "abc123"}, nil)

		invite, err := deps.service.InviteLink(ctx, id.String(), "https", "vacation.local")

		require.NoError(t, err)
		assert.Equal(t, "https://vacation.local/Company/Join/abc123", invite.Link)
	})

	t.Run("Base URL dari konfigurasi menang", func(t *testing.T) {
		deps := setupServiceTest(t, "https://staff.example.com")
		id := uuid.New()
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(&company.Company{ID: id, InviteToken: "abc123"}, nil)

		invite, err := deps.service.InviteLink(ctx, id.String(), "http", "localhost:3000")

		require.NoError(t, err)
		assert.Equal(t, "https://staff.example.com/Company/Join/abc123", invite.Link)
	})

	t.Run("Regenerate mengganti token", func(t *testing.T) {
		deps := setupServiceTest(t, "")
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByID(gomock.Any(), id).Return(&company.Company{ID: id, InviteToken: "old"}, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *company.Company) error {
				assert.NotEqual(t, "old", c.InviteToken)
				return nil
			})

		invite, err := deps.service.RegenerateInvite(ctx, id.String(), "http", "h")

		require.NoError(t, err)
		assert.NotEqual(t, "old", invite.Token)
		assert.Equal(t, "http://h/Company/Join/"+invite.Token, invite.Link)
	})
}
