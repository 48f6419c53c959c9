package department_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-vacation/internal/config"
	"go-vacation/internal/department"
	departmenterrors "go-vacation/internal/department/errors"

	departmentMock "go-vacation/internal/department/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   department.Service
	repo      *departmentMock.MockRepository
	redismock redismock.ClientMock
	companyID uuid.UUID
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbRedis, redisMock := redismock.NewClientMock()
	repo := departmentMock.NewMockRepository(ctrl)

	svc := department.NewService(db, repo, dbRedis, config.Limits{DepartmentsPerCompany: 2})

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
		companyID: uuid.New(),
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

func (deps *serviceDeps) expectCompany() {
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().CompanyExists(gomock.Any(), deps.companyID).Return(true, nil)
}

func (deps *serviceDeps) cacheKey() string {
	return fmt.Sprintf("departments:all:%s", deps.companyID)
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.expectCompany()
		deps.repo.EXPECT().CountByCompany(gomock.Any(), deps.companyID).Return(int64(1), nil)
		deps.repo.EXPECT().ExistsByNormalizedName(gomock.Any(), deps.companyID, "finance").Return(false, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *department.Department) error {
				assert.Equal(t, "Finance", d.Name)
				assert.Equal(t, "finance", d.NormalizedName)
				assert.Equal(t, deps.companyID, d.CompanyID)
				return nil
			})
		deps.redismock.ExpectDel(deps.cacheKey()).SetVal(1)

		resp, err := deps.service.Create(ctx, deps.companyID.String(), department.CreateDepartmentRequest{Name: "  Finance "})

		require.NoError(t, err)
		assert.Equal(t, "Finance", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("company tidak ditemukan", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CompanyExists(gomock.Any(), deps.companyID).Return(false, nil)

		_, err := deps.service.Create(ctx, deps.companyID.String(), department.CreateDepartmentRequest{Name: "HR"})
		assert.ErrorIs(t, err, departmenterrors.ErrCompanyNotFound)
	})

	t.Run("batas department", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().CountByCompany(gomock.Any(), deps.companyID).Return(int64(2), nil)

		_, err := deps.service.Create(ctx, deps.companyID.String(), department.CreateDepartmentRequest{Name: "HR"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentLimit)
	})

	t.Run("nama sudah dipakai tanpa memperhatikan huruf besar", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().CountByCompany(gomock.Any(), deps.companyID).Return(int64(1), nil)
		deps.repo.EXPECT().ExistsByNormalizedName(gomock.Any(), deps.companyID, "hr").Return(true, nil)

		_, err := deps.service.Create(ctx, deps.companyID.String(), department.CreateDepartmentRequest{Name: "HR"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentExists)
	})

	t.Run("unique violation saat insert", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().CountByCompany(gomock.Any(), deps.companyID).Return(int64(1), nil)
		deps.repo.EXPECT().ExistsByNormalizedName(gomock.Any(), deps.companyID, "hr").Return(false, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_departments_company_name"})

		_, err := deps.service.Create(ctx, deps.companyID.String(), department.CreateDepartmentRequest{Name: "HR"})
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentExists)
	})

	t.Run("nama kosong", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.Create(ctx, deps.companyID.String(), department.CreateDepartmentRequest{Name: "   "})
		assert.ErrorIs(t, err, departmenterrors.ErrInvalidName)
	})
}

func TestDepartmentService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Hit Cache - Harus ambil data dari Redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectedResp := []department.DepartmentResponse{
			{ID: "dept-1", Name: "HR"},
			{ID: "dept-2", Name: "IT"},
		}
		jsonResp, _ := json.Marshal(expectedResp)
		deps.redismock.ExpectGet(deps.cacheKey()).SetVal(string(jsonResp))

		resp, err := deps.service.GetAll(ctx, deps.companyID.String())

		require.NoError(t, err)
		assert.Equal(t, expectedResp, resp)
	})

	t.Run("Miss Cache - Ambil dari DB lalu simpan 30 menit", func(t *testing.T) {
		deps := setupServiceTest(t)
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		dept := department.Department{ID: uuid.New(), CompanyID: deps.companyID, Name: "HR", CreatedAt: now, UpdatedAt: now}
		expected := []department.DepartmentResponse{{
			ID:        dept.ID.String(),
			CompanyID: deps.companyID.String(),
			Name:      "HR",
			CreatedAt: "2026-01-02T03:04:05Z",
			UpdatedAt: "2026-01-02T03:04:05Z",
		}}
		raw, _ := json.Marshal(expected)

		deps.redismock.ExpectGet(deps.cacheKey()).RedisNil()
		deps.repo.EXPECT().CompanyExists(gomock.Any(), deps.companyID).Return(true, nil)
		deps.repo.EXPECT().FindAllByCompany(gomock.Any(), deps.companyID).Return([]department.Department{dept}, nil)
		deps.redismock.ExpectSet(deps.cacheKey(), raw, 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx, deps.companyID.String())

		require.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("company tidak ada berbeda dengan list kosong", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(deps.cacheKey()).RedisNil()
		deps.repo.EXPECT().CompanyExists(gomock.Any(), deps.companyID).Return(false, nil)

		_, err := deps.service.GetAll(ctx, deps.companyID.String())
		assert.ErrorIs(t, err, departmenterrors.ErrCompanyNotFound)
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)
	id := uuid.New()
	deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), deps.companyID, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := deps.service.GetByID(context.Background(), deps.companyID.String(), id.String())
	assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), deps.companyID, id).
			Return(&department.Department{ID: id, CompanyID: deps.companyID, Name: "HR", NormalizedName: "hr"}, nil)
		deps.repo.EXPECT().ExistsByNormalizedName(gomock.Any(), deps.companyID, "people").Return(false, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(deps.cacheKey()).SetVal(1)

		resp, err := deps.service.Update(ctx, deps.companyID.String(), id.String(), department.UpdateDepartmentRequest{Name: "People"})
		require.NoError(t, err)
		assert.Equal(t, "People", resp.Name)
	})

	t.Run("ubah huruf saja tidak cek duplikat", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), deps.companyID, id).
			Return(&department.Department{ID: id, CompanyID: deps.companyID, Name: "hr", NormalizedName: "hr"}, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(deps.cacheKey()).SetVal(1)

		resp, err := deps.service.Update(ctx, deps.companyID.String(), id.String(), department.UpdateDepartmentRequest{Name: "HR"})
		require.NoError(t, err)
		assert.Equal(t, "HR", resp.Name)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("diblokir bila ada supervisor", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), deps.companyID, id).Return(&department.Department{ID: id}, nil)
		gomock.InOrder(
			deps.repo.EXPECT().LockMembership(gomock.Any(), deps.companyID).Return(nil),
			deps.repo.EXPECT().CountBoundMembers(gomock.Any(), deps.companyID, &id).Return(int64(1), nil),
		)

		err := deps.service.Delete(ctx, deps.companyID.String(), id.String())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentInUse)
	})

	t.Run("member dilepas lalu department dihapus", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.expectCompany()
		deps.repo.EXPECT().LockMembership(gomock.Any(), deps.companyID).Return(nil)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), deps.companyID, id).Return(&department.Department{ID: id}, nil)
		deps.repo.EXPECT().CountBoundMembers(gomock.Any(), deps.companyID, &id).Return(int64(0), nil)
		gomock.InOrder(
			deps.repo.EXPECT().ClearMembers(gomock.Any(), deps.companyID, &id).Return(nil),
			deps.repo.EXPECT().Delete(gomock.Any(), deps.companyID, id).Return(nil),
		)
		deps.redismock.ExpectDel(deps.cacheKey()).SetVal(1)

		err := deps.service.Delete(ctx, deps.companyID.String(), id.String())
		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("error database dibungkus", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().LockMembership(gomock.Any(), deps.companyID).Return(nil)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), deps.companyID, id).Return(&department.Department{ID: id}, nil)
		deps.repo.EXPECT().CountBoundMembers(gomock.Any(), deps.companyID, &id).Return(int64(0), errors.New("timeout"))

		err := deps.service.Delete(ctx, deps.companyID.String(), id.String())
		require.Error(t, err)
		assert.Equal(t, "database error: timeout", err.Error())
	})

	t.Run("lock gagal menghentikan penghapusan", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().LockMembership(gomock.Any(), deps.companyID).Return(errors.New("lock timeout"))

		err := deps.service.Delete(ctx, deps.companyID.String(), id.String())
		require.Error(t, err)
		assert.Equal(t, "database error: lock timeout", err.Error())
	})

	t.Run("begin tx gagal dibungkus sebagai error database", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := deps.service.Delete(ctx, deps.companyID.String(), uuid.NewString())
		require.Error(t, err)
		assert.Equal(t, "database error: too many connections", err.Error())
	})
}

func TestDepartmentService_DeleteAll(t *testing.T) {
	ctx := context.Background()

	t.Run("diblokir bila ada supervisor di department mana pun", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.expectCompany()
		deps.repo.EXPECT().LockMembership(gomock.Any(), deps.companyID).Return(nil)
		deps.repo.EXPECT().CountBoundMembers(gomock.Any(), deps.companyID, (*uuid.UUID)(nil)).Return(int64(2), nil)

		_, err := deps.service.DeleteAll(ctx, deps.companyID.String())
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentInUse)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.expectCompany()
		deps.repo.EXPECT().LockMembership(gomock.Any(), deps.companyID).Return(nil)
		deps.repo.EXPECT().CountBoundMembers(gomock.Any(), deps.companyID, (*uuid.UUID)(nil)).Return(int64(0), nil)
		deps.repo.EXPECT().ClearMembers(gomock.Any(), deps.companyID, (*uuid.UUID)(nil)).Return(nil)
		deps.repo.EXPECT().DeleteAll(gomock.Any(), deps.companyID).Return(int64(4), nil)
		deps.redismock.ExpectDel(deps.cacheKey()).SetVal(1)

		removed, err := deps.service.DeleteAll(ctx, deps.companyID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(4), removed)
	})
}
