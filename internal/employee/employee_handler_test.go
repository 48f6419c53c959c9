package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-vacation/internal/employee"
	employeeerrors "go-vacation/internal/employee/errors"
	"go-vacation/internal/permission"
	"go-vacation/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

// fakeEmployeeService only implements what a test sets; other calls panic on the nil interface.
type fakeEmployeeService struct {
	employee.Service
	addFn        func(ctx context.Context, companyID string, req employee.AddEmployeeRequest) (employee.EmployeeResponse, error)
	joinFn       func(ctx context.Context, identity contextutil.Identity, token string) (employee.EmployeeResponse, error)
	listFn       func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	deleteFn     func(ctx context.Context, companyID string, actor permission.Decision, id string) error
	deleteAllFn  func(ctx context.Context, companyID string, actor permission.Decision) (int, error)
	changeRoleFn func(ctx context.Context, companyID string, actor permission.Decision, id string, req employee.ChangeRoleRequest) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) Add(ctx context.Context, companyID string, req employee.AddEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.addFn(ctx, companyID, req)
}
func (f *fakeEmployeeService) Join(ctx context.Context, identity contextutil.Identity, token string) (employee.EmployeeResponse, error) {
	return f.joinFn(ctx, identity, token)
}
func (f *fakeEmployeeService) List(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.listFn(ctx, companyID)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, companyID string, actor permission.Decision, id string) error {
	return f.deleteFn(ctx, companyID, actor, id)
}
func (f *fakeEmployeeService) DeleteAll(ctx context.Context, companyID string, actor permission.Decision) (int, error) {
	return f.deleteAllFn(ctx, companyID, actor)
}
func (f *fakeEmployeeService) ChangeRole(ctx context.Context, companyID string, actor permission.Decision, id string, req employee.ChangeRoleRequest) (employee.EmployeeResponse, error) {
	return f.changeRoleFn(ctx, companyID, actor, id, req)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withActor(role permission.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("email", "actor@example.com")
		c.Set(permission.ContextKey, permission.Decision{Role: role, Allowed: true})
		c.Next()
	}
}

func TestEmployeeHandler_Add(t *testing.T) {
	companyID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			addFn: func(ctx context.Context, cid string, req employee.AddEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, "new@example.com", req.Email)
				return employee.EmployeeResponse{ID: "e-1", Email: req.Email, Role: "Employee"}, nil
			},
		}
		r := setupRouter()
		r.POST("/companies/:companyId/employees", withActor(permission.RoleEditor), employee.NewHandler(svc).Add)

		req := httptest.NewRequest(http.MethodPost, "/companies/"+companyID+"/employees", strings.NewReader(`{"email":"new@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("email wajib diisi", func(t *testing.T) {
		r := setupRouter()
		r.POST("/companies/:companyId/employees", withActor(permission.RoleEditor), employee.NewHandler(&fakeEmployeeService{}).Add)

		req := httptest.NewRequest(http.MethodPost, "/companies/"+companyID+"/employees", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.False(t, env.Ok)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("limit tercapai", func(t *testing.T) {
		svc := &fakeEmployeeService{
			addFn: func(ctx context.Context, cid string, req employee.AddEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeLimit
			},
		}
		r := setupRouter()
		r.POST("/companies/:companyId/employees", withActor(permission.RoleEditor), employee.NewHandler(svc).Add)

		req := httptest.NewRequest(http.MethodPost, "/companies/"+companyID+"/employees", strings.NewReader(`{"email":"a@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "employee limit reached for this company", env.Error.Message)
	})
}

func TestEmployeeHandler_Join(t *testing.T) {
	svc := &fakeEmployeeService{
		joinFn: func(ctx context.Context, identity contextutil.Identity, token string) (employee.EmployeeResponse, error) {
			assert.Equal(t, "user-1", identity.UserID)
			assert.Equal(t, "actor@example.com", identity.Email)
			assert.Equal(t, "tok", token)
			return employee.EmployeeResponse{ID: "e-1", HasJoined: true}, nil
		},
	}
	r := setupRouter()
	r.POST("/invites/:token/join", withActor(permission.RoleNone), employee.NewHandler(svc).Join)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invites/tok/join", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmployeeHandler_List(t *testing.T) {
	companyID := uuid.NewString()
	svc := &fakeEmployeeService{
		listFn: func(ctx context.Context, cid string) ([]employee.EmployeeResponse, error) {
			return []employee.EmployeeResponse{
				{ID: "1", Email: "zed@example.com"},
				{ID: "2", Email: "amy@example.com"},
				{ID: "3", Email: "bob@other.org"},
			}, nil
		},
	}
	r := setupRouter()
	r.GET("/companies/:companyId/employees", withActor(permission.RoleVisitor), employee.NewHandler(svc).List)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/"+companyID+"/employees?q=example&page_size=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body.Bytes())
	var items []employee.EmployeeResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "amy@example.com", items[0].Email)
	assert.Contains(t, string(env.Meta), `"total":2`)
}

func TestEmployeeHandler_Delete(t *testing.T) {
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	t.Run("Scenario E diteruskan sebagai 403", func(t *testing.T) {
		svc := &fakeEmployeeService{
			deleteFn: func(ctx context.Context, cid string, actor permission.Decision, id string) error {
				assert.Equal(t, permission.RoleEditor, actor.Role)
				assert.Equal(t, employeeID, id)
				return employeeerrors.ErrCannotManage
			},
		}
		r := setupRouter()
		r.DELETE("/companies/:companyId/employees/:employeeId", withActor(permission.RoleEditor), employee.NewHandler(svc).Delete)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/companies/"+companyID+"/employees/"+employeeID, nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "cannot manage employee of equal or higher permission", env.Error.Message)
	})

	t.Run("delete all mengembalikan jumlah", func(t *testing.T) {
		svc := &fakeEmployeeService{
			deleteAllFn: func(ctx context.Context, cid string, actor permission.Decision) (int, error) {
				return 4, nil
			},
		}
		r := setupRouter()
		r.DELETE("/companies/:companyId/employees", withActor(permission.RoleOwner), employee.NewHandler(svc).DeleteAll)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/companies/"+companyID+"/employees", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.JSONEq(t, `{"removed":4}`, string(env.Data))
	})
}

func TestEmployeeHandler_ChangeRole(t *testing.T) {
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	t.Run("role tidak valid ditolak binding", func(t *testing.T) {
		r := setupRouter()
		r.PATCH("/companies/:companyId/employees/:employeeId/role", withActor(permission.RoleOwner), employee.NewHandler(&fakeEmployeeService{}).ChangeRole)

		req := httptest.NewRequest(http.MethodPatch, "/companies/"+companyID+"/employees/"+employeeID+"/role", strings.NewReader(`{"role":"Boss"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Scenario F diteruskan sebagai 400", func(t *testing.T) {
		svc := &fakeEmployeeService{
			changeRoleFn: func(ctx context.Context, cid string, actor permission.Decision, id string, req employee.ChangeRoleRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Supervisor", req.Role)
				return employee.EmployeeResponse{}, employeeerrors.ErrSupervisorNeedsDepartment
			},
		}
		r := setupRouter()
		r.PATCH("/companies/:companyId/employees/:employeeId/role", withActor(permission.RoleOwner), employee.NewHandler(svc).ChangeRole)

		req := httptest.NewRequest(http.MethodPatch, "/companies/"+companyID+"/employees/"+employeeID+"/role", strings.NewReader(`{"role":"Supervisor"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "cannot assign Supervisor without a department", env.Error.Message)
	})
}
