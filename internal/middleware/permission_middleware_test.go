package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-vacation/internal/middleware"
	"go-vacation/internal/permission"
	"go-vacation/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthorizer struct {
	decision permission.Decision
	err      error
	gotArgs  []string
}

func (f *fakeAuthorizer) Authorize(_ context.Context, companyID, actorEmail, resource, action string) (permission.Decision, error) {
	f.gotArgs = []string{companyID, actorEmail, resource, action}
	return f.decision, f.err
}

func newPermissionRouter(auth middleware.Authorizer, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/companies/:companyId/vacations",
		func(c *gin.Context) {
			if email != "" {
				c.Set("email", email)
			}
		},
		middleware.RequirePermission(auth, "vacation", "review"),
		func(c *gin.Context) {
			d := permission.DecisionFrom(c)
			c.String(http.StatusOK, d.Role.String())
		},
	)
	return r
}

func TestRequirePermission(t *testing.T) {
	t.Run("diizinkan", func(t *testing.T) {
		auth := &fakeAuthorizer{decision: permission.Decision{Role: permission.RoleManager, Allowed: true}}
		w := httptest.NewRecorder()
		newPermissionRouter(auth, "boss@example.com").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/c1/vacations", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, permission.RoleManager.String(), w.Body.String())
		assert.Equal(t, []string{"c1", "boss@example.com", "vacation", "review"}, auth.gotArgs)
	})

	t.Run("ditolak", func(t *testing.T) {
		auth := &fakeAuthorizer{decision: permission.Decision{Role: permission.RoleVisitor}}
		w := httptest.NewRecorder()
		newPermissionRouter(auth, "staff@example.com").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/c1/vacations", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("tanpa identitas", func(t *testing.T) {
		auth := &fakeAuthorizer{}
		w := httptest.NewRecorder()
		newPermissionRouter(auth, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/c1/vacations", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, auth.gotArgs)
	})

	t.Run("error resolver", func(t *testing.T) {
		auth := &fakeAuthorizer{err: apperror.ErrInvalidInput}
		w := httptest.NewRecorder()
		newPermissionRouter(auth, "staff@example.com").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/c1/vacations", nil))

		assert.Equal(t, apperror.ErrInvalidInput.HTTPStatus, w.Code)
	})
}
