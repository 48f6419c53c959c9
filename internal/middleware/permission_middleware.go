package middleware

import (
	"context"

	"go-vacation/internal/permission"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorizer adalah interface lokal; permission.Service memenuhinya.
type Authorizer interface {
	Authorize(ctx context.Context, companyID, actorEmail, resource, action string) (permission.Decision, error)
}

// RequirePermission gates a route on the caller's role in the company from :companyId.
func RequirePermission(authorizer Authorizer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.Param("companyId")
		email := c.GetString("email")

		if email == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		d, err := authorizer.Authorize(c.Request.Context(), companyID, email, resource, action)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		if !d.Allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message,
				map[string]string{"required": resource + ":" + action})
			c.Abort()
			return
		}

		c.Set("company_id", companyID)
		c.Set(permission.ContextKey, d)
		c.Next()
	}
}
