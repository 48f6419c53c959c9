package employee

import (
	"go-vacation/internal/middleware"
	"go-vacation/internal/permission"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authorizer middleware.Authorizer) {
	read := middleware.RequirePermission(authorizer, permission.ResourceEmployee, permission.ActionRead)
	manage := middleware.RequirePermission(authorizer, permission.ResourceEmployee, permission.ActionManage)

	r.POST("/invites/:token/join", middleware.RateLimitByUser(0.2, 3), handler.Join)

	employees := r.Group("/companies/:companyId/employees")
	{
		employees.GET("", middleware.RateLimitByUser(3, 10), read, handler.List)
		employees.GET("/me", read, handler.Me)
		employees.GET("/:employeeId", read, handler.GetByID)

		employees.POST("", middleware.RateLimitByUser(0.5, 5), manage, handler.Add)
		employees.DELETE("", middleware.RateLimitByUser(0.05, 1), manage, handler.DeleteAll)
		employees.DELETE("/:employeeId", manage, handler.Delete)
		employees.PATCH("/:employeeId/role", manage, handler.ChangeRole)
		employees.PATCH("/:employeeId/department", manage, handler.ChangeDepartment)
	}
}
