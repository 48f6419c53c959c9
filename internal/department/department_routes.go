package department

import (
	"go-vacation/internal/middleware"
	"go-vacation/internal/permission"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, authorizer middleware.Authorizer) {
	read := middleware.RequirePermission(authorizer, permission.ResourceDepartment, permission.ActionRead)
	manage := middleware.RequirePermission(authorizer, permission.ResourceDepartment, permission.ActionManage)

	departments := r.Group("/companies/:companyId/departments")
	{
		departments.GET("", read, h.GetAll)
		departments.GET("/:departmentId", read, h.GetByID)
		departments.POST("", manage, h.Create)
		departments.PUT("/:departmentId", manage, h.Update)
		departments.DELETE("", middleware.RateLimitByUser(0.05, 1), manage, h.DeleteAll)
		departments.DELETE("/:departmentId", manage, h.Delete)
	}
}
