package vacation

import (
	"go-vacation/internal/middleware"
	"go-vacation/internal/permission"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authorizer middleware.Authorizer) {
	request := middleware.RequirePermission(authorizer, permission.ResourceVacation, permission.ActionRequest)
	review := middleware.RequirePermission(authorizer, permission.ResourceVacation, permission.ActionReview)

	company := r.Group("/companies/:companyId")
	{
		company.POST("/vacations", request, handler.Create)
		company.GET("/vacations/review", review, handler.ListForReview)
		company.GET("/vacations/:vacationId", request, handler.GetByID)
		company.PATCH("/vacations/:vacationId/status", review, handler.ChangeStatus)

		company.GET("/employees/:employeeId/vacations", request, handler.ListForEmployee)
		company.GET("/employees/:employeeId/vacation-budget", request, handler.Budget)
		company.DELETE("/employees/:employeeId/vacations/:vacationId", request, handler.Delete)
	}
}
