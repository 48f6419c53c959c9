package company

import (
	"go-vacation/internal/middleware"
	"go-vacation/internal/permission"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authorizer middleware.Authorizer) {
	company := r.Group("/companies")
	{
		// Rate: 1x per 10 detik, Burst: 1
		company.POST("",
			middleware.RateLimitByUser(0.1, 1),
			handler.Create,
		)

		company.GET("",
			middleware.RateLimitByUser(2, 10),
			handler.List,
		)

		company.GET("/:companyId",
			middleware.RequirePermission(authorizer, permission.ResourceCompany, permission.ActionRead),
			handler.GetByID,
		)

		company.PATCH("/:companyId",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequirePermission(authorizer, permission.ResourceCompany, permission.ActionUpdate),
			handler.Update,
		)

		// Sangat krusial: cascade ke department, vacation, dan employee
		company.DELETE("/:companyId",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RequirePermission(authorizer, permission.ResourceCompany, permission.ActionDelete),
			handler.Delete,
		)

		company.GET("/:companyId/invite",
			middleware.RequirePermission(authorizer, permission.ResourceCompany, permission.ActionInvite),
			handler.InviteLink,
		)

		company.POST("/:companyId/invite",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RequirePermission(authorizer, permission.ResourceCompany, permission.ActionInvite),
			handler.RegenerateInvite,
		)
	}
}
