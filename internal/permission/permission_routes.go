package permission

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/companies/:companyId/permission", h.Mine)
}
