package permission

import (
	"net/http"

	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("permission.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("permission.handler")
	}
	return &Handler{service: service, logger: l}
}

// Mine returns the caller's role in the company from the path.
// Non-members get role "none" rather than an error.
func (h *Handler) Mine(c *gin.Context) {
	companyID := c.Param("companyId")
	email := c.GetString("email")

	d, err := h.service.Authorize(c.Request.Context(), companyID, email, ResourceCompany, ActionRead)
	if err != nil {
		h.logger.Warn("resolve permission failed", zap.String("company_id", companyID), zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, mapToResponse(d), nil)
}
