package vacation

import (
	"net/http"
	"strconv"
	"strings"

	"go-vacation/internal/permission"
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
	l := zap.L().Named("vacation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vacation.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("vacation request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.Param("companyId")
	userID := c.GetString("user_id")
	h.logger.Debug("http create vacation", zap.String("company_id", companyID), zap.String("user_id", userID))

	var req CreateVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create vacation validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", apperror.MapValidationError(err).Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.service.Delete(
		c.Request.Context(),
		c.Param("companyId"),
		c.GetString("user_id"),
		c.Param("employeeId"),
		c.Param("vacationId"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, nil)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", apperror.MapValidationError(err).Error())
		return
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))

	resp, err := h.service.ChangeStatus(
		c.Request.Context(),
		c.Param("companyId"),
		c.GetString("user_id"),
		permission.DecisionFrom(c),
		c.Param("vacationId"),
		req,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListForEmployee(c *gin.Context) {
	resp, err := h.service.ListForEmployee(
		c.Request.Context(),
		c.Param("companyId"),
		c.GetString("user_id"),
		c.Param("employeeId"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) ListForReview(c *gin.Context) {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	resp, err := h.service.ListForReview(c.Request.Context(), c.Param("companyId"), permission.DecisionFrom(c), status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(
		c.Request.Context(),
		c.Param("companyId"),
		c.GetString("user_id"),
		permission.DecisionFrom(c),
		c.Param("vacationId"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Budget(c *gin.Context) {
	resp, err := h.service.Budget(
		c.Request.Context(),
		c.Param("companyId"),
		c.GetString("user_id"),
		c.Param("employeeId"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, pageSize
}
