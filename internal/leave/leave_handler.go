package leave

import (
	"net/http"

	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func getActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:        c.GetString("employee_id"),
		CompanyID: c.GetString("company_id"),
		Role:      domain.Role(c.GetString("role")),
	}
}

func (h *Handler) CreateLeave(c *gin.Context) {
	actor := getActor(c)
	h.logger.Debug("http create leave request", zap.String("company_id", actor.CompanyID), zap.String("actor_id", actor.ID))
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave request validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.CreateLeave(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateWFH(c *gin.Context) {
	actor := getActor(c)
	h.logger.Debug("http create wfh request", zap.String("company_id", actor.CompanyID), zap.String("actor_id", actor.ID))
	var req CreateWFHRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create wfh request validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	resp, err := h.service.CreateWFH(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListLeave(c *gin.Context) {
	h.list(c, KindLeave)
}

func (h *Handler) ListWFH(c *gin.Context) {
	h.list(c, KindWFH)
}

func (h *Handler) list(c *gin.Context, kind string) {
	resp, err := h.service.List(c.Request.Context(), getActor(c), kind)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor := getActor(c)
	h.logger.Debug("http cancel leave request",
		zap.String("leave_request_id", c.Param("id")),
		zap.String("actor_id", actor.ID),
	)
	resp, err := h.service.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Team(c *gin.Context) {
	resp, err := h.service.Inbox(c.Request.Context(), getActor(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, DecisionApprove)
}

// Deny serves both the approver and the peer executive routes.
func (h *Handler) Deny(c *gin.Context) {
	h.decide(c, DecisionReject)
}

func (h *Handler) decide(c *gin.Context, decision string) {
	actor := getActor(c)
	requestID := c.Param("requestId")
	h.logger.Debug("http decide leave request",
		zap.String("leave_request_id", requestID),
		zap.String("actor_id", actor.ID),
		zap.String("decision", decision),
	)

	var req DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http decide validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
			return
		}
	}

	resp, err := h.service.Decide(c.Request.Context(), actor, requestID, decision, req.Comment, req.Signature)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
