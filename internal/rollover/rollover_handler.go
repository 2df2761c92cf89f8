package rollover

import (
	"net/http"
	"strconv"
	"time"

	rollovererrors "go-leave/internal/rollover/errors"
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
	l := zap.L().Named("rollover.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rollover.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("rollover request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// fromYear reads ?year=, defaulting to the year that just ended.
func fromYear(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().UTC().Year() - 1, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, rollovererrors.ErrInvalidFromYear
	}
	return y, nil
}

func (h *Handler) Preview(c *gin.Context) {
	year, err := fromYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	resp, err := h.service.Preview(c.Request.Context(), c.GetString("company_id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Execute(c *gin.Context) {
	year, err := fromYear(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.logger.Info("http execute rollover",
		zap.String("company_id", c.GetString("company_id")),
		zap.String("actor_id", c.GetString("employee_id")),
		zap.Int("from_year", year),
	)
	resp, err := h.service.Execute(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
