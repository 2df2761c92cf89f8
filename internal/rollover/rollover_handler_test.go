package rollover_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/rollover"
	rollovererrors "go-leave/internal/rollover/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRolloverService struct {
	PreviewFn func(ctx context.Context, companyID string, fromYear int) (rollover.PlanResponse, error)
	ExecuteFn func(ctx context.Context, companyID, actorID string, fromYear int) (rollover.PlanResponse, error)
}

func (f *fakeRolloverService) Preview(ctx context.Context, companyID string, fromYear int) (rollover.PlanResponse, error) {
	return f.PreviewFn(ctx, companyID, fromYear)
}

func (f *fakeRolloverService) Execute(ctx context.Context, companyID, actorID string, fromYear int) (rollover.PlanResponse, error) {
	return f.ExecuteFn(ctx, companyID, actorID, fromYear)
}

func newRolloverContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set("company_id", "company-1")
	c.Set("employee_id", "hr-1")
	return c, w
}

func TestRolloverHandler_Preview(t *testing.T) {
	t.Run("defaults to last year", func(t *testing.T) {
		svc := &fakeRolloverService{
			PreviewFn: func(ctx context.Context, companyID string, fromYear int) (rollover.PlanResponse, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, time.Now().UTC().Year()-1, fromYear)
				return rollover.PlanResponse{FromYear: fromYear, ToYear: fromYear + 1, Created: 2}, nil
			},
		}
		c, w := newRolloverContext(http.MethodGet, "/admin/leave-rollover")

		rollover.NewHandler(svc).Preview(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"created":2`)
	})

	t.Run("bad year", func(t *testing.T) {
		c, w := newRolloverContext(http.MethodGet, "/admin/leave-rollover?year=abc")

		rollover.NewHandler(&fakeRolloverService{}).Preview(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRolloverHandler_Execute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeRolloverService{
			ExecuteFn: func(ctx context.Context, companyID, actorID string, fromYear int) (rollover.PlanResponse, error) {
				assert.Equal(t, "hr-1", actorID)
				assert.Equal(t, 2025, fromYear)
				return rollover.PlanResponse{FromYear: 2025, ToYear: 2026, Executed: true}, nil
			},
		}
		c, w := newRolloverContext(http.MethodPost, "/admin/leave-rollover?year=2025")

		rollover.NewHandler(svc).Execute(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"executed":true`)
	})

	t.Run("already executed is a conflict", func(t *testing.T) {
		svc := &fakeRolloverService{
			ExecuteFn: func(ctx context.Context, companyID, actorID string, fromYear int) (rollover.PlanResponse, error) {
				return rollover.PlanResponse{}, rollovererrors.ErrRolloverAlreadyExecuted
			},
		}
		c, w := newRolloverContext(http.MethodPost, "/admin/leave-rollover?year=2025")

		rollover.NewHandler(svc).Execute(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}
