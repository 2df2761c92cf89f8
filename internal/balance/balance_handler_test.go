package balance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceService struct {
	GetMyBalancesFn   func(ctx context.Context, companyID, employeeID string, year int) ([]balance.BalanceResponse, error)
	ProvisionFn       func(ctx context.Context, companyID, employeeID string, year int) (int, error)
	ListLeaveTypesFn  func(ctx context.Context, companyID string) ([]balance.LeaveTypeResponse, error)
	CreateLeaveTypeFn func(ctx context.Context, companyID string, req balance.CreateLeaveTypeRequest) (balance.LeaveTypeResponse, error)
}

func (f *fakeBalanceService) GetMyBalances(ctx context.Context, companyID, employeeID string, year int) ([]balance.BalanceResponse, error) {
	return f.GetMyBalancesFn(ctx, companyID, employeeID, year)
}
func (f *fakeBalanceService) Provision(ctx context.Context, companyID, employeeID string, year int) (int, error) {
	return f.ProvisionFn(ctx, companyID, employeeID, year)
}
func (f *fakeBalanceService) ListLeaveTypes(ctx context.Context, companyID string) ([]balance.LeaveTypeResponse, error) {
	return f.ListLeaveTypesFn(ctx, companyID)
}
func (f *fakeBalanceService) CreateLeaveType(ctx context.Context, companyID string, req balance.CreateLeaveTypeRequest) (balance.LeaveTypeResponse, error) {
	return f.CreateLeaveTypeFn(ctx, companyID, req)
}

func TestBalanceHandler_GetMine(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes year and actor", func(t *testing.T) {
		svc := &fakeBalanceService{
			GetMyBalancesFn: func(ctx context.Context, companyID, employeeID string, year int) ([]balance.BalanceResponse, error) {
				assert.Equal(t, "emp-1", employeeID)
				assert.Equal(t, 2025, year)
				return []balance.BalanceResponse{{LeaveTypeCode: "ANNUAL", Available: 12}}, nil
			},
		}
		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-balances?year=2025", nil)
		c.Set("employee_id", "emp-1")

		h.GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"available":12`)
	})

	t.Run("bad year", func(t *testing.T) {
		h := balance.NewHandler(&fakeBalanceService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-balances?year=abc", nil)

		h.GetMine(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBalanceHandler_CreateLeaveType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeBalanceService{
			CreateLeaveTypeFn: func(ctx context.Context, companyID string, req balance.CreateLeaveTypeRequest) (balance.LeaveTypeResponse, error) {
				return balance.LeaveTypeResponse{}, balanceerrors.ErrLeaveTypeCodeExists
			},
		}
		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/admin/leave-types", strings.NewReader(`{"code":"ANNUAL","name":"Annual","default_entitlement":20}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.CreateLeaveType(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		h := balance.NewHandler(&fakeBalanceService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/admin/leave-types", strings.NewReader(`{"code":"ANNUAL"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.CreateLeaveType(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
