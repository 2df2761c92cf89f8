package balance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceService_Provision(t *testing.T) {
	db, sqlDB := testdb.Open(t, &balance.LeaveType{}, &balance.Balance{})
	repo := balance.NewRepository(db)
	svc := balance.NewService(sqlDB, repo, nil)
	ctx := context.Background()

	companyID := uuid.New()
	maxCarry := 5
	require.NoError(t, db.Create(&balance.LeaveType{CompanyID: companyID, Code: "ANNUAL", Name: "Annual", DefaultEntitlement: 20, CarryForwardEnabled: true, MaxCarryForward: &maxCarry, IsActive: true}).Error)
	require.NoError(t, db.Create(&balance.LeaveType{CompanyID: companyID, Code: "SICK", Name: "Sick", DefaultEntitlement: 10, IsActive: true}).Error)
	require.NoError(t, db.Create(&balance.LeaveType{CompanyID: companyID, Code: "OLD", Name: "Retired", DefaultEntitlement: 3, IsActive: false}).Error)

	employeeID := uuid.NewString()

	created, err := svc.Provision(ctx, companyID.String(), employeeID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	t.Run("second run is a no-op", func(t *testing.T) {
		created, err := svc.Provision(ctx, companyID.String(), employeeID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
	})

	t.Run("balances carry type metadata", func(t *testing.T) {
		res, err := svc.GetMyBalances(ctx, companyID.String(), employeeID, 2026)
		require.NoError(t, err)
		require.Len(t, res, 2)

		byCode := map[string]balance.BalanceResponse{}
		for _, b := range res {
			byCode[b.LeaveTypeCode] = b
		}
		assert.Equal(t, 20, byCode["ANNUAL"].Available)
		assert.Equal(t, 20, byCode["ANNUAL"].Entitled)
		assert.Equal(t, 10, byCode["SICK"].Available)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		_, err := svc.Provision(ctx, companyID.String(), "nope", 2026)
		assert.Error(t, err)
	})
}

func TestBalanceService_CreateLeaveType(t *testing.T) {
	db, sqlDB := testdb.Open(t, &balance.LeaveType{}, &balance.Balance{})
	svc := balance.NewService(sqlDB, balance.NewRepository(db), nil)
	ctx := context.Background()
	companyID := uuid.NewString()

	res, err := svc.CreateLeaveType(ctx, companyID, balance.CreateLeaveTypeRequest{
		Code: " personal ", Name: "Personal", DefaultEntitlement: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "PERSONAL", res.Code)
	assert.True(t, res.IsActive)

	_, err = svc.CreateLeaveType(ctx, companyID, balance.CreateLeaveTypeRequest{Code: "Personal", Name: "Again"})
	assert.ErrorIs(t, err, balanceerrors.ErrLeaveTypeCodeExists)

	list, err := svc.ListLeaveTypes(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type fakeDirectory struct {
	ListActiveIDsFn func(ctx context.Context, companyID string) ([]string, error)
}

func (f *fakeDirectory) ListActiveIDs(ctx context.Context, companyID string) ([]string, error) {
	return f.ListActiveIDsFn(ctx, companyID)
}

func TestBalanceService_CreateLeaveTypeBackfillsActiveEmployees(t *testing.T) {
	db, sqlDB := testdb.Open(t, &balance.LeaveType{}, &balance.Balance{})
	ctx := context.Background()
	companyID := uuid.NewString()
	empA, empB := uuid.NewString(), uuid.NewString()
	year := time.Now().UTC().Year()

	dir := &fakeDirectory{
		ListActiveIDsFn: func(_ context.Context, id string) ([]string, error) {
			assert.Equal(t, companyID, id)
			return []string{empA, empB}, nil
		},
	}
	svc := balance.NewService(sqlDB, balance.NewRepository(db), dir)

	res, err := svc.CreateLeaveType(ctx, companyID, balance.CreateLeaveTypeRequest{
		Code: "PERSONAL", Name: "Personal", DefaultEntitlement: 3,
	})
	require.NoError(t, err)

	for _, employeeID := range []string{empA, empB} {
		balances, err := svc.GetMyBalances(ctx, companyID, employeeID, year)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		assert.Equal(t, res.ID, balances[0].LeaveTypeID)
		assert.Equal(t, "PERSONAL", balances[0].LeaveTypeCode)
		assert.Equal(t, 3, balances[0].Entitled)
		assert.Equal(t, 3, balances[0].Available)
	}

	t.Run("directory failure creates nothing", func(t *testing.T) {
		dir.ListActiveIDsFn = func(context.Context, string) ([]string, error) {
			return nil, errors.New("db down")
		}
		_, err := svc.CreateLeaveType(ctx, companyID, balance.CreateLeaveTypeRequest{Code: "STUDY", Name: "Study", DefaultEntitlement: 2})
		assert.Error(t, err)

		list, err := svc.ListLeaveTypes(ctx, companyID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestBalanceService_GetMyBalancesInvalidYear(t *testing.T) {
	svc := balance.NewService(nil, nil, nil)
	_, err := svc.GetMyBalances(context.Background(), uuid.NewString(), uuid.NewString(), 12)
	assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
}
