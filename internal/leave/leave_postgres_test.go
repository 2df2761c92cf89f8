package leave_test

import (
	"context"
	"sync"
	"testing"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/migration"
	"go-leave/internal/shared/connection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func newPostgresEngine(t *testing.T) *engine {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("leave"),
		postgres.WithUsername("leave"),
		postgres.WithPassword("leave"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := connection.ConnectGORMWithRetry(dsn, 3, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, migration.Up(ctx, sqlDB))

	return newEngineOn(t, db, sqlDB)
}

func TestPostgres_ConcurrentApprovalsFinalizeOnce(t *testing.T) {
	e := newPostgresEngine(t)
	ctx := context.Background()
	manager := e.employee(t, domain.RoleManager, nil, nil)
	emp := e.employee(t, domain.RoleEmployee, ptr(manager.ID), nil)
	key := e.grant(t, emp, 30)

	req, err := e.svc.CreateLeave(ctx, emp, e.leaveRequest(mon, wed))
	require.NoError(t, err)

	const callers = 2
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     []leave.DecisionResponse
		failures []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := e.svc.Decide(ctx, manager, req.ID, leave.DecisionApprove, "", "")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			wins = append(wins, res)
		}()
	}
	close(start)
	wg.Wait()

	require.Len(t, wins, 1)
	assert.True(t, wins[0].AllApproved)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], leaveerrors.ErrAlreadyDecided)

	b := e.balance(t, key)
	assert.Equal(t, 3, b.Used)
	assert.Equal(t, 0, b.Pending)
	assert.Equal(t, 27, b.Available)
}

func TestPostgres_ConcurrentReservesNeverOverdraw(t *testing.T) {
	e := newPostgresEngine(t)
	ctx := context.Background()
	manager := e.employee(t, domain.RoleManager, nil, nil)
	emp := e.employee(t, domain.RoleEmployee, ptr(manager.ID), nil)
	key := e.grant(t, emp, 3)

	days := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	start := make(chan struct{})
	for _, d := range days {
		wg.Add(1)
		go func(day string) {
			defer wg.Done()
			<-start
			_, err := e.svc.CreateLeave(ctx, emp, e.leaveRequest(day, day))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance):
				rejected++
			}
		}(d)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, rejected)

	b := e.balance(t, key)
	assert.Equal(t, 0, b.Available)
	assert.Equal(t, 3, b.Pending)
}
