package leave_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/testdb"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingDispatcher keeps every committed event.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.LeaveRequestEvent
}

func (d *recordingDispatcher) Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveRequestEvent) error {
	return nil
}

func (d *recordingDispatcher) AfterCommit(ctx context.Context, evt events.LeaveRequestEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, evt)
}

func (d *recordingDispatcher) types() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.EventType)
	}
	return out
}

type engine struct {
	db        *gorm.DB
	svc       leave.Service
	ledger    balance.Ledger
	events    *recordingDispatcher
	companyID uuid.UUID
	leaveType uuid.UUID
}

var engineModels = []any{
	&employee.Employee{},
	&balance.LeaveType{},
	&balance.Balance{},
	&workflow.Rule{},
	&leave.Request{},
	&leave.ApprovalRecord{},
	&counter.Counter{},
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db, sqlDB := testdb.Open(t, engineModels...)
	return newEngineOn(t, db, sqlDB)
}

func newEngineOn(t *testing.T, db *gorm.DB, sqlDB *sql.DB) *engine {
	t.Helper()
	balanceRepo := balance.NewRepository(db)
	ledger := balance.NewLedger(balanceRepo)
	dispatcher := &recordingDispatcher{}

	e := &engine{
		db:        db,
		ledger:    ledger,
		events:    dispatcher,
		companyID: uuid.New(),
	}
	e.svc = leave.NewService(sqlDB, leave.NewRepository(db), leave.Dependencies{
		Employees:  employee.NewRepository(db),
		LeaveTypes: balanceRepo,
		Ledger:     ledger,
		Rules:      workflow.NewService(workflow.NewRepository(db), nil, 0),
		Counters:   counter.NewRepository(db),
		Dispatcher: dispatcher,
	})

	lt := balance.LeaveType{
		CompanyID:          e.companyID,
		Code:               "ANNUAL",
		Name:               "Annual Leave",
		DefaultEntitlement: 30,
		IsActive:           true,
	}
	require.NoError(t, db.Create(&lt).Error)
	e.leaveType = lt.ID
	return e
}

func (e *engine) employee(t *testing.T, role domain.Role, manager, director *uuid.UUID) domain.Actor {
	t.Helper()
	emp := employee.Employee{
		CompanyID:  e.companyID,
		ManagerID:  manager,
		DirectorID: director,
		FullName:   string(role) + " " + uuid.NewString()[:8],
		Email:      uuid.NewString() + "@example.com",
		Role:       string(role),
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(&emp).Error)
	return domain.Actor{ID: emp.ID.String(), CompanyID: e.companyID.String(), Role: role}
}

func (e *engine) grant(t *testing.T, actor domain.Actor, entitled int) balance.Key {
	t.Helper()
	return e.grantYear(t, actor, entitled, 2026)
}

func (e *engine) grantYear(t *testing.T, actor domain.Actor, entitled, year int) balance.Key {
	t.Helper()
	b := balance.Balance{
		CompanyID:   e.companyID,
		EmployeeID:  uuid.MustParse(actor.ID),
		LeaveTypeID: e.leaveType,
		Year:        year,
		Entitled:    entitled,
		Available:   entitled,
	}
	require.NoError(t, e.db.Create(&b).Error)
	return balance.Key{
		CompanyID:   e.companyID.String(),
		EmployeeID:  actor.ID,
		LeaveTypeID: e.leaveType.String(),
		Year:        year,
	}
}

func (e *engine) balance(t *testing.T, key balance.Key) balance.Balance {
	t.Helper()
	b, err := e.ledger.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, b.Consistent(), "ledger invariant broken: %+v", *b)
	return *b
}

func (e *engine) leaveRequest(start, end string) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		LeaveTypeID: e.leaveType.String(),
		StartDate:   start,
		EndDate:     end,
		Reason:      "family trip",
	}
}

func ptr(id string) *uuid.UUID {
	u := uuid.MustParse(id)
	return &u
}
