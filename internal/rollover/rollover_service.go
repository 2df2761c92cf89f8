// Package rollover carries unused leave into the next year's balances.
package rollover

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/balance"
	rollovererrors "go-leave/internal/rollover/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/sideeffect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rollover_service.go -destination=mock/rollover_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, companyID string, fromYear int) (PlanResponse, error)
	Execute(ctx context.Context, companyID, actorID string, fromYear int) (PlanResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	balances  balance.Repository
	employees balance.EmployeeDirectory
	audit     sideeffect.AuditSink
	logger    *zap.Logger
	now       func() time.Time
}

// NewService builds the rollover service. audit may be nil.
func NewService(db *sql.DB, repo Repository, balances balance.Repository, employees balance.EmployeeDirectory, audit sideeffect.AuditSink, logger ...*zap.Logger) Service {
	l := zap.L().Named("rollover.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rollover.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		balances:  balances,
		employees: employees,
		audit:     audit,
		logger:    l,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) validYear(fromYear int) error {
	if fromYear < 1970 || fromYear > s.now().Year() {
		return rollovererrors.ErrInvalidFromYear
	}
	return nil
}

func (s *service) Preview(ctx context.Context, companyID string, fromYear int) (PlanResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PlanResponse{}, apperror.InvalidField("company_id")
	}
	if err := s.validYear(fromYear); err != nil {
		return PlanResponse{}, err
	}

	employeeIDs, err := s.employees.ListActiveIDs(ctx, companyID)
	if err != nil {
		return PlanResponse{}, err
	}
	items, err := s.plan(ctx, s.balances, companyID, employeeIDs, fromYear)
	if err != nil {
		s.logger.Error("rollover preview failed",
			zap.String("company_id", companyID),
			zap.Int("from_year", fromYear),
			zap.Error(err),
		)
		return PlanResponse{}, err
	}

	resp := PlanResponse{FromYear: fromYear, ToYear: fromYear + 1, Items: items}
	run, err := s.repo.FindRun(ctx, companyID, fromYear)
	if err != nil {
		return PlanResponse{}, err
	}
	if run != nil {
		executedAt := run.ExecutedAt.UTC().Format(time.RFC3339)
		resp.Executed = true
		resp.ExecutedAt = &executedAt
		resp.Created = run.CreatedCount
		resp.Skipped = run.SkippedCount
		return resp, nil
	}
	for _, it := range items {
		if it.Exists {
			resp.Skipped++
		} else {
			resp.Created++
		}
	}
	return resp, nil
}

func (s *service) Execute(ctx context.Context, companyID, actorID string, fromYear int) (PlanResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PlanResponse{}, apperror.InvalidField("company_id")
	}
	if err := s.validYear(fromYear); err != nil {
		return PlanResponse{}, err
	}
	employeeIDs, err := s.employees.ListActiveIDs(ctx, companyID)
	if err != nil {
		s.logger.Error("rollover list employees failed", zap.String("request_id", rid), zap.Error(err))
		return PlanResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("rollover begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PlanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	btx := s.balances.WithTx(tx)

	existing, err := qtx.FindRun(ctx, companyID, fromYear)
	if err != nil {
		return PlanResponse{}, err
	}
	if existing != nil {
		s.logger.Info("rollover already executed",
			zap.String("request_id", rid),
			zap.String("company_id", companyID),
			zap.Int("from_year", fromYear),
		)
		return PlanResponse{}, rollovererrors.ErrRolloverAlreadyExecuted
	}

	items, err := s.plan(ctx, btx, companyID, employeeIDs, fromYear)
	if err != nil {
		return PlanResponse{}, err
	}

	resp := PlanResponse{FromYear: fromYear, ToYear: fromYear + 1, Executed: true}
	for i, it := range items {
		if it.Exists {
			resp.Skipped++
			continue
		}
		employeeUUID, _ := uuid.Parse(it.EmployeeID)
		leaveTypeUUID, _ := uuid.Parse(it.LeaveTypeID)
		ok, err := btx.CreateIfMissing(ctx, &balance.Balance{
			CompanyID:      companyUUID,
			EmployeeID:     employeeUUID,
			LeaveTypeID:    leaveTypeUUID,
			Year:           resp.ToYear,
			Entitled:       it.Entitled,
			Available:      it.Available,
			CarriedForward: it.CarriedForward,
		})
		if err != nil {
			s.logger.Error("rollover balance persist failed",
				zap.String("request_id", rid),
				zap.String("employee_id", it.EmployeeID),
				zap.String("leave_type_id", it.LeaveTypeID),
				zap.Error(err),
			)
			return PlanResponse{}, err
		}
		if !ok {
			items[i].Exists = true
			resp.Skipped++
			continue
		}
		resp.Created++
	}
	resp.Items = items

	run := &Run{
		CompanyID:    companyUUID,
		FromYear:     fromYear,
		ToYear:       resp.ToYear,
		CreatedCount: resp.Created,
		SkippedCount: resp.Skipped,
		ExecutedAt:   s.now(),
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		run.ExecutedBy = &actorUUID
	}
	if err := qtx.CreateRun(ctx, run); err != nil {
		return PlanResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("rollover commit failed", zap.String("request_id", rid), zap.Error(err))
		return PlanResponse{}, mapRepositoryError(err)
	}

	executedAt := run.ExecutedAt.Format(time.RFC3339)
	resp.ExecutedAt = &executedAt

	s.logger.Info("rollover executed",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.Int("from_year", fromYear),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	)
	s.recordAudit(ctx, companyID, actorID, run)
	return resp, nil
}

func (s *service) recordAudit(ctx context.Context, companyID, actorID string, run *Run) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, sideeffect.AuditEntry{
		CompanyID: companyID,
		ActorID:   actorID,
		Action:    "leave_rollover.executed",
		Entity:    "rollover_run",
		EntityID:  run.ID.String(),
		NewValues: map[string]any{
			"from_year": run.FromYear,
			"to_year":   run.ToYear,
			"created":   run.CreatedCount,
			"skipped":   run.SkippedCount,
		},
	})
	if err != nil {
		s.logger.Warn("rollover audit failed", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// plan covers every active employee and active leave type. A pair without a
// fromYear row starts the new year at the default entitlement with nothing carried.
func (s *service) plan(ctx context.Context, repo balance.Repository, companyID string, employeeIDs []string, fromYear int) ([]PlanItem, error) {
	types, err := repo.ListLeaveTypes(ctx, companyID, true)
	if err != nil {
		return nil, err
	}
	prior, err := repo.ListByYear(ctx, companyID, fromYear)
	if err != nil {
		return nil, err
	}
	next, err := repo.ListByYear(ctx, companyID, fromYear+1)
	if err != nil {
		return nil, err
	}

	type pair struct{ employee, leaveType uuid.UUID }
	priorAvailable := make(map[pair]int, len(prior))
	for _, b := range prior {
		priorAvailable[pair{b.EmployeeID, b.LeaveTypeID}] = b.Available
	}
	existing := make(map[pair]bool, len(next))
	for _, b := range next {
		existing[pair{b.EmployeeID, b.LeaveTypeID}] = true
	}

	items := make([]PlanItem, 0, len(employeeIDs)*len(types))
	for _, id := range employeeIDs {
		employeeUUID, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		for _, t := range types {
			key := pair{employeeUUID, t.ID}
			available := priorAvailable[key]
			carried := carryForward(t, available)
			items = append(items, PlanItem{
				EmployeeID:     employeeUUID.String(),
				LeaveTypeID:    t.ID.String(),
				LeaveTypeCode:  t.Code,
				PriorAvailable: available,
				CarriedForward: carried,
				Entitled:       t.DefaultEntitlement,
				Available:      t.DefaultEntitlement + carried,
				Exists:         existing[key],
			})
		}
	}
	return items, nil
}

func carryForward(t balance.LeaveType, available int) int {
	if !t.CarryForwardEnabled || available <= 0 {
		return 0
	}
	if t.MaxCarryForward != nil && available > *t.MaxCarryForward {
		return *t.MaxCarryForward
	}
	return available
}
