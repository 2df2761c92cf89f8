package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"
	"go-leave/internal/sideeffect"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	CreateLeave(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (RequestResponse, error)
	CreateWFH(ctx context.Context, actor domain.Actor, req CreateWFHRequest) (RequestResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (RequestResponse, error)
	List(ctx context.Context, actor domain.Actor, kind string) ([]RequestResponse, error)
	Get(ctx context.Context, actor domain.Actor, id string) (RequestResponse, error)
	// Inbox lists pending requests that hold a pending record for the actor.
	Inbox(ctx context.Context, actor domain.Actor) ([]RequestResponse, error)
	Decide(ctx context.Context, actor domain.Actor, id, decision, comment, signature string) (DecisionResponse, error)
}

// RuleSource supplies the active workflow rules of a company.
type RuleSource interface {
	ActiveRules(ctx context.Context, companyID string) ([]workflow.Rule, error)
}

type Dependencies struct {
	Employees  employee.Repository
	LeaveTypes balance.Repository
	Ledger     balance.Ledger
	Rules      RuleSource
	Counters   counter.Repository
	Dispatcher sideeffect.Dispatcher
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	leaveTypes balance.Repository
	ledger     balance.Ledger
	rules      RuleSource
	counters   counter.Repository
	dispatcher sideeffect.Dispatcher
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = sideeffect.NopDispatcher{}
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  deps.Employees,
		leaveTypes: deps.LeaveTypes,
		ledger:     deps.Ledger,
		rules:      deps.Rules,
		counters:   deps.Counters,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

// draft is the validated input shared by leave and WFH creation.
type draft struct {
	kind         string
	leaveTypeID  string
	period       period
	reason       string
	substituteID *string
}

func (s *service) CreateLeave(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (RequestResponse, error) {
	if strings.TrimSpace(req.LeaveTypeID) == "" {
		return RequestResponse{}, leaveerrors.ErrLeaveTypeRequired
	}
	if _, err := uuid.Parse(req.LeaveTypeID); err != nil {
		return RequestResponse{}, balanceerrors.ErrLeaveTypeNotFound
	}
	p, err := resolvePeriod(req.StartDate, req.EndDate, req.Dates)
	if err != nil {
		return RequestResponse{}, err
	}
	return s.create(ctx, actor, draft{
		kind:         KindLeave,
		leaveTypeID:  req.LeaveTypeID,
		period:       p,
		reason:       strings.TrimSpace(req.Reason),
		substituteID: req.SubstituteID,
	})
}

func (s *service) CreateWFH(ctx context.Context, actor domain.Actor, req CreateWFHRequest) (RequestResponse, error) {
	p, err := resolvePeriod(req.StartDate, req.EndDate, req.Dates)
	if err != nil {
		return RequestResponse{}, err
	}
	return s.create(ctx, actor, draft{
		kind:   KindWFH,
		period: p,
		reason: strings.TrimSpace(req.Reason),
	})
}

func (s *service) create(ctx context.Context, actor domain.Actor, d draft) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create request requested",
		zap.String("request_id", rid),
		zap.String("company_id", actor.CompanyID),
		zap.String("actor_id", actor.ID),
		zap.String("kind", d.kind),
		zap.Int("days", d.period.Days),
	)

	companyUUID, err := uuid.Parse(actor.CompanyID)
	if err != nil {
		return RequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return RequestResponse{}, leaveerrors.ErrInvalidActorID
	}

	rules, err := s.rules.ActiveRules(ctx, actor.CompanyID)
	if err != nil {
		s.logger.Error("create request load rules failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create request begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empTx := s.employees.WithTx(tx)
	ledger := s.ledger.WithTx(tx)

	requester, err := empTx.FindByIDAndCompany(ctx, actor.CompanyID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, leaveerrors.ErrRequesterNotFound
		}
		return RequestResponse{}, err
	}
	if !requester.IsActive {
		return RequestResponse{}, leaveerrors.ErrRequesterNotFound
	}

	var leaveTypeUUID *uuid.UUID
	if d.kind == KindLeave {
		lt, err := s.leaveTypes.WithTx(tx).FindLeaveType(ctx, actor.CompanyID, d.leaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return RequestResponse{}, balanceerrors.ErrLeaveTypeNotFound
			}
			return RequestResponse{}, err
		}
		if !lt.IsActive {
			return RequestResponse{}, balanceerrors.ErrLeaveTypeInactive
		}
		id := lt.ID
		leaveTypeUUID = &id
	}

	substitute, err := s.validateSubstitute(ctx, empTx, actor, d.substituteID)
	if err != nil {
		return RequestResponse{}, err
	}

	if err := s.checkOverlap(ctx, qtx, actor, d.period); err != nil {
		return RequestResponse{}, err
	}

	year := d.period.Start.Year()
	var key balance.Key
	if d.kind == KindLeave {
		key = balance.Key{CompanyID: actor.CompanyID, EmployeeID: actor.ID, LeaveTypeID: leaveTypeUUID.String(), Year: year}
		bal, err := ledger.Get(ctx, key)
		if err != nil {
			return RequestResponse{}, err
		}
		if bal.Available < d.period.Days {
			s.logger.Warn("create request insufficient balance",
				zap.String("request_id", rid),
				zap.String("employee_id", actor.ID),
				zap.Int("available", bal.Available),
				zap.Int("requested", d.period.Days),
			)
			return RequestResponse{}, balanceerrors.ErrInsufficientBalance
		}
	}

	chain, err := workflow.BuildChain(ctx, workflow.NewEmployeeDirectory(empTx), workflow.ChainInput{
		Requester:   requesterSnapshot(requester),
		LeaveTypeID: d.leaveTypeID,
		Days:        d.period.Days,
		Rules:       rules,
	})
	if err != nil {
		s.logger.Error("create request build chain failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	number, err := s.nextNumber(ctx, tx, actor.CompanyID, d.kind)
	if err != nil {
		s.logger.Error("create request number failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	dates := d.period.Explicit
	if dates == nil {
		dates = []string{}
	}
	now := s.now()
	r := &Request{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		RequestNumber:  number,
		Kind:           d.kind,
		EmployeeID:     actorUUID,
		RequesterRole:  requester.Role,
		DepartmentID:   requester.DepartmentID,
		LeaveTypeID:    leaveTypeUUID,
		StartDate:      d.period.Start,
		EndDate:        d.period.End,
		Dates:          datatypes.JSONSlice[string](dates),
		TotalDays:      d.period.Days,
		BalanceYear:    year,
		Reason:         d.reason,
		SubstituteID:   substitute,
		Status:         StatusPending,
		WorkflowRuleID: chain.RuleID,
		CreatedBy:      actorUUID,
	}
	if len(chain.Levels) == 0 {
		r.Status = StatusApproved
		r.DecidedAt = &now
	}
	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("create request persist failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, mapRepositoryError(err)
	}

	records := make([]ApprovalRecord, 0, len(chain.Levels))
	for _, lvl := range chain.Levels {
		approverID, err := uuid.Parse(lvl.ApproverID)
		if err != nil {
			return RequestResponse{}, err
		}
		records = append(records, ApprovalRecord{
			ID:           uuid.New(),
			RequestID:    r.ID,
			Level:        lvl.Level,
			ApproverID:   approverID,
			ApproverRole: string(lvl.ApproverRole),
			Status:       StatusPending,
		})
	}
	if err := qtx.CreateApprovals(ctx, records); err != nil {
		s.logger.Error("create request approvals persist failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	if d.kind == KindLeave {
		if err := ledger.Reserve(ctx, key, r.TotalDays); err != nil {
			return RequestResponse{}, err
		}
		if r.Status == StatusApproved {
			if err := ledger.Finalize(ctx, key, r.TotalDays); err != nil {
				return RequestResponse{}, err
			}
		}
	}

	evt := s.newEvent(ctx, events.EventLeaveRequestCreated, r, actor)
	evt.PendingFor = pendingApprovers(records)
	if err := s.dispatcher.Stage(ctx, tx, evt); err != nil {
		s.logger.Error("create request stage event failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create request commit failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	s.dispatcher.AfterCommit(ctx, evt)

	s.logger.Info("create request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", r.ID.String()),
		zap.String("request_number", r.RequestNumber),
		zap.String("status", r.Status),
		zap.Int("levels", len(records)),
	)
	return mapToResponse(*r, records), nil
}

func (s *service) validateSubstitute(ctx context.Context, empTx employee.Repository, actor domain.Actor, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil || id.String() == actor.ID {
		return nil, leaveerrors.ErrInvalidSubstitute
	}
	sub, err := empTx.FindByIDAndCompany(ctx, actor.CompanyID, id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrInvalidSubstitute
		}
		return nil, err
	}
	if !sub.IsActive {
		return nil, leaveerrors.ErrInvalidSubstitute
	}
	return &id, nil
}

// checkOverlap rejects the draft when it shares a date with a live request of
// the same employee, leave and WFH alike.
func (s *service) checkOverlap(ctx context.Context, qtx Repository, actor domain.Actor, p period) error {
	existing, err := qtx.FindOverlapping(ctx, actor.CompanyID, actor.ID, p.Start, p.End)
	if err != nil {
		s.logger.Error("create request overlap check failed", zap.Error(err))
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	want := coveredDates(p.Start, p.End, p.Explicit)
	for _, r := range existing {
		if intersects(want, coveredDates(r.StartDate, r.EndDate, []string(r.Dates))) {
			s.logger.Warn("create request overlap detected",
				zap.String("employee_id", actor.ID),
				zap.String("existing_request_id", r.ID.String()),
			)
			return leaveerrors.ErrLeaveOverlap
		}
	}
	return nil
}

func (s *service) nextNumber(ctx context.Context, tx *sql.Tx, companyID, kind string) (string, error) {
	counterType, prefix := "leave_request", "LV"
	if kind == KindWFH {
		counterType, prefix = "wfh_request", "WFH"
	}
	n, err := s.counters.WithTx(tx).GetNextValue(ctx, companyID, counterType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

func (s *service) Cancel(ctx context.Context, actor domain.Actor, id string) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("cancel request requested",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("actor_id", actor.ID),
	)

	if _, err := uuid.Parse(actor.CompanyID); err != nil {
		return RequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return RequestResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return RequestResponse{}, leaveerrors.ErrRequestNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel request begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	r, err := s.lockRequest(ctx, qtx, actor.CompanyID, id)
	if err != nil {
		return RequestResponse{}, err
	}
	if r.EmployeeID.String() != actor.ID && !actor.Role.CanOverride() {
		return RequestResponse{}, leaveerrors.ErrCancelForbidden
	}
	if r.Status != StatusPending {
		return RequestResponse{}, leaveerrors.ErrRequestNotPending
	}

	now := s.now()
	n, err := qtx.TransitionStatus(ctx, r.ID.String(), StatusPending, StatusCancelled, map[string]any{
		"cancelled_by": actorUUID,
		"decided_at":   now,
	})
	if err != nil {
		s.logger.Error("cancel request transition failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	if n == 0 {
		return RequestResponse{}, leaveerrors.ErrRequestNotPending
	}
	r.Status = StatusCancelled
	r.CancelledBy = &actorUUID
	r.DecidedAt = &now

	if r.Kind == KindLeave {
		if err := s.ledger.WithTx(tx).Restore(ctx, ledgerKey(r), r.TotalDays, balance.BucketPending); err != nil {
			return RequestResponse{}, err
		}
	}

	records, err := qtx.ListApprovals(ctx, r.ID.String())
	if err != nil {
		return RequestResponse{}, err
	}

	evt := s.newEvent(ctx, events.EventLeaveRequestCancelled, r, actor)
	evt.PreviousStatus = StatusPending
	evt.PendingFor = pendingApprovers(records)
	if err := s.dispatcher.Stage(ctx, tx, evt); err != nil {
		s.logger.Error("cancel request stage event failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel request commit failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, err
	}
	s.dispatcher.AfterCommit(ctx, evt)

	s.logger.Info("cancel request success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", r.ID.String()),
		zap.String("cancelled_by", actor.ID),
	)
	return mapToResponse(*r, records), nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, kind string) ([]RequestResponse, error) {
	requests, err := s.repo.ListByEmployee(ctx, actor.CompanyID, actor.ID, kind)
	if err != nil {
		return nil, err
	}
	return s.withApprovals(ctx, requests)
}

func (s *service) Get(ctx context.Context, actor domain.Actor, id string) (RequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RequestResponse{}, leaveerrors.ErrRequestNotFound
	}
	r, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	records, err := s.repo.ListApprovals(ctx, r.ID.String())
	if err != nil {
		return RequestResponse{}, err
	}

	allowed := r.EmployeeID.String() == actor.ID || actor.Role.CanOverride()
	for _, rec := range records {
		if rec.ApproverID.String() == actor.ID {
			allowed = true
		}
	}
	if !allowed {
		return RequestResponse{}, leaveerrors.ErrNotAuthorized
	}
	return mapToResponse(*r, records), nil
}

func (s *service) Inbox(ctx context.Context, actor domain.Actor) ([]RequestResponse, error) {
	requests, err := s.repo.ListPendingForApprover(ctx, actor.CompanyID, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.withApprovals(ctx, requests)
}

func (s *service) withApprovals(ctx context.Context, requests []Request) ([]RequestResponse, error) {
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID.String())
	}
	records, err := s.repo.ListApprovals(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[uuid.UUID][]ApprovalRecord, len(requests))
	for _, rec := range records {
		byRequest[rec.RequestID] = append(byRequest[rec.RequestID], rec)
	}

	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, mapToResponse(r, byRequest[r.ID]))
	}
	return out, nil
}

func (s *service) lockRequest(ctx context.Context, qtx Repository, companyID, id string) (*Request, error) {
	r, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *service) newEvent(ctx context.Context, eventType string, r *Request, actor domain.Actor) events.LeaveRequestEvent {
	evt := events.LeaveRequestEvent{
		EventType:      eventType,
		RequestID:      contextutil.GetRequestID(ctx),
		LeaveRequestID: r.ID.String(),
		RequestNumber:  r.RequestNumber,
		CompanyID:      r.CompanyID.String(),
		Kind:           r.Kind,
		EmployeeID:     r.EmployeeID.String(),
		ActorID:        actor.ID,
		ActorRole:      string(actor.Role),
		Status:         r.Status,
		StartDate:      r.StartDate.Format(dateLayout),
		EndDate:        r.EndDate.Format(dateLayout),
		TotalDays:      r.TotalDays,
		OccurredAt:     s.now(),
	}
	if r.LeaveTypeID != nil {
		evt.LeaveTypeID = r.LeaveTypeID.String()
	}
	return evt
}

func requesterSnapshot(e *employee.Employee) workflow.Requester {
	return workflow.Requester{
		ID:           e.ID.String(),
		CompanyID:    e.CompanyID.String(),
		Role:         domain.Role(e.Role),
		DepartmentID: uuidToString(e.DepartmentID),
		ManagerID:    uuidToString(e.ManagerID),
		DirectorID:   uuidToString(e.DirectorID),
	}
}

func ledgerKey(r *Request) balance.Key {
	return balance.Key{
		CompanyID:   r.CompanyID.String(),
		EmployeeID:  r.EmployeeID.String(),
		LeaveTypeID: uuidToString(r.LeaveTypeID),
		Year:        r.BalanceYear,
	}
}

func pendingApprovers(records []ApprovalRecord) []string {
	var out []string
	for _, rec := range records {
		if rec.Status == StatusPending {
			out = append(out, rec.ApproverID.String())
		}
	}
	return out
}

func uuidToString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func mapToResponse(r Request, records []ApprovalRecord) RequestResponse {
	resp := RequestResponse{
		ID:            r.ID.String(),
		RequestNumber: r.RequestNumber,
		Kind:          r.Kind,
		CompanyID:     r.CompanyID.String(),
		EmployeeID:    r.EmployeeID.String(),
		StartDate:     r.StartDate.Format(dateLayout),
		EndDate:       r.EndDate.Format(dateLayout),
		Dates:         []string(r.Dates),
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		Approvals:     make([]ApprovalResponse, 0, len(records)),
	}
	if r.LeaveTypeID != nil {
		v := r.LeaveTypeID.String()
		resp.LeaveTypeID = &v
	}
	if r.SubstituteID != nil {
		v := r.SubstituteID.String()
		resp.SubstituteID = &v
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	for _, rec := range records {
		a := ApprovalResponse{
			Level:        rec.Level,
			ApproverID:   rec.ApproverID.String(),
			ApproverRole: rec.ApproverRole,
			Status:       rec.Status,
			Comments:     rec.Comments,
		}
		if rec.DecidedAt != nil {
			v := rec.DecidedAt.Format(time.RFC3339)
			a.DecidedAt = &v
		}
		resp.Approvals = append(resp.Approvals, a)
	}
	return resp
}
