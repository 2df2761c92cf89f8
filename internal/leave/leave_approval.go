package leave

import (
	"context"
	"errors"
	"strings"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Decide records one approver's decision and moves the request and the ledger
// accordingly. The request row stays locked until commit, so the check for a
// fully approved chain is serialized per request. Levels may be decided in any
// order.
func (s *service) Decide(ctx context.Context, actor domain.Actor, id, decision, comment, signature string) (DecisionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide requested",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("decision", decision),
	)

	decision = strings.ToUpper(strings.TrimSpace(decision))
	comment = strings.TrimSpace(comment)
	if decision != DecisionApprove && decision != DecisionReject {
		return DecisionResponse{}, leaveerrors.ErrInvalidDecision
	}
	if decision == DecisionReject && comment == "" {
		return DecisionResponse{}, leaveerrors.ErrCommentRequired
	}
	if _, err := uuid.Parse(actor.CompanyID); err != nil {
		return DecisionResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return DecisionResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return DecisionResponse{}, leaveerrors.ErrRequestNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empTx := s.employees.WithTx(tx)

	r, err := s.lockRequest(ctx, qtx, actor.CompanyID, id)
	if err != nil {
		return DecisionResponse{}, err
	}
	if r.EmployeeID == actorUUID {
		s.logger.Warn("decide self approval blocked",
			zap.String("request_id", rid),
			zap.String("leave_request_id", id),
			zap.String("actor_id", actor.ID),
		)
		return DecisionResponse{}, leaveerrors.ErrSelfApprovalForbidden
	}

	records, err := qtx.ListApprovals(ctx, r.ID.String())
	if err != nil {
		return DecisionResponse{}, err
	}
	mine, decided := actorRecords(records, actorUUID)

	previous := r.Status
	var record *ApprovalRecord

	switch r.Status {
	case StatusPending:
		switch {
		case mine != nil:
			record = mine
		case decided:
			return DecisionResponse{}, leaveerrors.ErrAlreadyDecided
		default:
			ok, err := s.isPeerExecutive(ctx, empTx, actor, r)
			if err != nil {
				return DecisionResponse{}, err
			}
			if !ok {
				return DecisionResponse{}, leaveerrors.ErrNotAuthorized
			}
			if record, err = s.lateBind(ctx, qtx, r, actorUUID); err != nil {
				return DecisionResponse{}, err
			}
		}

	case StatusApproved:
		if decided {
			return DecisionResponse{}, leaveerrors.ErrAlreadyDecided
		}
		// An approved executive request can still be reversed by a peer executive.
		if decision != DecisionReject {
			return DecisionResponse{}, leaveerrors.ErrRequestNotPending
		}
		ok, err := s.isPeerExecutive(ctx, empTx, actor, r)
		if err != nil {
			return DecisionResponse{}, err
		}
		if !ok {
			return DecisionResponse{}, leaveerrors.ErrRequestNotPending
		}
		if record, err = s.lateBind(ctx, qtx, r, actorUUID); err != nil {
			return DecisionResponse{}, err
		}

	default:
		if decided {
			return DecisionResponse{}, leaveerrors.ErrAlreadyDecided
		}
		return DecisionResponse{}, leaveerrors.ErrRequestNotPending
	}

	now := s.now()
	recordStatus := StatusApproved
	if decision == DecisionReject {
		recordStatus = StatusRejected
	}
	n, err := qtx.DecideApproval(ctx, record.ID.String(), recordStatus, optional(comment), optional(signature), now)
	if err != nil {
		s.logger.Error("decide record update failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResponse{}, err
	}
	if n == 0 {
		return DecisionResponse{}, leaveerrors.ErrAlreadyDecided
	}

	ledger := s.ledger.WithTx(tx)
	eventType := events.EventLeaveApprovalRecorded
	allApproved := false

	if decision == DecisionReject {
		n, err := qtx.TransitionStatus(ctx, r.ID.String(), previous, StatusRejected, map[string]any{"decided_at": now})
		if err != nil {
			return DecisionResponse{}, err
		}
		if n == 0 {
			return DecisionResponse{}, leaveerrors.ErrConcurrentModification
		}
		if r.Kind == KindLeave {
			from := balance.BucketPending
			if previous == StatusApproved {
				from = balance.BucketUsed
			}
			if err := ledger.Restore(ctx, ledgerKey(r), r.TotalDays, from); err != nil {
				return DecisionResponse{}, err
			}
		}
		r.Status = StatusRejected
		r.DecidedAt = &now
		eventType = events.EventLeaveRequestRejected
	} else {
		after, err := qtx.ListApprovals(ctx, r.ID.String())
		if err != nil {
			return DecisionResponse{}, err
		}
		allApproved = everyApproved(after)
		if allApproved {
			n, err := qtx.TransitionStatus(ctx, r.ID.String(), StatusPending, StatusApproved, map[string]any{"decided_at": now})
			if err != nil {
				return DecisionResponse{}, err
			}
			if n == 0 {
				return DecisionResponse{}, leaveerrors.ErrConcurrentModification
			}
			if r.Kind == KindLeave {
				if err := ledger.Finalize(ctx, ledgerKey(r), r.TotalDays); err != nil {
					return DecisionResponse{}, err
				}
			}
			r.Status = StatusApproved
			r.DecidedAt = &now
			eventType = events.EventLeaveRequestApproved
		}
	}

	evt := s.newEvent(ctx, eventType, r, actor)
	evt.PreviousStatus = previous
	evt.Decision = decision
	evt.Level = record.Level
	evt.Comments = comment
	evt.Signature = signature
	if err := s.dispatcher.Stage(ctx, tx, evt); err != nil {
		s.logger.Error("decide stage event failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide commit failed", zap.String("request_id", rid), zap.Error(err))
		return DecisionResponse{}, err
	}
	s.dispatcher.AfterCommit(ctx, evt)

	s.logger.Info("decide success",
		zap.String("request_id", rid),
		zap.String("leave_request_id", r.ID.String()),
		zap.String("decision", decision),
		zap.Int("level", record.Level),
		zap.String("status", r.Status),
	)
	return DecisionResponse{RequestID: r.ID.String(), Status: r.Status, AllApproved: allApproved}, nil
}

// actorRecords returns the actor's lowest pending record and whether the actor
// already decided any level.
func actorRecords(records []ApprovalRecord, actorID uuid.UUID) (*ApprovalRecord, bool) {
	var mine *ApprovalRecord
	decided := false
	for i := range records {
		rec := &records[i]
		if rec.ApproverID != actorID {
			continue
		}
		if rec.Status != StatusPending {
			decided = true
			continue
		}
		if mine == nil || rec.Level < mine.Level {
			mine = rec
		}
	}
	return mine, decided
}

// isPeerExecutive reports whether actor is an active executive of the
// company deciding on another executive's request.
func (s *service) isPeerExecutive(ctx context.Context, empTx employee.Repository, actor domain.Actor, r *Request) (bool, error) {
	if domain.Role(r.RequesterRole) != domain.RoleExecutive || actor.Role != domain.RoleExecutive {
		return false, nil
	}
	e, err := empTx.FindByIDAndCompany(ctx, actor.CompanyID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !e.IsActive {
		return false, nil
	}
	return domain.Role(e.Role) == domain.RoleExecutive, nil
}

// lateBind appends a pending record for a peer executive after the last level.
func (s *service) lateBind(ctx context.Context, qtx Repository, r *Request, actorID uuid.UUID) (*ApprovalRecord, error) {
	maxLevel, err := qtx.MaxLevel(ctx, r.ID.String())
	if err != nil {
		return nil, err
	}
	rec := ApprovalRecord{
		ID:           uuid.New(),
		RequestID:    r.ID,
		Level:        maxLevel + 1,
		ApproverID:   actorID,
		ApproverRole: string(workflow.LateBoundExecutive),
		Status:       StatusPending,
	}
	if err := qtx.CreateApprovals(ctx, []ApprovalRecord{rec}); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.logger.Info("late bound executive record created",
		zap.String("leave_request_id", r.ID.String()),
		zap.String("approver_id", actorID.String()),
		zap.Int("level", rec.Level),
	)
	return &rec, nil
}

func everyApproved(records []ApprovalRecord) bool {
	for _, rec := range records {
		if rec.Status != StatusApproved {
			return false
		}
	}
	return true
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
