package audit

import (
	"context"
	"time"

	"go-leave/internal/shared/contextutil"
	"go-leave/internal/sideeffect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink persists audit entries to audit_logs.
type Sink struct {
	repo Repository
}

func NewSink(repo Repository) *Sink {
	return &Sink{repo: repo}
}

func (s *Sink) Record(ctx context.Context, e sideeffect.AuditEntry) error {
	e = withRequestMetadata(ctx, e)
	return s.repo.Create(ctx, &AuditLog{
		CompanyID: parseOptional(e.CompanyID),
		ActorID:   parseOptional(e.ActorID),
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		OldValues: e.OldValues,
		NewValues: e.NewValues,
		RequestID: e.RequestID,
	})
}

// withRequestMetadata fills blank entry fields from the request context.
func withRequestMetadata(ctx context.Context, e sideeffect.AuditEntry) sideeffect.AuditEntry {
	md := contextutil.ExtractMetadata(ctx)
	if e.RequestID == "" {
		e.RequestID = md.RequestID
	}
	if e.CompanyID == "" {
		e.CompanyID = md.CompanyID
	}
	if e.ActorID == "" {
		e.ActorID = md.UserID
	}
	return e
}

func parseOptional(raw string) *uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// StdoutSink writes audit entries to the "audit" logger. Used for process
// lifecycle events that have no tenant.
type StdoutSink struct {
	logger *zap.Logger
}

func NewStdoutSink(logger ...*zap.Logger) *StdoutSink {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutSink{logger: l}
}

func (s *StdoutSink) Record(ctx context.Context, e sideeffect.AuditEntry) error {
	e = withRequestMetadata(ctx, e)
	s.logger.Info("audit event",
		zap.String("request_id", e.RequestID),
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", e.Action),
		zap.String("entity", e.Entity),
		zap.String("entity_id", e.EntityID),
		zap.String("actor_id", e.ActorID),
		zap.Any("new_values", e.NewValues),
	)
	return nil
}
