package sideeffect

import (
	"context"
	"database/sql"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Dispatcher hands a transition to the side-effect pipeline. Stage runs inside
// the caller's transaction, AfterCommit once it committed.
type Dispatcher interface {
	Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveRequestEvent) error
	AfterCommit(ctx context.Context, evt events.LeaveRequestEvent)
}

// OutboxDispatcher queues the event in the outbox table; the worker publishes
// it and the leave lifecycle consumer runs the handler.
type OutboxDispatcher struct {
	outbox kafka.OutboxRepository
}

func NewOutboxDispatcher(outbox kafka.OutboxRepository) *OutboxDispatcher {
	return &OutboxDispatcher{outbox: outbox}
}

func (d *OutboxDispatcher) Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveRequestEvent) error {
	event, err := kafka.NewOutboxEvent(evt.RequestID, "leave_request", evt.LeaveRequestID, evt.EventType, events.LeaveRequestLifecycleTopic, evt)
	if err != nil {
		return err
	}
	return d.outbox.WithTx(tx).Create(ctx, event)
}

func (d *OutboxDispatcher) AfterCommit(ctx context.Context, evt events.LeaveRequestEvent) {}

// InlineDispatcher runs the handler in-process right after commit.
type InlineDispatcher struct {
	handler *Handler
	logger  *zap.Logger
}

func NewInlineDispatcher(handler *Handler, logger ...*zap.Logger) *InlineDispatcher {
	l := zap.L().Named("sideeffect.inline")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sideeffect.inline")
	}
	return &InlineDispatcher{handler: handler, logger: l}
}

func (d *InlineDispatcher) Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveRequestEvent) error {
	return nil
}

func (d *InlineDispatcher) AfterCommit(ctx context.Context, evt events.LeaveRequestEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("side effect panic recovered",
				zap.String("leave_request_id", evt.LeaveRequestID),
				zap.Any("panic", r),
			)
		}
	}()
	d.handler.Handle(contextutil.Detach(ctx), evt)
}

// NopDispatcher drops every event.
type NopDispatcher struct{}

func (NopDispatcher) Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveRequestEvent) error {
	return nil
}

func (NopDispatcher) AfterCommit(ctx context.Context, evt events.LeaveRequestEvent) {}
