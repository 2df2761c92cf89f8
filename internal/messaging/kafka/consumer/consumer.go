package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// BalanceProvisioner is satisfied by balance.Service.
type BalanceProvisioner interface {
	Provision(ctx context.Context, companyID, employeeID string, year int) (int, error)
}

// LeaveEventHandler is satisfied by sideeffect.Handler.
type LeaveEventHandler interface {
	Handle(ctx context.Context, evt events.LeaveRequestEvent)
}

// errRetry leaves the message uncommitted so the group redelivers it.
type errRetry struct{ error }

func consume(ctx context.Context, reader MessageReader, log *zap.Logger, handle func(ctx context.Context, msg kafkago.Message) error) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			var retry errRetry
			if errors.As(err, &retry) {
				log.Error("handle message failed, will retry",
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				continue
			}
			log.Error("drop undecodable message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

// ConsumeEmployeeLifecycle provisions current-year balances for every new employee.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	balances BalanceProvisioner,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		if event.EventType != "" && event.EventType != events.EventEmployeeCreated {
			return nil
		}

		year := event.OccurredAt.UTC().Year()
		if event.OccurredAt.IsZero() {
			year = time.Now().UTC().Year()
		}
		created, err := balances.Provision(ctx, event.CompanyID, event.EmployeeID, year)
		if err != nil {
			return errRetry{err}
		}

		log.Info("balances provisioned from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
			zap.Int("year", year),
			zap.Int("created", created),
		)
		return nil
	})
}

// ConsumeLeaveLifecycle runs the notification, audit and document side effects
// for committed leave request transitions.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LeaveEventHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		handler.Handle(ctx, event)
		return nil
	})
}
