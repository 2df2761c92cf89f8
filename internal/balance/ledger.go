package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	balanceerrors "go-leave/internal/balance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger moves days between the balance buckets. Every move is one guarded
// UPDATE, so concurrent callers can never drive a bucket below zero.
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	Reserve(ctx context.Context, key Key, days int) error
	Finalize(ctx context.Context, key Key, days int) error
	Restore(ctx context.Context, key Key, days int, from Bucket) error
	Get(ctx context.Context, key Key) (*Balance, error)
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, logger: l}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), logger: l.logger}
}

func (l *ledger) Get(ctx context.Context, key Key) (*Balance, error) {
	b, err := l.repo.FindBalance(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}
	return b, nil
}

// Reserve moves days from available to pending.
func (l *ledger) Reserve(ctx context.Context, key Key, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}
	n, err := l.repo.Reserve(ctx, key, days)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	if _, err := l.Get(ctx, key); err != nil {
		return err
	}
	l.logger.Info("reserve rejected, insufficient balance",
		zap.String("employee_id", key.EmployeeID),
		zap.String("leave_type_id", key.LeaveTypeID),
		zap.Int("year", key.Year),
		zap.Int("days", days),
	)
	return balanceerrors.ErrInsufficientBalance
}

// Finalize moves days from pending to used.
func (l *ledger) Finalize(ctx context.Context, key Key, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}
	n, err := l.repo.Finalize(ctx, key, days)
	if err != nil {
		return err
	}
	if n != 1 {
		return l.inconsistent(ctx, "finalize", key, days, func(b *Balance) {
			b.Pending -= days
			b.Used += days
		})
	}
	return nil
}

// Restore returns days from the given bucket to available.
func (l *ledger) Restore(ctx context.Context, key Key, days int, from Bucket) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	var (
		n     int64
		err   error
		apply func(b *Balance)
	)
	switch from {
	case BucketPending:
		n, err = l.repo.RestorePending(ctx, key, days)
		apply = func(b *Balance) {
			b.Pending -= days
			b.Available += days
		}
	case BucketUsed:
		n, err = l.repo.RestoreUsed(ctx, key, days)
		apply = func(b *Balance) {
			b.Used -= days
			b.Available += days
		}
	default:
		return fmt.Errorf("restore: unknown bucket %q", from)
	}
	if err != nil {
		return err
	}
	if n != 1 {
		return l.inconsistent(ctx, "restore_"+string(from), key, days, apply)
	}
	return nil
}

// inconsistent logs the row as found next to the buckets the rejected move
// would have produced.
func (l *ledger) inconsistent(ctx context.Context, op string, key Key, days int, apply func(b *Balance)) error {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("company_id", key.CompanyID),
		zap.String("employee_id", key.EmployeeID),
		zap.String("leave_type_id", key.LeaveTypeID),
		zap.Int("year", key.Year),
		zap.Int("days", days),
	}
	if b, err := l.repo.FindBalance(ctx, key); err == nil {
		after := *b
		apply(&after)
		fields = append(fields,
			zap.Int("entitled", b.Entitled),
			zap.Int("carried_forward", b.CarriedForward),
			zap.Int("before_available", b.Available),
			zap.Int("before_pending", b.Pending),
			zap.Int("before_used", b.Used),
			zap.Int("after_available", after.Available),
			zap.Int("after_pending", after.Pending),
			zap.Int("after_used", after.Used),
		)
	} else {
		fields = append(fields, zap.NamedError("lookup_error", err))
	}
	l.logger.Error("ledger invariant violation", fields...)
	return balanceerrors.ErrLedgerInconsistency
}
