package leave

import (
	"errors"
	"strings"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapRepositoryError turns unique violations on request numbers and approval
// levels into a retryable conflict.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_leave_requests_number", "uq_approval_records_level":
			return leaveerrors.ErrConcurrentModification
		}
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") &&
		(strings.Contains(errMsg, "leave_requests.request_number") || strings.Contains(errMsg, "approval_records.level")) {
		return leaveerrors.ErrConcurrentModification
	}
	return err
}
