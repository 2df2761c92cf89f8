package balance

import (
	"errors"
	"strings"

	balanceerrors "go-leave/internal/balance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return balanceerrors.ErrLeaveTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_types_code" {
		return balanceerrors.ErrLeaveTypeCodeExists
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") && strings.Contains(errMsg, "leave_types.code") {
		return balanceerrors.ErrLeaveTypeCodeExists
	}
	return err
}
