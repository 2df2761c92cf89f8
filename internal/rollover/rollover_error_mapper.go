package rollover

import (
	"errors"
	"strings"

	rollovererrors "go-leave/internal/rollover/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_rollover_runs_company_year" {
		return rollovererrors.ErrRolloverAlreadyExecuted
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unique constraint failed") && strings.Contains(errMsg, "rollover_runs") {
		return rollovererrors.ErrRolloverAlreadyExecuted
	}
	return err
}
