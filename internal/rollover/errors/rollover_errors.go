package rollovererrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrRolloverAlreadyExecuted = apperror.New(
		apperror.CodeConflict,
		"Rollover for this year has already been executed",
		http.StatusConflict,
	)
	ErrInvalidFromYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a past calendar year",
		http.StatusBadRequest,
	)
)
