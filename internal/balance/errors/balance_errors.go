package balanceerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeInsufficientBalance,
		"No leave balance exists for this leave type and year",
		http.StatusBadRequest,
	)
	ErrLedgerInconsistency = apperror.New(
		apperror.CodeInvariantViolation,
		"Leave balance ledger is inconsistent",
		http.StatusInternalServerError,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Number of days must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeInactive = apperror.New(
		apperror.CodeInvalidInput,
		"Leave type is not active",
		http.StatusBadRequest,
	)
	ErrLeaveTypeCodeExists = apperror.New(
		apperror.CodeConflict,
		"Leave type code already exists",
		http.StatusConflict,
	)
)
