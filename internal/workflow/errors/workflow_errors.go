package workflowerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrRuleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Workflow rule not found",
		http.StatusNotFound,
	)
	ErrInvalidApproverRole = apperror.New(
		apperror.CodeValidation,
		"approval_chain contains an unknown approver role",
		http.StatusBadRequest,
	)
	ErrInvalidRequesterRole = apperror.New(
		apperror.CodeValidation,
		"requester_roles contains an unknown role",
		http.StatusBadRequest,
	)
	ErrInvalidDayBounds = apperror.New(
		apperror.CodeValidation,
		"days_greater_than must be lower than days_less_than",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
)
