package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrCrossYearRequest = apperror.New(
		apperror.CodeValidation,
		"a request cannot span two calendar years",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeValidation,
		"the requested period contains no working days",
		http.StatusBadRequest,
	)
	ErrLeaveTypeRequired = apperror.New(
		apperror.CodeValidation,
		"leave_type_id is required",
		http.StatusBadRequest,
	)
	ErrInvalidSubstitute = apperror.New(
		apperror.CodeValidation,
		"substitute must be another active employee of this company",
		http.StatusBadRequest,
	)
	ErrRequesterNotFound = apperror.New(
		apperror.CodeForbidden,
		"requester is not an active employee of this company",
		http.StatusForbidden,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"a request already exists in an overlapping period",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrRequestNotPending = apperror.New(
		apperror.CodeInvalidState,
		"request is no longer pending",
		http.StatusConflict,
	)
	ErrCancelForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the requester or HR can cancel this request",
		http.StatusForbidden,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeNotAuthorized,
		"you are not an approver for this request",
		http.StatusForbidden,
	)
	ErrSelfApprovalForbidden = apperror.New(
		apperror.CodeSelfApproval,
		"you cannot decide on your own request",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeAlreadyDecided,
		"you have already decided on this request",
		http.StatusConflict,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeValidation,
		"a comment is required when rejecting",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeValidation,
		"decision must be APPROVE or REJECT",
		http.StatusBadRequest,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConflict,
		"the request was modified concurrently, retry",
		http.StatusConflict,
	)
)
