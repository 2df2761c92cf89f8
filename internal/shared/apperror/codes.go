package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput        = "INVALID_INPUT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeAlreadyDecided      = "ALREADY_DECIDED"
	CodeSelfApproval        = "SELF_APPROVAL_FORBIDDEN"
	CodeNotAuthorized       = "NOT_AUTHORIZED"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeRequestInProgress   = "PROCESSING"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
