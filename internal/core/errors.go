package core

import "fmt"

type ErrorCode string

const (
	ErrBadRequest      ErrorCode = "WBS_BAD_REQUEST"
	ErrNotFound        ErrorCode = "WBS_NOT_FOUND"
	ErrInvalidTarget   ErrorCode = "WBS_INVALID_TARGET"
	ErrTestMode        ErrorCode = "WBS_TEST_MODE"
	ErrEditConflict    ErrorCode = "WBS_EDIT_CONFLICT"
	ErrDeclined        ErrorCode = "WBS_DECLINED"
	ErrMigrationFailed ErrorCode = "WBS_MIGRATION_FAILED"
	ErrAnswerRequired  ErrorCode = "WBS_ANSWER_REQUIRED"
	ErrIdempotency     ErrorCode = "WBS_IDEMPOTENCY_MISMATCH"
	ErrInternal        ErrorCode = "WBS_INTERNAL"
)

// HTTPStatus returns the HTTP status code for this error code.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	case ErrBadRequest:
		return 400
	case ErrNotFound:
		return 404
	case ErrInvalidTarget, ErrEditConflict, ErrIdempotency:
		return 409
	case ErrDeclined, ErrTestMode:
		return 412
	case ErrAnswerRequired:
		return 428
	case ErrMigrationFailed:
		return 502
	default:
		return 500
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
