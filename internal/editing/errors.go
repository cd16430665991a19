package editing

import (
	"errors"
	"fmt"

	"github.com/lzjever/mbos-wbs/internal/core"
)

// ErrorCode classifies a failed workspace configuration edit.
type ErrorCode string

const (
	ErrInvalidConfiguration      ErrorCode = "invalid_configuration"
	ErrConfigurationFileDirty    ErrorCode = "configuration_file_dirty"
	ErrConfigurationFileNotFound ErrorCode = "configuration_file_not_found"
	ErrWriteFailed               ErrorCode = "write_failed"
)

type EditError struct {
	Code     ErrorCode
	Location core.Location
	Message  string
	Err      error
}

func (e *EditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EditError) Unwrap() error { return e.Err }

// CodeOf returns the edit error code carried by err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return "", false
}
