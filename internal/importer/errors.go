package importer

import "errors"

// ErrNotFound is returned by the Gateway when a looked-up entity does
// not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is a row-level failure: the row is skipped, the job
// continues, and the message is captured on the row's audit item.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validationErr builds a row-level validation error.
func validationErr(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is (or wraps) a row-level
// validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
