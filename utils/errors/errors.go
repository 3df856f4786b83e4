package errors

import (
	"fmt"

	"github.com/rentkaro/rentcore/constant"
)

// CustomError is the typed error returned by application layers. The
// optional detail carries entity ids and status context so callers can
// render an actionable message.
type CustomError struct {
	errType constant.ErrorType
	detail  string
}

func (c CustomError) Error() string {
	if c.detail != "" {
		return constant.ErrorTypeMessage[c.errType] + ": " + c.detail
	}
	return constant.ErrorTypeMessage[c.errType]
}

func (c CustomError) Type() constant.ErrorType {
	return c.errType
}

func (c CustomError) ErrorCode() string {
	return constant.ErrorTypeCode[c.errType]
}

func (c CustomError) ErrorHTTPCode() int {
	return constant.ErrorTypeHTTPCode[c.errType]
}

func SetCustomError(errorType constant.ErrorType) CustomError {
	return CustomError{
		errType: errorType,
	}
}

// SetCustomErrorf attaches formatted detail to a typed error.
func SetCustomErrorf(errorType constant.ErrorType, format string, args ...any) CustomError {
	return CustomError{
		errType: errorType,
		detail:  fmt.Sprintf(format, args...),
	}
}

// TypeOf extracts the error type from err, or ErrInternal when err is not
// a CustomError.
func TypeOf(err error) constant.ErrorType {
	if ce, ok := err.(CustomError); ok {
		return ce.Type()
	}
	return constant.ErrInternal
}

// IsType reports whether err is a CustomError of the given type.
func IsType(err error, errorType constant.ErrorType) bool {
	ce, ok := err.(CustomError)
	return ok && ce.errType == errorType
}
