package types

import "fmt"

// CustomError carries the HTTP status and error type rendered by the error handler
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

// NewError builds a CustomError with a formatted message
func NewError(code int, errorType, format string, args ...any) *CustomError {
	return &CustomError{Code: code, Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a CustomError around err, using its text as the message
func Wrap(code int, errorType string, err error) *CustomError {
	return &CustomError{Code: code, Type: errorType, Message: err.Error(), Err: err}
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}
