package pkg

import (
	"fmt"

	"github.com/pkg/errors"
)

// AppError is the error type handed to the HTTP error boundary.
//
// Err keeps the underlying cause with the stack captured where the AppError was
// built, so development responses can expose it.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

// HTTPError is the generic failure body.
type HTTPError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

func NewDomainError(code, message string, err error, status int) *AppError {
	if err == nil {
		err = errors.New(message)
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        errors.WithStack(err),
	}
}

func NewDomainErrorSimple(code, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        errors.New(message),
	}
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Stack renders the cause with its recorded stack trace.
func (e *AppError) Stack() string {
	if e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.Err)
}

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{Success: false, Message: e.Message}
}

// ToHTTPErrorWithStack is used by the error boundary in development mode.
func (e *AppError) ToHTTPErrorWithStack() HTTPError {
	return HTTPError{Success: false, Message: e.Message, Stack: e.Stack()}
}
