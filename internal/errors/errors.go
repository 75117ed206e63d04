package errs

import (
	"errors"
	"fmt"
)

const (
	TypeMalformedURL      = "malformed_url"
	TypeUnsupportedScheme = "unsupported_scheme"
	TypeUnreachable       = "unreachable"
	TypeBadRequest        = "bad_request"
	TypeNotFound          = "not_found"
	TypeConflict          = "conflict"
	TypeInternal          = "internal"
)

type AppError struct {
	Err  error
	Msg  string
	Type string
	Code int
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("type=%s, code=%d, msg=%s", e.Type, e.Code, e.Msg)
	}
	return fmt.Sprintf("type=%s, code=%d, msg=%s, err=%v", e.Type, e.Code, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, msg, typ string, code int) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: typ,
		Code: code,
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf returns the AppError type of err, or TypeInternal for foreign errors.
func TypeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Type
	}
	return TypeInternal
}
