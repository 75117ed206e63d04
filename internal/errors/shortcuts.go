package errs

import "net/http"

// Message shown inline for any rejected or unreachable endpoint.
const ConnectionFailedMsg = "Could not connect to the API. Check the URL and make sure the game is running with the API mod enabled."

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:  err,
		Msg:  "internal server error",
		Type: TypeInternal,
		Code: http.StatusInternalServerError,
	}
}

func NewMalformedURL(err error) *AppError {
	return &AppError{
		Err:  err,
		Msg:  ConnectionFailedMsg,
		Type: TypeMalformedURL,
		Code: http.StatusBadRequest,
	}
}

func NewUnsupportedScheme(err error) *AppError {
	return &AppError{
		Err:  err,
		Msg:  ConnectionFailedMsg,
		Type: TypeUnsupportedScheme,
		Code: http.StatusBadRequest,
	}
}

func NewUnreachable(err error) *AppError {
	return &AppError{
		Err:  err,
		Msg:  ConnectionFailedMsg,
		Type: TypeUnreachable,
		Code: http.StatusBadGateway,
	}
}

func NewBadRequest(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeBadRequest,
		Code: http.StatusBadRequest,
	}
}

func NewNotFound(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeNotFound,
		Code: http.StatusNotFound,
	}
}

func NewConflict(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeConflict,
		Code: http.StatusConflict,
	}
}
