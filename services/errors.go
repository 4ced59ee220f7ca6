package services

import (
	"errors"
	"net/http"

	"github.com/cppla/folio/analytics"
	"github.com/cppla/folio/media"
)

var (
	ErrParamInvalid       = errors.New("invalid parameter")
	ErrUserNotFound       = errors.New("user not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrFileNotSupported   = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrMediaUnavailable   = media.ErrUnavailable
	ErrUnexpected         = errors.New("internal server error")
)

// ErrorMap classifies domain errors into HTTP statuses. Anything absent is an internal error.
var ErrorMap = map[error]int{
	ErrParamInvalid:               http.StatusBadRequest,
	analytics.ErrUsernameRequired: http.StatusBadRequest,
	ErrUserNotFound:               http.StatusNotFound,
	ErrRecordNotFound:             http.StatusNotFound,
	ErrUsernameTaken:              http.StatusConflict,
	ErrInvalidCredentials:         http.StatusUnauthorized,
	ErrUnauthorized:               http.StatusUnauthorized,
	ErrFileNotSupported:           http.StatusBadRequest,
	ErrFileTooLarge:               http.StatusRequestEntityTooLarge,
	ErrMediaUnavailable:           http.StatusServiceUnavailable,
	ErrUnexpected:                 http.StatusInternalServerError,
}

// StatusOf returns the HTTP status of err, looking through wrapping.
func StatusOf(err error) (int, bool) {
	if err == nil {
		return http.StatusOK, true
	}
	for target, status := range ErrorMap {
		if errors.Is(err, target) {
			return status, true
		}
	}
	return http.StatusInternalServerError, false
}
