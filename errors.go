package authclient

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidTransition = "INVALID_SESSION_TRANSITION"
	textCodeBadCredentials    = "BAD_CREDENTIALS"
	textCodeCodeInvalid       = "CODE_INVALID"
	textCodeResendThrottled   = "CODE_RESEND_THROTTLED"
	textCodeBackendRejected   = "BACKEND_REJECTED"
)

// ErrInvalidTransition is returned when a session mutation is not allowed
// from the current state (e.g. Login before PreAuth).
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrBadCredentials is returned when the backend rejects a login attempt.
var ErrBadCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrCodeInvalid is returned when the backend rejects a second-factor code.
var ErrCodeInvalid = goerrors.New("code invalid", goerrors.CategoryAuth).
	WithTextCode(textCodeCodeInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrResendThrottled is returned while the client-side resend window is open.
// This is a UX throttle; the backend enforces the real rate limit.
var ErrResendThrottled = goerrors.New("a new code was requested too recently", goerrors.CategoryRateLimit).
	WithTextCode(textCodeResendThrottled).
	WithCode(goerrors.CodeConflict)

// IsThrottledError checks whether err is the client-side resend throttle.
func IsThrottledError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == textCodeResendThrottled
	}
	return false
}

// IsAuthRejection checks whether err represents the backend refusing
// credentials or a code, as opposed to a transport failure.
func IsAuthRejection(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryAuth
	}
	return false
}
