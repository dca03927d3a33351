package authclient

import (
	"context"
	"fmt"
	"time"
)

// Role names issued by the store backend inside token claims.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore persists the bearer token and the auth marker across restarts.
// All operations are synchronous; implementations never hit the network.
type TokenStore interface {
	// ReadToken returns the stored bearer token. A missing or malformed slot
	// reads as absent, never as an error.
	ReadToken() (string, bool)
	WriteToken(token string) error
	// ReadAuthMarker reports whether the "authenticated" marker slot is set.
	// Guards use it to short-circuit checks without decoding a token.
	ReadAuthMarker() bool
	WriteAuthMarker() error
	// Clear removes both the token slot and the auth marker.
	Clear() error
}

// CredentialGateway performs the network calls against the store's credential
// endpoints. Calls are independent, bounded by the configured timeout, and
// never retried; failures surface to the caller.
type CredentialGateway interface {
	// HasAmbientCredential reports whether a silent reclaim is worth
	// attempting, i.e. the backend recognizes the credential cookie.
	HasAmbientCredential(ctx context.Context) bool
	// ReclaimToken mints a fresh bearer token from the ambient credential.
	ReclaimToken(ctx context.Context) (string, error)
	// Validate asks the backend whether a token is still valid. Transport
	// errors and non-200 responses both read as invalid.
	Validate(ctx context.Context, token string) bool
	// Login exchanges credentials for a token. The caller still has to
	// complete the second-factor code step before the session counts as
	// authenticated.
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, payload SignupPayload) error
	// SubmitCode completes second-factor verification for the subject.
	SubmitCode(ctx context.Context, code, subjectID string) error
	// RequestNewCode triggers out-of-band delivery of a fresh code.
	RequestNewCode(ctx context.Context, email, subjectID string) error
	RequestPasswordReset(ctx context.Context, email string) error
	// SubmitNewPassword finishes a password reset; the reset token arrives
	// via URL query parameter, not through the TokenStore.
	SubmitNewPassword(ctx context.Context, resetToken, newPassword string) error
	// Logout is best-effort; local state clearing proceeds regardless.
	Logout(ctx context.Context) error
}

// SessionReader is the read-only view guards and UI code consume.
type SessionReader interface {
	Current() Session
	State() SessionState
}

// Config holds client options.
type Config interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetStorageDir() string
	GetLoginRoute() string
	GetHomeRoute() string
	GetResendCodeWindow() time.Duration
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHC "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHC "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHC "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHC "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
