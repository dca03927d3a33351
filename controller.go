package authclient

import (
	"context"
	"slices"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SessionController owns the Session and funnels every mutation through the
// named transitions: Bootstrap, PreAuth, Login, SetToken, Logout. Guards and
// UI code read through SessionReader.
//
// The controller is safe for concurrent use. Bootstrap is memoized so it runs
// its effects at most once per process, and every explicit transition bumps
// an epoch counter: a silent reclaim that resolves after the user started an
// explicit login finds the epoch moved and discards its result, so the
// explicit login always wins the token slot.
type SessionController struct {
	mu      sync.Mutex
	gateway CredentialGateway
	store   TokenStore
	codec   *TokenCodec
	logger  Logger
	now     func() time.Time

	state   SessionState
	session Session
	// token is the short-lived in-memory copy held between password login
	// and second-factor confirmation. The durable slot is the long-lived
	// owner.
	token string

	bootstrapped bool
	epoch        uint64

	resendWindow    time.Duration
	lastCodeRequest time.Time
}

var _ SessionReader = (*SessionController)(nil)

// ControllerOption customizes SessionController construction.
type ControllerOption func(*SessionController)

// WithControllerLogger overrides the fallback logger.
func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *SessionController) {
		if logger != nil {
			c.logger = logger
			c.codec = c.codec.WithLogger(logger)
		}
	}
}

// WithControllerClock injects a custom clock (useful for tests).
func WithControllerClock(clock func() time.Time) ControllerOption {
	return func(c *SessionController) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithResendCodeWindow overrides the client-side disable window between
// "send new code" requests.
func WithResendCodeWindow(window time.Duration) ControllerOption {
	return func(c *SessionController) {
		if window > 0 {
			c.resendWindow = window
		}
	}
}

func NewSessionController(gateway CredentialGateway, store TokenStore, opts ...ControllerOption) *SessionController {
	c := &SessionController{
		gateway:      gateway,
		store:        store,
		codec:        NewTokenCodec(),
		logger:       defLogger{},
		now:          time.Now,
		state:        StateUnknown,
		resendWindow: defaultResendCodeWindow,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Current returns a copy of the session.
func (c *SessionController) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	session := c.session
	session.Roles = slices.Clone(c.session.Roles)
	return session
}

func (c *SessionController) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token returns the short-lived in-memory token, empty outside the
// pre-auth → code window.
func (c *SessionController) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetToken holds the token issued by a password login until the second
// factor confirms it. It does not persist anything.
func (c *SessionController) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Bootstrap resolves the session once per process: trust the stored token if
// the backend validates it, otherwise clear storage and attempt a silent
// reclaim before falling back to logged-out. Later calls return the current
// state without re-running any effect; validation always completes before a
// reclaim is attempted.
func (c *SessionController) Bootstrap(ctx context.Context) (SessionState, error) {
	c.mu.Lock()
	if c.bootstrapped {
		state := c.state
		c.mu.Unlock()
		return state, nil
	}
	c.bootstrapped = true
	epoch := c.epoch
	c.mu.Unlock()

	if token, ok := c.store.ReadToken(); ok {
		if c.gateway.Validate(ctx, token) {
			claims := c.codec.Decode(token)
			if claims.SubjectID != "" && c.adopt(epoch, claims, "") {
				return StateAuthenticated, nil
			}
		} else {
			c.logger.Info("stored token rejected by backend, clearing")
		}
	}

	// An explicit transition may have landed while validation was in
	// flight. Its durable writes must survive, so re-check the epoch under
	// the lock and keep the clear atomic with the check.
	c.mu.Lock()
	if c.epoch != epoch {
		state := c.state
		c.mu.Unlock()
		return state, nil
	}
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("storage clear during bootstrap failed: %v", err)
	}
	c.mu.Unlock()

	if !c.gateway.HasAmbientCredential(ctx) {
		return c.fallBack(epoch), nil
	}

	token, err := c.gateway.ReclaimToken(ctx)
	if err != nil {
		c.logger.Error("silent token reclaim failed: %v", err)
		return c.fallBack(epoch), nil
	}
	if token == "" {
		return c.fallBack(epoch), nil
	}

	claims := c.codec.Decode(token)
	if claims.SubjectID == "" {
		return c.fallBack(epoch), nil
	}

	if !c.adopt(epoch, claims, token) {
		return c.State(), nil
	}
	return StateAuthenticated, nil
}

// adopt publishes an authenticated session from decoded claims. persistToken
// is written to the durable slot when non-empty (fresh reclaim); a stored
// token that just validated is already durable. Returns false when the epoch
// moved, i.e. an explicit transition superseded this bootstrap run.
func (c *SessionController) adopt(epoch uint64, claims *TokenClaims, persistToken string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		c.logger.Info("discarding stale reclaim result for subject %s", claims.SubjectID)
		return false
	}

	if persistToken != "" {
		if err := c.store.WriteToken(persistToken); err != nil {
			c.logger.Warn("token slot write failed: %v", err)
		}
	}
	if err := c.store.WriteAuthMarker(); err != nil {
		c.logger.Warn("auth marker write failed: %v", err)
	}

	c.session = sessionFromClaims(claims)
	c.state = StateAuthenticated
	return true
}

func (c *SessionController) fallBack(epoch uint64) SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		return c.state
	}

	c.session = Session{}
	c.state = StateUnauthenticated
	return c.state
}

// PreAuth merges the partial claims of a password-verified login into the
// session without authenticating it; the second-factor code confirms later.
func (c *SessionController) PreAuth(subjectID, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !canTransition(c.state, StatePreAuthPendingCode) {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": c.state,
			"to":   StatePreAuthPendingCode,
		})
	}

	c.session.SubjectID = subjectID
	c.session.Email = email
	c.state = StatePreAuthPendingCode
	c.epoch++
	return nil
}

// Login completes authentication after second-factor success. Only valid
// from PreAuthPendingCode; the in-memory token is dropped because the
// durable copy is now authoritative.
func (c *SessionController) Login(roles ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePreAuthPendingCode {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": c.state,
			"to":   StateAuthenticated,
		})
	}

	if c.session.SubjectID == "" {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "authenticated session requires a subject",
		})
	}

	c.session.IsAuthenticated = true
	if len(roles) > 0 {
		c.session.Roles = slices.Clone(roles)
	}
	c.token = ""

	if err := c.store.WriteAuthMarker(); err != nil {
		c.logger.Warn("auth marker write failed: %v", err)
	}

	c.state = StateAuthenticated
	c.epoch++
	return nil
}

// Logout notifies the backend best-effort, then resets local state. Always
// succeeds locally; safe to call from any state.
func (c *SessionController) Logout(ctx context.Context) {
	if err := c.gateway.Logout(ctx); err != nil {
		c.logger.Warn("logout notification failed: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		c.logger.Warn("storage clear during logout failed: %v", err)
	}

	c.session = Session{}
	c.token = ""
	c.state = StateUnauthenticated
	c.epoch++
}

// StartLogin runs the password half of the login flow: validate the form,
// exchange credentials for a token, and pre-auth the session for the code
// step. The token stays in memory until ConfirmCode persists it.
func (c *SessionController) StartLogin(ctx context.Context, payload LoginPayload) error {
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login form")
	}

	token, err := c.gateway.Login(ctx, payload.Email, payload.Password)
	if err != nil {
		return err
	}

	claims := c.codec.Decode(token)
	if claims.SubjectID == "" {
		return goerrors.New("login token carries no subject", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	if err := c.PreAuth(claims.SubjectID, payload.Email); err != nil {
		return err
	}

	c.SetToken(token)
	return nil
}

// ConfirmCode submits the second-factor code. On success the in-memory token
// becomes the durable one and the session authenticates with the token's
// decoded roles.
func (c *SessionController) ConfirmCode(ctx context.Context, code string) error {
	c.mu.Lock()
	state := c.state
	subjectID := c.session.SubjectID
	token := c.token
	c.mu.Unlock()

	if state != StatePreAuthPendingCode {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": state,
			"to":   StateAuthenticated,
		})
	}

	payload := CodePayload{Code: code, SubjectID: subjectID}
	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid code form")
	}

	if err := c.gateway.SubmitCode(ctx, code, subjectID); err != nil {
		return err
	}

	if token != "" {
		if err := c.store.WriteToken(token); err != nil {
			c.logger.Warn("token slot write failed: %v", err)
		}
	}

	claims := c.codec.Decode(token)
	return c.Login(claims.Roles...)
}

// RequestNewCode triggers out-of-band delivery of a fresh code, guarded by
// the client-side resend window.
func (c *SessionController) RequestNewCode(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StatePreAuthPendingCode {
		c.mu.Unlock()
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": c.state,
			"to":   StatePreAuthPendingCode,
		})
	}

	now := c.now()
	if !c.lastCodeRequest.IsZero() {
		elapsed := now.Sub(c.lastCodeRequest)
		if elapsed < c.resendWindow {
			retryIn := c.resendWindow - elapsed
			c.mu.Unlock()
			return ErrResendThrottled.WithMetadata(map[string]any{
				"retry_in": retryIn.String(),
			})
		}
	}

	email := c.session.Email
	subjectID := c.session.SubjectID
	c.mu.Unlock()

	if err := c.gateway.RequestNewCode(ctx, email, subjectID); err != nil {
		return err
	}

	c.mu.Lock()
	c.lastCodeRequest = c.now()
	c.mu.Unlock()
	return nil
}
