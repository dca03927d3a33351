package authclient

import (
	"fmt"
	"slices"
)

// SessionState is the controller's lifecycle state.
type SessionState string

const (
	// StateUnknown holds from process start until Bootstrap completes.
	StateUnknown SessionState = "unknown"
	// StatePreAuthPendingCode covers the window between a password-verified
	// login and second-factor confirmation.
	StatePreAuthPendingCode SessionState = "pre_auth_pending_code"
	StateAuthenticated      SessionState = "authenticated"
	StateUnauthenticated    SessionState = "unauthenticated"
)

// sessionTransitions is the allowed transition graph. Logout is reachable
// from every state and handled separately.
var sessionTransitions = map[SessionState]map[SessionState]struct{}{
	StateUnknown: {
		StateAuthenticated:      {},
		StateUnauthenticated:    {},
		StatePreAuthPendingCode: {},
	},
	StateUnauthenticated: {
		StatePreAuthPendingCode: {},
		StateAuthenticated:      {},
	},
	StatePreAuthPendingCode: {
		StateAuthenticated:      {},
		StatePreAuthPendingCode: {},
	},
	StateAuthenticated: {},
}

func canTransition(from, to SessionState) bool {
	if to == StateUnauthenticated {
		return true
	}
	allowed, ok := sessionTransitions[from]
	if !ok {
		return false
	}
	_, exists := allowed[to]
	return exists
}

// Session is the authoritative client-side view of who is using the app.
// Invariant: IsAuthenticated implies SubjectID is non-empty. Email is only
// populated during the pre-auth → code window.
type Session struct {
	IsAuthenticated bool     `json:"is_authenticated"`
	SubjectID       string   `json:"subject_id,omitempty"`
	Roles           []string `json:"roles,omitempty"`
	Email           string   `json:"email,omitempty"`
}

func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

func (s Session) String() string {
	return fmt.Sprintf(
		"auth=%t subject=%s roles=%v",
		s.IsAuthenticated,
		s.SubjectID,
		s.Roles,
	)
}

// sessionFromClaims builds an authenticated Session from decoded claims.
func sessionFromClaims(claims *TokenClaims) Session {
	return Session{
		IsAuthenticated: true,
		SubjectID:       claims.SubjectID,
		Roles:           claims.Roles,
	}
}
