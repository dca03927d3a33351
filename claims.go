package authclient

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of bearer-token claims the client cares about.
// Claims are decoded without signature verification: the backend issued and
// will re-verify the token, the client only uses them as a display hint.
type TokenClaims struct {
	SubjectID string
	Roles     []string
}

// IsEmpty reports whether this is the empty-claims sentinel.
func (c *TokenClaims) IsEmpty() bool {
	return c.SubjectID == "" && len(c.Roles) == 0
}

func (c *TokenClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

func (c *TokenClaims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// wireClaims matches the payload shape the backend signs: registered claims
// plus a roles array of authority objects.
type wireClaims struct {
	jwt.RegisteredClaims
	Roles []struct {
		Authority string `json:"authority"`
	} `json:"roles"`
}

// TokenCodec decodes bearer tokens into TokenClaims.
type TokenCodec struct {
	parser *jwt.Parser
	logger Logger
}

func NewTokenCodec() *TokenCodec {
	return &TokenCodec{
		parser: jwt.NewParser(),
		logger: defLogger{},
	}
}

func (c *TokenCodec) WithLogger(logger Logger) *TokenCodec {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Decode extracts subject and role authorities from a raw token. Malformed or
// truncated input yields the empty-claims sentinel and a log line, never an
// error: a corrupt stored token must not crash session bootstrap.
func (c *TokenCodec) Decode(raw string) *TokenClaims {
	claims := &wireClaims{}
	if _, _, err := c.parser.ParseUnverified(raw, claims); err != nil {
		c.logger.Error("cannot decode token: %v", err)
		return &TokenClaims{}
	}

	roles := make([]string, 0, len(claims.Roles))
	for _, role := range claims.Roles {
		roles = append(roles, role.Authority)
	}
	if len(roles) == 0 {
		roles = nil
	}

	return &TokenClaims{
		SubjectID: claims.Subject,
		Roles:     roles,
	}
}
