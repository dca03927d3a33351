package authclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	authclient "github.com/olympiastore/go-auth-client"
)

func TestSessionRoles(t *testing.T) {
	session := authclient.Session{
		IsAuthenticated: true,
		SubjectID:       "42",
		Roles:           []string{authclient.RoleUser, authclient.RoleAdmin},
	}

	assert.True(t, session.HasRole(authclient.RoleUser))
	assert.True(t, session.HasRole(authclient.RoleAdmin))
	assert.True(t, session.IsAdmin())
	assert.False(t, session.HasRole("OPERATOR"))
}

func TestSessionDefaults(t *testing.T) {
	session := authclient.Session{}

	assert.False(t, session.IsAuthenticated)
	assert.Equal(t, "", session.SubjectID)
	assert.Empty(t, session.Roles)
	assert.Equal(t, "", session.Email)
	assert.False(t, session.IsAdmin())
}

func TestSessionString(t *testing.T) {
	session := authclient.Session{
		IsAuthenticated: true,
		SubjectID:       "42",
		Roles:           []string{authclient.RoleUser},
	}

	repr := session.String()
	assert.Contains(t, repr, "42")
	assert.Contains(t, repr, authclient.RoleUser)
}
