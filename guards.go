package authclient

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// Route guards gate navigation from the session the controller published.
// They never call the network: the authenticated guard reads the in-memory
// session, the admin guard decodes the stored token, and both trust the
// backend to enforce real authorization on every API call. Role-mismatched
// navigation redirects silently to a safe route, no error UI.

// PublicGuard renders everything; it exists so route tables can declare
// intent explicitly.
func PublicGuard() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return next
	}
}

// AuthenticatedGuard requires an authenticated session holding the USER
// role; everyone else is sent to the registration entry point.
func AuthenticatedGuard(sessions SessionReader, redirect string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			session := sessions.Current()
			if !session.IsAuthenticated || !session.HasRole(RoleUser) {
				return c.Redirect(redirect, redirectStatus(c))
			}
			return next(c)
		}
	}
}

// NotAuthenticatedGuard bounces authenticated users away from login, signup
// and password-recovery screens.
func NotAuthenticatedGuard(sessions SessionReader, redirect string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if sessions.Current().IsAuthenticated {
				return c.Redirect(redirect, redirectStatus(c))
			}
			return next(c)
		}
	}
}

// AdminGuard reads the durable slots directly: it requires the auth marker,
// a decodable stored token and the ADMIN authority among its claims. Decoded
// roles are a display hint; the backend re-checks every admin call.
func AdminGuard(store TokenStore, codec *TokenCodec, redirect string) router.MiddlewareFunc {
	if codec == nil {
		codec = NewTokenCodec()
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			token, ok := store.ReadToken()
			if !ok || !store.ReadAuthMarker() {
				return c.Redirect(redirect, redirectStatus(c))
			}

			claims := codec.Decode(token)
			if claims.SubjectID == "" || !claims.IsAdmin() {
				return c.Redirect(redirect, redirectStatus(c))
			}

			return next(c)
		}
	}
}

func redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
