// Package authclient implements the client half of the Olympic ticket store's
// bearer-token authentication: decoding token claims, persisting the current
// token across restarts, talking to the credential endpoints of the store API,
// and gating navigation through route guards.
//
// Session lifecycle:
//   - SessionController owns the Session value and the state machine around it
//     (Unknown, PreAuthPendingCode, Authenticated, Unauthenticated). Bootstrap
//     runs once per process: it trusts a stored token only after the backend
//     validates it, otherwise it attempts a silent reclaim through the ambient
//     credential cookie before falling back to logged-out.
//   - Decoded claims are a display hint only. The backend is the authority on
//     every request; guards and claims never grant anything server-side.
//
// Storage:
//   - TokenStore mirrors the browser's durable slots: a token slot holding the
//     bearer string and an auth marker used by guards to short-circuit checks
//     without decoding. File, SQLite (Bun) and in-memory stores are provided.
package authclient
