// Package auth provides session tokens and HTTP authentication middleware.
//
// # Overview
//
// Logins are exchanged for HS256-signed JWT session tokens carrying the user
// id and role. The HTTP middleware extracts the bearer token, verifies it,
// and attaches a Session to the request context; RequireAgent additionally
// rejects non-agent sessions.
//
// # Usage
//
// Protect a handler tree:
//
//	authed := auth.Middleware(tokens)
//	agentOnly := auth.RequireAgent()
//	mux.Handle("/api/tickets", authed(agentOnly(handler)))
//
// Read the session in a handler:
//
//	session := auth.FromContext(r.Context())
package auth
