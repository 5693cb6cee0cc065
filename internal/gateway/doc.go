// Package gateway exposes the chat and support services over HTTP.
//
// # Overview
//
// One HTTP API serves both product surfaces. The customer chat uses the
// conversation endpoints; the agent dashboard uses the ticket endpoints plus
// an SSE stream for live ticket events.
//
// # Endpoints
//
// Public:
//
//   - GET /health - Liveness check
//   - POST /api/login - Exchange credentials for a session token
//
// Authenticated:
//
//   - POST /api/logout - Clear the persisted session
//   - GET /api/me - Last-logged-in identity
//   - POST /api/conversations - Start a conversation
//   - POST /api/conversations/{id}/messages - Send a customer message
//   - GET /api/conversations/{id}/messages - Conversation history
//   - GET /api/tickets - List tickets with the auto-select hint (agent only)
//   - PATCH /api/tickets/{id} - Assign and/or change status (agent only)
//   - POST /api/tickets/{id}/messages - Send an agent message (agent only)
//   - GET /api/tickets/{id}/messages - Ticket conversation history
//   - GET /api/tickets/{id}/events - SSE ticket event stream ("all" for every ticket)
//
// # Authentication
//
// All /api routes except login require a bearer session token. Ticket
// mutations additionally require the agent role.
package gateway
