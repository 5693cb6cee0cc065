// ABOUTME: HTTP API handlers for the customer chat and agent dashboard surfaces
// ABOUTME: JSON request/response types and route dispatch for conversations and tickets

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kruxfin/support-gateway/internal/auth"
	"github.com/kruxfin/support-gateway/internal/identity"
	"github.com/kruxfin/support-gateway/internal/store"
	"github.com/kruxfin/support-gateway/internal/support"
)

// LoginRequest is the JSON request body for POST /api/login.
type LoginRequest struct {
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	User  *identity.User `json:"user"`
	Token string         `json:"token"`
}

// CreateConversationRequest is the JSON request body for POST /api/conversations.
type CreateConversationRequest struct {
	Category string `json:"category"`
}

// SendMessageRequest is the JSON request body for posting a message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// UpdateTicketRequest is the JSON request body for PATCH /api/tickets/{id}.
// Assign takes the ticket for the calling agent; Status applies an explicit
// status change. Both may be set in one request; assignment runs first.
type UpdateTicketRequest struct {
	Assign bool   `json:"assign,omitempty"`
	Status string `json:"status,omitempty"`
}

// TicketListResponse is the JSON response for GET /api/tickets.
type TicketListResponse struct {
	Tickets  []*store.SupportTicket `json:"tickets"`
	Selected string                 `json:"selected,omitempty"`
}

// MessageListResponse is the JSON response for message history reads.
type MessageListResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []*store.Message `json:"messages"`
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin handles POST /api/login. Identity resolution failure is an
// explicit 401, never a 500.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := g.identity.Login(r.Context(), identity.Credentials{
		Phone:    req.Phone,
		Username: req.Username,
	})
	if errors.Is(err, identity.ErrUnknownIdentity) {
		g.sendJSONError(w, http.StatusUnauthorized, "could not log in")
		return
	}
	if err != nil {
		g.logger.Error("login failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := g.tokens.Issue(user, auth.DefaultSessionTTL)
	if err != nil {
		g.logger.Error("token issue failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	g.writeJSON(w, http.StatusOK, LoginResponse{User: user, Token: token})
}

func (g *Gateway) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := g.identity.Logout(r.Context()); err != nil {
		g.logger.Error("logout failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	g.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMe handles GET /api/me, returning the last-logged-in identity from
// the persisted store.
func (g *Gateway) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, err := g.identity.CurrentUser(r.Context())
	if err != nil {
		g.logger.Error("current user lookup failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		g.sendJSONError(w, http.StatusNotFound, "no session")
		return
	}
	g.writeJSON(w, http.StatusOK, user)
}

// handleConversations handles POST /api/conversations.
func (g *Gateway) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user := g.sessionUser(r)
	conv, err := g.chat.StartConversation(r.Context(), user, store.Category(req.Category))
	if err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	g.writeJSON(w, http.StatusCreated, conv)
}

// handleConversationRoutes dispatches /api/conversations/{id}/messages.
func (g *Gateway) handleConversationRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	parts := strings.Split(rest, "/")

	if len(parts) == 2 && parts[1] == "messages" {
		switch r.Method {
		case http.MethodPost:
			g.handleSendCustomerMessage(w, r, parts[0])
		case http.MethodGet:
			g.handleConversationHistory(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	http.NotFound(w, r)
}

// handleSendCustomerMessage records a customer message. The bot reply is
// computed after the configured latency and lands in the message log; the
// response does not wait for it.
func (g *Gateway) handleSendCustomerMessage(w http.ResponseWriter, r *http.Request, conversationID string) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		g.sendJSONError(w, http.StatusBadRequest, "content is required")
		return
	}

	user := g.sessionUser(r)
	msg, _, err := g.chat.SendMessage(r.Context(), user, conversationID, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "conversation not found")
			return
		}
		g.logger.Error("send message failed", "error", err, "conversation_id", conversationID)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	g.writeJSON(w, http.StatusCreated, msg)
}

func (g *Gateway) handleConversationHistory(w http.ResponseWriter, r *http.Request, conversationID string) {
	messages, err := g.chat.History(r.Context(), conversationID)
	if err != nil {
		g.logger.Error("history read failed", "error", err, "conversation_id", conversationID)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	g.writeJSON(w, http.StatusOK, MessageListResponse{
		ConversationID: conversationID,
		Messages:       messages,
	})
}

// handleListTickets handles GET /api/tickets. The response includes the
// auto-select hint: the first unassigned ticket, else the first in store
// order.
func (g *Gateway) handleListTickets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tickets, err := g.support.ListTickets(r.Context())
	if err != nil {
		g.logger.Error("ticket list failed", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := TicketListResponse{Tickets: tickets}
	if selected := support.AutoSelect(tickets); selected != nil {
		resp.Selected = selected.ID
	}
	g.writeJSON(w, http.StatusOK, resp)
}

// handleTicketRoutes dispatches /api/tickets/{id}, /api/tickets/{id}/messages,
// and /api/tickets/{id}/events.
func (g *Gateway) handleTicketRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/tickets/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		g.handleUpdateTicket(w, r, parts[0])

	case len(parts) == 2 && parts[1] == "messages":
		switch r.Method {
		case http.MethodPost:
			g.handleSendAgentMessage(w, r, parts[0])
		case http.MethodGet:
			g.handleTicketMessages(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case len(parts) == 2 && parts[1] == "events":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		g.handleTicketEvents(w, r, parts[0])

	default:
		http.NotFound(w, r)
	}
}

// handleUpdateTicket handles PATCH /api/tickets/{id}: assignment to the
// calling agent and/or an explicit status change.
func (g *Gateway) handleUpdateTicket(w http.ResponseWriter, r *http.Request, ticketID string) {
	session := auth.FromContext(r.Context())
	if session == nil || !session.IsAgent() {
		g.sendJSONError(w, http.StatusForbidden, "agent role required")
		return
	}

	var req UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Assign && req.Status == "" {
		g.sendJSONError(w, http.StatusBadRequest, "no changes")
		return
	}

	var ticket *store.SupportTicket
	var err error

	if req.Assign {
		ticket, err = g.support.Assign(r.Context(), ticketID, g.sessionUser(r))
		if err != nil {
			g.writeTicketError(w, err)
			return
		}
	}
	if req.Status != "" {
		ticket, err = g.support.SetStatus(r.Context(), ticketID, store.TicketStatus(req.Status))
		if err != nil {
			g.writeTicketError(w, err)
			return
		}
	}

	g.writeJSON(w, http.StatusOK, ticket)
}

func (g *Gateway) handleSendAgentMessage(w http.ResponseWriter, r *http.Request, ticketID string) {
	session := auth.FromContext(r.Context())
	if session == nil || !session.IsAgent() {
		g.sendJSONError(w, http.StatusForbidden, "agent role required")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		g.sendJSONError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg, err := g.support.SendAgentMessage(r.Context(), g.sessionUser(r), ticketID, req.Content)
	if err != nil {
		g.writeTicketError(w, err)
		return
	}

	g.writeJSON(w, http.StatusCreated, msg)
}

func (g *Gateway) handleTicketMessages(w http.ResponseWriter, r *http.Request, ticketID string) {
	ticket, err := g.support.Ticket(r.Context(), ticketID)
	if err != nil {
		g.logger.Error("ticket lookup failed", "error", err, "ticket_id", ticketID)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ticket == nil {
		g.sendJSONError(w, http.StatusNotFound, "ticket not found")
		return
	}

	messages, err := g.support.Messages(r.Context(), ticket.ConversationID)
	if err != nil {
		g.logger.Error("ticket messages read failed", "error", err, "ticket_id", ticketID)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	g.writeJSON(w, http.StatusOK, MessageListResponse{
		ConversationID: ticket.ConversationID,
		Messages:       messages,
	})
}

// sessionUser reconstructs the acting user from the request session. Known
// identities come back with their full record; transient identities are
// rebuilt from the token's id and name claims, which is all that exists for
// them.
func (g *Gateway) sessionUser(r *http.Request) *identity.User {
	session := auth.FromContext(r.Context())
	if session == nil {
		return &identity.User{}
	}
	if user := identity.Lookup(session.UserID); user != nil {
		return user
	}
	return &identity.User{ID: session.UserID, Name: session.Name, Role: session.Role}
}

func (g *Gateway) writeTicketError(w http.ResponseWriter, err error) {
	if errors.Is(err, support.ErrTicketNotFound) {
		g.sendJSONError(w, http.StatusNotFound, "ticket not found")
		return
	}
	g.logger.Error("ticket operation failed", "error", err)
	g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
}

// writeJSON writes a JSON response with the given status code.
func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	g.writeJSON(w, status, map[string]string{"error": message})
}
