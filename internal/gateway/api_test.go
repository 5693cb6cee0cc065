// ABOUTME: HTTP-level tests for the gateway API
// ABOUTME: Exercises login, conversations, tickets, and authorization end to end

package gateway

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfin/support-gateway/internal/auth"
	"github.com/kruxfin/support-gateway/internal/bot"
	"github.com/kruxfin/support-gateway/internal/chat"
	"github.com/kruxfin/support-gateway/internal/identity"
	"github.com/kruxfin/support-gateway/internal/notify"
	"github.com/kruxfin/support-gateway/internal/store"
	"github.com/kruxfin/support-gateway/internal/support"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	mock := store.NewMockStore()
	bus := notify.NewBroadcaster(nil)
	t.Cleanup(bus.Close)

	supportSvc := support.New(mock, bus, nil)
	chatSvc := chat.New(mock, supportSvc, bot.New(nil), 0, nil)
	resolver := identity.NewResolver(mock, nil)
	tokens := auth.NewSessionTokens([]byte("gateway-test-secret"))

	return New(Config{
		Chat:     chatSvc,
		Support:  supportSvc,
		Identity: resolver,
		Tokens:   tokens,
		Bus:      bus,
		HTTPAddr: "localhost:0",
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, handler http.Handler, creds map[string]string) (LoginResponse, string) {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/api/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, "login body: %s", rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp, resp.Token
}

func TestHealth(t *testing.T) {
	g := newTestGateway(t)
	rec := doJSON(t, g.Routes(), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_CustomerAndAgent(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	customer, _ := login(t, routes, map[string]string{"phone": "+919876543210"})
	assert.Equal(t, "Rahul Sharma", customer.User.Name)
	assert.Equal(t, identity.RoleCustomer, customer.User.Role)

	agent, _ := login(t, routes, map[string]string{"username": "amit.kumar"})
	assert.Equal(t, identity.RoleAgent, agent.User.Role)
}

func TestLogin_UnknownPhone(t *testing.T) {
	g := newTestGateway(t)
	rec := doJSON(t, g.Routes(), http.MethodPost, "/api/login", "", map[string]string{"phone": "+910000000000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	for _, path := range []string{"/api/me", "/api/conversations", "/api/tickets"} {
		rec := doJSON(t, routes, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestMeReflectsLogin(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, token := login(t, routes, map[string]string{"phone": "+919876543211"})

	rec := doJSON(t, routes, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user identity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Priya Patel", user.Name)
}

func TestConversationFlow(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, token := login(t, routes, map[string]string{"phone": "+919876543210"})

	// Start a conversation
	rec := doJSON(t, routes, http.MethodPost, "/api/conversations", token,
		CreateConversationRequest{Category: "loan_application"})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var conv store.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	require.NotEmpty(t, conv.ID)

	// Send a message
	rec = doJSON(t, routes, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", token,
		SendMessageRequest{Content: "business loan please"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var msg store.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, store.SenderCustomer, msg.Sender)

	// The bot reply lands asynchronously; poll the history briefly
	deadline := time.Now().Add(2 * time.Second)
	var history MessageListResponse
	for {
		rec = doJSON(t, routes, http.MethodGet, "/api/conversations/"+conv.ID+"/messages", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
		if len(history.Messages) >= 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Len(t, history.Messages, 2)
	assert.Equal(t, store.SenderBot, history.Messages[1].Sender)
}

func TestTransientCustomerKeepsName(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	// An unknown name logs in as a synthesized transient customer
	resp, token := login(t, routes, map[string]string{"username": "Kiran Mehta"})
	require.Equal(t, "Kiran Mehta", resp.User.Name)
	require.Equal(t, identity.RoleCustomer, resp.User.Role)

	// The name survives into the conversation they start
	rec := doJSON(t, routes, http.MethodPost, "/api/conversations", token,
		CreateConversationRequest{Category: "general"})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var conv store.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.Equal(t, "Kiran Mehta", conv.CustomerName)
	assert.Equal(t, resp.User.ID, conv.CustomerID)

	// ...and into the auto-created ticket for the general category
	_, agentToken := login(t, routes, map[string]string{"username": "amit.kumar"})
	rec = doJSON(t, routes, http.MethodGet, "/api/tickets", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tickets TicketListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tickets))

	var found *store.SupportTicket
	for _, ticket := range tickets.Tickets {
		if ticket.ConversationID == conv.ID {
			found = ticket
		}
	}
	require.NotNil(t, found, "auto-created ticket for the conversation")
	assert.Equal(t, "Kiran Mehta", found.CustomerName)
	assert.Equal(t, resp.User.ID, found.CustomerID)
}

func TestSendMessage_UnknownConversation(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, token := login(t, routes, map[string]string{"phone": "+919876543210"})

	rec := doJSON(t, routes, http.MethodPost, "/api/conversations/missing/messages", token,
		SendMessageRequest{Content: "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessage_EmptyContent(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, token := login(t, routes, map[string]string{"phone": "+919876543210"})

	rec := doJSON(t, routes, http.MethodPost, "/api/conversations/any/messages", token,
		SendMessageRequest{Content: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketList_AgentOnly(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, customerToken := login(t, routes, map[string]string{"phone": "+919876543210"})
	rec := doJSON(t, routes, http.MethodGet, "/api/tickets", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, agentToken := login(t, routes, map[string]string{"username": "amit.kumar"})
	rec = doJSON(t, routes, http.MethodGet, "/api/tickets", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TicketListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Empty store was seeded with the demo pair; both unassigned, so the
	// first is auto-selected
	require.Len(t, resp.Tickets, 2)
	assert.Equal(t, resp.Tickets[0].ID, resp.Selected)
}

func TestTicketAssignAndStatus(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, agentToken := login(t, routes, map[string]string{"username": "amit.kumar"})

	// Seed via list
	rec := doJSON(t, routes, http.MethodGet, "/api/tickets", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, routes, http.MethodPatch, "/api/tickets/1", agentToken,
		UpdateTicketRequest{Assign: true})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var ticket store.SupportTicket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	assert.Equal(t, "3", ticket.AssignedAgentID)
	assert.Equal(t, store.TicketInProgress, ticket.Status)

	rec = doJSON(t, routes, http.MethodPatch, "/api/tickets/1", agentToken,
		UpdateTicketRequest{Status: "resolved"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	assert.Equal(t, store.TicketResolved, ticket.Status)
}

func TestTicketMutation_CustomerForbidden(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, customerToken := login(t, routes, map[string]string{"phone": "+919876543210"})

	rec := doJSON(t, routes, http.MethodPatch, "/api/tickets/1", customerToken,
		UpdateTicketRequest{Assign: true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/tickets/1/messages", customerToken,
		SendMessageRequest{Content: "hi"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTicketUpdate_NotFound(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, agentToken := login(t, routes, map[string]string{"username": "amit.kumar"})

	rec := doJSON(t, routes, http.MethodPatch, "/api/tickets/missing", agentToken,
		UpdateTicketRequest{Assign: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentMessageFlow(t *testing.T) {
	g := newTestGateway(t)
	routes := g.Routes()

	_, agentToken := login(t, routes, map[string]string{"username": "sneha.singh"})

	// Seed via list
	rec := doJSON(t, routes, http.MethodGet, "/api/tickets", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/tickets/1/messages", agentToken,
		SendMessageRequest{Content: "Hello, I'm looking at your application."})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var msg store.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, store.SenderAgent, msg.Sender)

	rec = doJSON(t, routes, http.MethodGet, "/api/tickets/1/messages", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history MessageListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "Hello, I'm looking at your application.", history.Messages[0].Content)
}

func TestTicketEventsStream(t *testing.T) {
	g := newTestGateway(t)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	_, agentToken := login(t, g.Routes(), map[string]string{"username": "amit.kumar"})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tickets/all/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+agentToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Give the handler a moment to register its subscription
	time.Sleep(50 * time.Millisecond)

	_, err = g.support.CreateTicket(req.Context(), &store.SupportTicket{CustomerName: "Rahul Sharma"})
	require.NoError(t, err)

	scanner := bufio.NewScanner(resp.Body)
	var eventName, data string
	deadline := time.After(2 * time.Second)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event: ") {
				eventName = strings.TrimPrefix(line, "event: ")
			}
			if strings.HasPrefix(line, "data: ") {
				data = strings.TrimPrefix(line, "data: ")
				return
			}
		}
	}()

	select {
	case <-done:
	case <-deadline:
		t.Fatal("timed out waiting for SSE event")
	}

	assert.Equal(t, string(notify.TicketCreated), eventName)

	var event notify.TicketEvent
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, "Rahul Sharma", event.Ticket.CustomerName)
}
