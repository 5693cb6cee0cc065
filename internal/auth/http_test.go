// ABOUTME: Tests for the authentication HTTP middleware
// ABOUTME: Covers bearer extraction, session propagation, and agent-only routes

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfin/support-gateway/internal/identity"
)

func issueTestToken(t *testing.T, tokens *SessionTokens, user *identity.User) string {
	t.Helper()
	token, err := tokens.Issue(user, time.Hour)
	require.NoError(t, err)
	return token
}

func TestMiddleware_ValidToken(t *testing.T) {
	tokens := NewSessionTokens(testSecret)
	token := issueTestToken(t, tokens, &identity.User{ID: "1", Name: "Rahul Sharma", Role: identity.RoleCustomer})

	var got *Session
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "1", got.UserID)
	assert.Equal(t, "Rahul Sharma", got.Name)
	assert.Equal(t, identity.RoleCustomer, got.Role)
	assert.False(t, got.IsAgent())
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tokens := NewSessionTokens(testSecret)

	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_BadToken(t *testing.T) {
	tokens := NewSessionTokens(testSecret)

	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	tokens := NewSessionTokens(testSecret)

	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAgent(t *testing.T) {
	tokens := NewSessionTokens(testSecret)

	handler := Middleware(tokens)(RequireAgent()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	// Agent passes
	agentToken := issueTestToken(t, tokens, &identity.User{ID: "3", Role: identity.RoleAgent})
	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	req.Header.Set("Authorization", "Bearer "+agentToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Customer is rejected
	customerToken := issueTestToken(t, tokens, &identity.User{ID: "1", Role: identity.RoleCustomer})
	req = httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
