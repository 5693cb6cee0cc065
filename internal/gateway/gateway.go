// ABOUTME: Gateway wires the chat, support, and identity services to HTTP
// ABOUTME: Owns the mux, auth middleware, and server lifecycle

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kruxfin/support-gateway/internal/auth"
	"github.com/kruxfin/support-gateway/internal/chat"
	"github.com/kruxfin/support-gateway/internal/identity"
	"github.com/kruxfin/support-gateway/internal/notify"
	"github.com/kruxfin/support-gateway/internal/support"
)

// Gateway exposes the customer-chat and agent-dashboard surfaces over HTTP.
type Gateway struct {
	chat     *chat.Service
	support  *support.Service
	identity *identity.Resolver
	tokens   *auth.SessionTokens
	bus      *notify.Broadcaster
	logger   *slog.Logger

	httpServer *http.Server
}

// Config carries the dependencies for a Gateway.
type Config struct {
	Chat     *chat.Service
	Support  *support.Service
	Identity *identity.Resolver
	Tokens   *auth.SessionTokens
	Bus      *notify.Broadcaster
	HTTPAddr string
	Logger   *slog.Logger
}

// New creates a Gateway with its routes registered.
func New(cfg Config) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{
		chat:     cfg.Chat,
		support:  cfg.Support,
		identity: cfg.Identity,
		tokens:   cfg.Tokens,
		bus:      cfg.Bus,
		logger:   logger.With("component", "gateway"),
	}

	g.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           g.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return g
}

// Routes builds the HTTP handler tree. Public: health and login. Everything
// else requires a session token; ticket mutations additionally require the
// agent role.
func (g *Gateway) Routes() http.Handler {
	authed := auth.Middleware(g.tokens)
	agentOnly := auth.RequireAgent()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc("/api/login", g.handleLogin)

	mux.Handle("/api/logout", authed(http.HandlerFunc(g.handleLogout)))
	mux.Handle("/api/me", authed(http.HandlerFunc(g.handleMe)))
	mux.Handle("/api/conversations", authed(http.HandlerFunc(g.handleConversations)))
	mux.Handle("/api/conversations/", authed(http.HandlerFunc(g.handleConversationRoutes)))
	mux.Handle("/api/tickets", authed(agentOnly(http.HandlerFunc(g.handleListTickets))))
	mux.Handle("/api/tickets/", authed(http.HandlerFunc(g.handleTicketRoutes)))

	return mux
}

// Start begins serving HTTP. Blocks until the server stops.
func (g *Gateway) Start() error {
	g.logger.Info("HTTP server listening", "addr", g.httpServer.Addr)
	if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the broadcaster.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.bus.Close()
	return g.httpServer.Shutdown(ctx)
}
