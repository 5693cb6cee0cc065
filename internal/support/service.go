// ABOUTME: Agent-side ticket service: seeding, assignment, status changes, agent messages
// ABOUTME: Every ticket mutation fans out through the notify broadcaster

package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kruxfin/support-gateway/internal/identity"
	"github.com/kruxfin/support-gateway/internal/notify"
	"github.com/kruxfin/support-gateway/internal/store"
)

// ErrTicketNotFound is returned when an operation targets an unknown ticket
var ErrTicketNotFound = errors.New("ticket not found")

// TicketStore defines what the service needs from storage
type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *store.SupportTicket) error
	SaveTicket(ctx context.Context, ticket *store.SupportTicket) error
	GetTicket(ctx context.Context, id string) (*store.SupportTicket, error)
	ListTickets(ctx context.Context, limit int) ([]*store.SupportTicket, error)
	CountTickets(ctx context.Context) (int, error)
	AppendMessage(ctx context.Context, msg *store.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*store.Message, error)
}

// Service is the agent-dashboard side of the system. Ticket writes are
// last-write-wins across surfaces; the broadcaster is best-effort and never
// a correctness mechanism.
type Service struct {
	store  TicketStore
	bus    *notify.Broadcaster
	logger *slog.Logger

	seedOnce sync.Once
}

// New creates a support Service. The broadcaster may be nil, in which case
// ticket events are not fanned out.
func New(ticketStore TicketStore, bus *notify.Broadcaster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  ticketStore,
		bus:    bus,
		logger: logger.With("component", "support"),
	}
}

// CreateTicket fills defaults for omitted fields, persists the ticket, and
// emits a ticket.created event. Defaults: status open, priority medium,
// category general, timestamps now.
func (s *Service) CreateTicket(ctx context.Context, partial *store.SupportTicket) (*store.SupportTicket, error) {
	now := time.Now()
	ticket := *partial

	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	if ticket.ConversationID == "" {
		ticket.ConversationID = uuid.New().String()
	}
	if ticket.CustomerID == "" {
		ticket.CustomerID = "unknown"
	}
	if ticket.CustomerName == "" {
		ticket.CustomerName = "Unknown"
	}
	if ticket.Status == "" {
		ticket.Status = store.TicketOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = store.PriorityMedium
	}
	if ticket.Category == "" {
		ticket.Category = store.CategoryGeneral
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	if ticket.UpdatedAt.IsZero() {
		ticket.UpdatedAt = now
	}

	if err := s.store.CreateTicket(ctx, &ticket); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	s.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"conversation_id", ticket.ConversationID,
		"priority", ticket.Priority)
	s.publish(notify.TicketCreated, &ticket)
	return &ticket, nil
}

// ListTickets returns persisted tickets in store order. An empty store is
// seeded with the fixed bootstrap set first, so the dashboard is never empty
// on first run; seeding happens at most once per process and only while the
// store is still empty.
func (s *Service) ListTickets(ctx context.Context) ([]*store.SupportTicket, error) {
	s.seedOnce.Do(func() {
		count, err := s.store.CountTickets(ctx)
		if err != nil {
			s.logger.Error("ticket count failed, skipping bootstrap seed", "error", err)
			return
		}
		if count > 0 {
			return
		}
		for _, ticket := range bootstrapTickets() {
			if err := s.store.CreateTicket(ctx, ticket); err != nil {
				s.logger.Error("bootstrap seed failed", "error", err, "ticket_id", ticket.ID)
			}
		}
		s.logger.Info("seeded bootstrap tickets")
	})

	return s.store.ListTickets(ctx, 0)
}

// bootstrapTickets is the demo data the dashboard shows on a fresh store.
func bootstrapTickets() []*store.SupportTicket {
	now := time.Now()
	return []*store.SupportTicket{
		{
			ID:             "1",
			ConversationID: "conv1",
			CustomerID:     "1",
			CustomerName:   "Rahul Sharma",
			Status:         store.TicketOpen,
			Priority:       store.PriorityHigh,
			Category:       store.CategoryLoanApplication,
			CreatedAt:      now.Add(-5 * time.Minute),
			UpdatedAt:      now.Add(-2 * time.Minute),
		},
		{
			ID:             "2",
			ConversationID: "conv2",
			CustomerID:     "2",
			CustomerName:   "Priya Patel",
			Status:         store.TicketOpen,
			Priority:       store.PriorityMedium,
			Category:       store.CategoryDocumentHelp,
			CreatedAt:      now.Add(-10 * time.Minute),
			UpdatedAt:      now.Add(-8 * time.Minute),
		},
	}
}

// UpdateTicket upserts a ticket and emits a ticket.updated event. UpdatedAt
// is never touched here: the caller decides what "updated" means.
func (s *Service) UpdateTicket(ctx context.Context, ticket *store.SupportTicket) error {
	if err := s.store.SaveTicket(ctx, ticket); err != nil {
		return fmt.Errorf("saving ticket: %w", err)
	}
	s.publish(notify.TicketUpdated, ticket)
	return nil
}

// Assign gives a ticket to an agent: sets the assignee, forces status
// in_progress, and bumps UpdatedAt. Assigning a ticket the agent already
// holds is idempotent - assignee and status are unchanged, only UpdatedAt
// advances. The first assignment records the time to first response.
func (s *Service) Assign(ctx context.Context, ticketID string, agent *identity.User) (*store.SupportTicket, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	if ticket.AssignedAgentID == "" && ticket.FirstResponseTime == 0 {
		ticket.FirstResponseTime = time.Since(ticket.CreatedAt)
	}

	ticket.AssignedAgentID = agent.ID
	ticket.Status = store.TicketInProgress
	ticket.UpdatedAt = time.Now()

	if err := s.store.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("saving assignment: %w", err)
	}

	s.logger.Info("ticket assigned", "ticket_id", ticket.ID, "agent_id", agent.ID)
	s.publish(notify.TicketUpdated, ticket)
	return ticket, nil
}

// AutoSelect picks the ticket a dashboard should open on load: the first
// ticket with no assigned agent, else the first ticket in store order.
// Returns nil for an empty list.
func AutoSelect(tickets []*store.SupportTicket) *store.SupportTicket {
	for _, t := range tickets {
		if t.AssignedAgentID == "" {
			return t
		}
	}
	if len(tickets) > 0 {
		return tickets[0]
	}
	return nil
}

// SetStatus applies an explicit status change and bumps UpdatedAt. Terminal
// states do not lock the ticket: resolved and escalated tickets accept
// further changes. Resolving records the resolution time once.
func (s *Service) SetStatus(ctx context.Context, ticketID string, status store.TicketStatus) (*store.SupportTicket, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	if status == store.TicketResolved && ticket.ResolutionTime == 0 {
		ticket.ResolutionTime = time.Since(ticket.CreatedAt)
	}

	ticket.Status = status
	ticket.UpdatedAt = time.Now()

	if err := s.store.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("saving status change: %w", err)
	}

	s.logger.Info("ticket status changed", "ticket_id", ticket.ID, "status", status)
	s.publish(notify.TicketUpdated, ticket)
	return ticket, nil
}

// SendAgentMessage appends an agent message to the ticket's conversation
// partition and passively bumps the ticket's UpdatedAt - nothing else on the
// ticket changes.
func (s *Service) SendAgentMessage(ctx context.Context, agent *identity.User, ticketID, content string) (*store.Message, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	msg := &store.Message{
		ID:             store.NextMessageID(),
		ConversationID: ticket.ConversationID,
		Content:        content,
		Sender:         store.SenderAgent,
		Timestamp:      time.Now(),
		Type:           store.MessageTypeText,
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("recording agent message: %w", err)
	}

	ticket.UpdatedAt = msg.Timestamp
	if err := s.store.SaveTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("bumping ticket: %w", err)
	}

	s.logger.Debug("agent message recorded",
		"ticket_id", ticket.ID,
		"conversation_id", ticket.ConversationID,
		"agent_id", agent.ID)
	s.publish(notify.TicketUpdated, ticket)
	return msg, nil
}

// Ticket returns a ticket by id, nil (without error) when it does not exist.
func (s *Service) Ticket(ctx context.Context, id string) (*store.SupportTicket, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Messages returns the ordered message log for a ticket's conversation;
// empty for an unknown conversation, never an error.
func (s *Service) Messages(ctx context.Context, conversationID string) ([]*store.Message, error) {
	return s.store.ListMessages(ctx, conversationID)
}

func (s *Service) publish(kind notify.EventKind, ticket *store.SupportTicket) {
	if s.bus == nil {
		return
	}
	t := *ticket
	s.bus.Publish(&notify.TicketEvent{
		Kind:      kind,
		Ticket:    &t,
		Timestamp: time.Now(),
	})
}
