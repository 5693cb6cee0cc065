// ABOUTME: Customer-side conversation service: message flow and bot replies
// ABOUTME: All messages are recorded in the log first - the log is the source of truth

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kruxfin/support-gateway/internal/bot"
	"github.com/kruxfin/support-gateway/internal/identity"
	"github.com/kruxfin/support-gateway/internal/store"
)

// ChatStore defines what the service needs from storage
type ChatStore interface {
	CreateConversation(ctx context.Context, conv *store.Conversation) error
	SaveConversation(ctx context.Context, conv *store.Conversation) error
	GetConversation(ctx context.Context, id string) (*store.Conversation, error)
	AppendMessage(ctx context.Context, msg *store.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*store.Message, error)
}

// TicketOpener defines what the service needs from the support layer for
// best-effort ticket auto-creation.
type TicketOpener interface {
	CreateTicket(ctx context.Context, partial *store.SupportTicket) (*store.SupportTicket, error)
}

// reviewCategories lists conversation categories that spawn a support ticket
// at creation time.
var reviewCategories = map[store.Category]bool{
	store.CategoryStatusCheck: true,
	store.CategoryGeneral:     true,
}

// Service is the customer-chat side of the system. A session identity is
// passed into every operation that needs an actor; there is no ambient
// current-user state.
type Service struct {
	store      ChatStore
	tickets    TicketOpener
	classifier *bot.Classifier
	replyDelay time.Duration
	logger     *slog.Logger
}

// New creates a chat Service. replyDelay is the simulated bot thinking time;
// zero means replies are computed immediately (tests).
func New(chatStore ChatStore, tickets TicketOpener, classifier *bot.Classifier, replyDelay time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      chatStore,
		tickets:    tickets,
		classifier: classifier,
		replyDelay: replyDelay,
		logger:     logger.With("component", "chat"),
	}
}

// StartConversation creates a new conversation for the given customer and,
// when the category requires human review, opens a support ticket for it.
//
// Ticket creation is best-effort secondary behavior: a failure is logged and
// never rolls back or blocks the conversation that triggered it.
func (s *Service) StartConversation(ctx context.Context, user *identity.User, category store.Category) (*store.Conversation, error) {
	if !store.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	now := time.Now()
	conv := &store.Conversation{
		ID:           uuid.New().String(),
		CustomerID:   user.ID,
		CustomerName: user.Name,
		Status:       store.ConversationActive,
		Priority:     store.PriorityMedium,
		Category:     category,
		CreatedAt:    now,
		UpdatedAt:    now,
		UnreadCount:  0,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	s.logger.Debug("conversation started", "conversation_id", conv.ID, "category", category)

	if reviewCategories[category] {
		s.openTicket(ctx, conv, user)
	}

	return conv, nil
}

// openTicket performs the best-effort ticket auto-creation for a new
// conversation whose category needs human review. Priority derives from the
// category: general conversations are high priority, the rest medium.
func (s *Service) openTicket(ctx context.Context, conv *store.Conversation, user *identity.User) {
	priority := store.PriorityMedium
	if conv.Category == store.CategoryGeneral {
		priority = store.PriorityHigh
	}

	_, err := s.tickets.CreateTicket(ctx, &store.SupportTicket{
		ConversationID: conv.ID,
		CustomerID:     user.ID,
		CustomerName:   user.Name,
		Status:         store.TicketOpen,
		Priority:       priority,
		Category:       conv.Category,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.CreatedAt,
	})
	if err != nil {
		s.logger.Error("ticket auto-creation failed",
			"error", err,
			"conversation_id", conv.ID,
			"category", conv.Category)
	}
}

// SendMessage records a customer message, refreshes the conversation, and
// schedules the bot reply after the configured simulated latency. Returns
// the stored customer message and a channel that delivers the bot reply once
// it has been persisted.
//
// Key principle: record first, then act. The customer message is saved to
// the log before any reply is computed, so there is a record even if the
// reply path fails. The pending reply is not cancellable; dropping the
// channel just discards the notification, not the stored reply.
func (s *Service) SendMessage(ctx context.Context, user *identity.User, conversationID, content string) (*store.Message, <-chan *store.Message, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving conversation: %w", err)
	}

	now := time.Now()
	msg := &store.Message{
		ID:             store.NextMessageID(),
		ConversationID: conv.ID,
		Content:        content,
		Sender:         store.SenderCustomer,
		Timestamp:      now,
		Type:           store.MessageTypeText,
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, nil, fmt.Errorf("recording message: %w", err)
	}

	conv.UpdatedAt = now
	conv.LastMessage = content
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, nil, fmt.Errorf("refreshing conversation: %w", err)
	}

	s.logger.Debug("customer message recorded",
		"conversation_id", conv.ID,
		"message_id", msg.ID)

	replyCh := make(chan *store.Message, 1)
	go s.deliverReply(conv, content, replyCh)

	return msg, replyCh, nil
}

// deliverReply computes the bot reply after the simulated latency, persists
// it, and delivers it on ch. Persistence uses a detached timeout context so
// the reply survives the originating request being torn down.
func (s *Service) deliverReply(conv *store.Conversation, content string, ch chan<- *store.Message) {
	defer close(ch)

	if s.replyDelay > 0 {
		time.Sleep(s.replyDelay)
	}

	reply := s.classifier.Reply(content, conv)
	now := time.Now()
	botMsg := &store.Message{
		ID:             store.NextMessageID(),
		ConversationID: conv.ID,
		Content:        reply,
		Sender:         store.SenderBot,
		Timestamp:      now,
		Type:           store.MessageTypeText,
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.AppendMessage(saveCtx, botMsg); err != nil {
		s.logger.Error("failed to record bot reply",
			"error", err,
			"conversation_id", conv.ID)
		return
	}

	conv.UpdatedAt = now
	conv.LastMessage = reply
	if err := s.store.SaveConversation(saveCtx, conv); err != nil {
		s.logger.Error("failed to refresh conversation after bot reply",
			"error", err,
			"conversation_id", conv.ID)
	}

	ch <- botMsg
}

// Conversation returns a conversation by id, nil (without error) when it
// does not exist.
func (s *Service) Conversation(ctx context.Context, id string) (*store.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// History returns the ordered message log for a conversation; empty for an
// unknown conversation, never an error.
func (s *Service) History(ctx context.Context, conversationID string) ([]*store.Message, error) {
	return s.store.ListMessages(ctx, conversationID)
}
