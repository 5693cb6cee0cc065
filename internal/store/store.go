// ABOUTME: Store interface and data types for support-gateway persistence
// ABOUTME: Defines Conversation, Message, SupportTicket structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateConversation is returned when trying to create a conversation that already exists
var ErrDuplicateConversation = errors.New("conversation already exists")

// ErrEmptyConversationID is returned when appending a message without a conversation id
var ErrEmptyConversationID = errors.New("conversation id is empty")

// Sender identifies who authored a message
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
	SenderBot      Sender = "bot"
)

// MessageType constants for message types
const (
	MessageTypeText   = "text"   // Regular text message
	MessageTypeSystem = "system" // System notice
	MessageTypeFile   = "file"   // File attachment
)

// ConversationStatus is the lifecycle state of a customer conversation
type ConversationStatus string

const (
	ConversationActive    ConversationStatus = "active"
	ConversationPending   ConversationStatus = "pending"
	ConversationResolved  ConversationStatus = "resolved"
	ConversationEscalated ConversationStatus = "escalated"
)

// Priority applies to both conversations and tickets
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Category is the customer's declared intent for a conversation
type Category string

const (
	CategoryLoanApplication Category = "loan_application"
	CategoryDocumentHelp    Category = "document_help"
	CategoryStatusCheck     Category = "status_check"
	CategoryGeneral         Category = "general"
)

// ValidCategory reports whether c is one of the known conversation categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryLoanApplication, CategoryDocumentHelp, CategoryStatusCheck, CategoryGeneral:
		return true
	}
	return false
}

// TicketStatus is the lifecycle state of a support ticket.
// Terminal states (resolved, escalated) do not block further messages
// or status changes.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketEscalated  TicketStatus = "escalated"
)

// Message is a single entry in a conversation's message log.
// Messages are immutable once appended; ordering is insertion order
// within the conversation partition.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Content        string    `json:"content"`
	Sender         Sender    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
	Type           string    `json:"type"`
	Read           bool      `json:"read"`
}

// Conversation is one customer chat session, categorized by intent.
// Owned by the customer-chat side; the agent side reads it only through
// its linked ticket.
type Conversation struct {
	ID           string             `json:"id"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	AgentID      string             `json:"agent_id,omitempty"`
	Status       ConversationStatus `json:"status"`
	Priority     Priority           `json:"priority"`
	Category     Category           `json:"category"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	LastMessage  string             `json:"last_message,omitempty"`
	UnreadCount  int                `json:"unread_count"`
}

// SupportTicket is the agent-facing unit of work derived from a conversation.
// At most one ticket per conversation is created at conversation-creation
// time; nothing guards against a second ticket arriving through another path.
type SupportTicket struct {
	ID                string        `json:"id"`
	ConversationID    string        `json:"conversation_id"`
	CustomerID        string        `json:"customer_id"`
	CustomerName      string        `json:"customer_name"`
	AssignedAgentID   string        `json:"assigned_agent_id,omitempty"`
	Status            TicketStatus  `json:"status"`
	Priority          Priority      `json:"priority"`
	Category          Category      `json:"category"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	FirstResponseTime time.Duration `json:"first_response_time,omitempty"`
	ResolutionTime    time.Duration `json:"resolution_time,omitempty"`
}

// Store defines the interface for conversation, ticket, and message persistence
type Store interface {
	// Conversations
	CreateConversation(ctx context.Context, conv *Conversation) error
	SaveConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, limit int) ([]*Conversation, error)

	// Message log (append-only, partitioned by conversation id)
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)

	// Tickets
	CreateTicket(ctx context.Context, ticket *SupportTicket) error
	SaveTicket(ctx context.Context, ticket *SupportTicket) error
	GetTicket(ctx context.Context, id string) (*SupportTicket, error)
	ListTickets(ctx context.Context, limit int) ([]*SupportTicket, error)
	CountTickets(ctx context.Context) (int, error)

	// Generic key-value records (whole-value JSON, no partial updates)
	GetValue(ctx context.Context, key string) ([]byte, error)
	SetValue(ctx context.Context, key string, value []byte) error
	RemoveValue(ctx context.Context, key string) error

	// Close releases any resources held by the store
	Close() error
}
