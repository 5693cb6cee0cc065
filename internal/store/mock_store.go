// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation  // keyed by conversation ID
	convOrder     []string                  // creation order
	messages      map[string][]*Message     // keyed by conversation ID
	tickets       map[string]*SupportTicket // keyed by ticket ID
	ticketOrder   []string                  // insertion order
	kv            map[string][]byte

	// FailTicketWrites makes ticket creation fail, for exercising the
	// best-effort auto-creation path.
	FailTicketWrites error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		conversations: make(map[string]*Conversation),
		messages:      make(map[string][]*Message),
		tickets:       make(map[string]*SupportTicket),
		kv:            make(map[string][]byte),
	}
}

// CreateConversation stores a new conversation.
func (m *MockStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conversations[conv.ID]; exists {
		return ErrDuplicateConversation
	}

	// Make a copy to avoid external modification
	c := *conv
	m.conversations[c.ID] = &c
	m.convOrder = append(m.convOrder, c.ID)
	return nil
}

// SaveConversation upserts a conversation by id.
func (m *MockStore) SaveConversation(ctx context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conversations[conv.ID]; !exists {
		m.convOrder = append(m.convOrder, conv.ID)
	}
	c := *conv
	m.conversations[c.ID] = &c
	return nil
}

// GetConversation retrieves a conversation by ID.
func (m *MockStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *conv
	return &c, nil
}

// ListConversations returns conversations in creation order.
func (m *MockStore) ListConversations(ctx context.Context, limit int) ([]*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Conversation
	for _, id := range m.convOrder {
		if limit > 0 && len(out) >= limit {
			break
		}
		c := *m.conversations[id]
		out = append(out, &c)
	}
	return out, nil
}

// AppendMessage appends a message to its conversation partition.
func (m *MockStore) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.ConversationID == "" {
		return ErrEmptyConversationID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.ID == "" {
		msg.ID = NextMessageID()
	}
	if msg.Type == "" {
		msg.Type = MessageTypeText
	}
	c := *msg
	m.messages[c.ConversationID] = append(m.messages[c.ConversationID], &c)
	return nil
}

// ListMessages returns the ordered message sequence for a conversation.
func (m *MockStore) ListMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.messages[conversationID]
	out := make([]*Message, 0, len(msgs))
	for _, msg := range msgs {
		c := *msg
		out = append(out, &c)
	}
	return out, nil
}

// CreateTicket stores a new ticket.
func (m *MockStore) CreateTicket(ctx context.Context, ticket *SupportTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailTicketWrites != nil {
		return m.FailTicketWrites
	}

	t := *ticket
	if _, exists := m.tickets[t.ID]; !exists {
		m.ticketOrder = append(m.ticketOrder, t.ID)
	}
	m.tickets[t.ID] = &t
	return nil
}

// SaveTicket upserts a ticket by id.
func (m *MockStore) SaveTicket(ctx context.Context, ticket *SupportTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailTicketWrites != nil {
		return m.FailTicketWrites
	}

	if _, exists := m.tickets[ticket.ID]; !exists {
		m.ticketOrder = append(m.ticketOrder, ticket.ID)
	}
	t := *ticket
	m.tickets[t.ID] = &t
	return nil
}

// GetTicket retrieves a ticket by ID.
func (m *MockStore) GetTicket(ctx context.Context, id string) (*SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ticket, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := *ticket
	return &t, nil
}

// ListTickets returns tickets in insertion order.
func (m *MockStore) ListTickets(ctx context.Context, limit int) ([]*SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tickets := []*SupportTicket{}
	for _, id := range m.ticketOrder {
		if limit > 0 && len(tickets) >= limit {
			break
		}
		t := *m.tickets[id]
		tickets = append(tickets, &t)
	}
	return tickets, nil
}

// CountTickets returns the number of stored tickets.
func (m *MockStore) CountTickets(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tickets), nil
}

// GetValue reads a key-value record.
func (m *MockStore) GetValue(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.kv[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// SetValue writes a key-value record.
func (m *MockStore) SetValue(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.kv[key] = v
	return nil
}

// RemoveValue deletes a key-value record.
func (m *MockStore) RemoveValue(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.kv, key)
	return nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
