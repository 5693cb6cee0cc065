// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides conversation/ticket/message persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			agent_id TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			category TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			last_message TEXT,
			unread_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_customer
			ON conversations(customer_id);

		CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			conversation_id TEXT NOT NULL,
			content TEXT NOT NULL,
			sender TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			type TEXT NOT NULL DEFAULT 'text',
			read INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation
			ON messages(conversation_id, seq);

		CREATE TABLE IF NOT EXISTS tickets (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			conversation_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			assigned_agent_id TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			category TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			first_response_ns INTEGER NOT NULL DEFAULT 0,
			resolution_ns INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_tickets_conversation
			ON tickets(conversation_id);

		CREATE INDEX IF NOT EXISTS idx_tickets_status
			ON tickets(status);

		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// CreateConversation inserts a new conversation.
// Returns ErrDuplicateConversation if the id is already taken.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	query := `
		INSERT INTO conversations (id, customer_id, customer_name, agent_id, status, priority, category,
			created_at, updated_at, last_message, unread_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		conv.ID,
		conv.CustomerID,
		conv.CustomerName,
		conv.AgentID,
		string(conv.Status),
		string(conv.Priority),
		string(conv.Category),
		conv.CreatedAt.UTC().Format(time.RFC3339),
		conv.UpdatedAt.UTC().Format(time.RFC3339),
		conv.LastMessage,
		conv.UnreadCount,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateConversation
		}
		return fmt.Errorf("inserting conversation: %w", err)
	}

	s.logger.Debug("created conversation", "id", conv.ID, "category", conv.Category)
	return nil
}

// SaveConversation upserts a conversation by id.
func (s *SQLiteStore) SaveConversation(ctx context.Context, conv *Conversation) error {
	query := `
		INSERT INTO conversations (id, customer_id, customer_name, agent_id, status, priority, category,
			created_at, updated_at, last_message, unread_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			customer_id = excluded.customer_id,
			customer_name = excluded.customer_name,
			agent_id = excluded.agent_id,
			status = excluded.status,
			priority = excluded.priority,
			category = excluded.category,
			updated_at = excluded.updated_at,
			last_message = excluded.last_message,
			unread_count = excluded.unread_count
	`

	_, err := s.db.ExecContext(ctx, query,
		conv.ID,
		conv.CustomerID,
		conv.CustomerName,
		conv.AgentID,
		string(conv.Status),
		string(conv.Priority),
		string(conv.Category),
		conv.CreatedAt.UTC().Format(time.RFC3339),
		conv.UpdatedAt.UTC().Format(time.RFC3339),
		conv.LastMessage,
		conv.UnreadCount,
	)
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID.
// Returns ErrNotFound if the conversation doesn't exist.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, customer_id, customer_name, agent_id, status, priority, category,
			created_at, updated_at, last_message, unread_count
		FROM conversations
		WHERE id = ?
	`

	conv, err := scanConversation(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}
	return conv, nil
}

// ListConversations returns conversations in creation order.
// limit <= 0 means no limit.
func (s *SQLiteStore) ListConversations(ctx context.Context, limit int) ([]*Conversation, error) {
	query := `
		SELECT id, customer_id, customer_name, agent_id, status, priority, category,
			created_at, updated_at, last_message, unread_count
		FROM conversations
		ORDER BY created_at ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(row scanner) (*Conversation, error) {
	var conv Conversation
	var agentID, lastMessage sql.NullString
	var createdAtStr, updatedAtStr string
	var status, priority, category string

	err := row.Scan(
		&conv.ID,
		&conv.CustomerID,
		&conv.CustomerName,
		&agentID,
		&status,
		&priority,
		&category,
		&createdAtStr,
		&updatedAtStr,
		&lastMessage,
		&conv.UnreadCount,
	)
	if err != nil {
		return nil, err
	}

	conv.AgentID = agentID.String
	conv.LastMessage = lastMessage.String
	conv.Status = ConversationStatus(status)
	conv.Priority = Priority(priority)
	conv.Category = Category(category)

	conv.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	conv.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &conv, nil
}

// AppendMessage appends a message to its conversation partition.
// The message id is assigned here if empty. Returns ErrEmptyConversationID
// when the partition key is missing.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.ConversationID == "" {
		return ErrEmptyConversationID
	}
	if msg.ID == "" {
		msg.ID = NextMessageID()
	}
	if msg.Type == "" {
		msg.Type = MessageTypeText
	}

	query := `
		INSERT INTO messages (id, conversation_id, content, sender, timestamp, type, read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.Content,
		string(msg.Sender),
		msg.Timestamp.UTC().Format(time.RFC3339Nano),
		msg.Type,
		msg.Read,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	s.logger.Debug("appended message", "id", msg.ID, "conversation_id", msg.ConversationID, "sender", msg.Sender)
	return nil
}

// ListMessages returns the full ordered message sequence for a conversation.
// An unknown conversation yields an empty slice, never an error.
func (s *SQLiteStore) ListMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	query := `
		SELECT id, conversation_id, content, sender, timestamp, type, read
		FROM messages
		WHERE conversation_id = ?
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		var msg Message
		var sender, timestampStr string
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Content,
			&sender,
			&timestampStr,
			&msg.Type,
			&msg.Read,
		); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Sender = Sender(sender)
		msg.Timestamp, err = time.Parse(time.RFC3339Nano, timestampStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// CreateTicket inserts a new ticket.
func (s *SQLiteStore) CreateTicket(ctx context.Context, ticket *SupportTicket) error {
	query := `
		INSERT INTO tickets (id, conversation_id, customer_id, customer_name, assigned_agent_id,
			status, priority, category, created_at, updated_at, first_response_ns, resolution_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.ConversationID,
		ticket.CustomerID,
		ticket.CustomerName,
		ticket.AssignedAgentID,
		string(ticket.Status),
		string(ticket.Priority),
		string(ticket.Category),
		ticket.CreatedAt.UTC().Format(time.RFC3339),
		ticket.UpdatedAt.UTC().Format(time.RFC3339),
		int64(ticket.FirstResponseTime),
		int64(ticket.ResolutionTime),
	)
	if err != nil {
		return fmt.Errorf("inserting ticket: %w", err)
	}

	s.logger.Debug("created ticket", "id", ticket.ID, "conversation_id", ticket.ConversationID)
	return nil
}

// SaveTicket upserts a ticket by id. UpdatedAt is taken as-is from the caller.
func (s *SQLiteStore) SaveTicket(ctx context.Context, ticket *SupportTicket) error {
	query := `
		INSERT INTO tickets (id, conversation_id, customer_id, customer_name, assigned_agent_id,
			status, priority, category, created_at, updated_at, first_response_ns, resolution_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			customer_id = excluded.customer_id,
			customer_name = excluded.customer_name,
			assigned_agent_id = excluded.assigned_agent_id,
			status = excluded.status,
			priority = excluded.priority,
			category = excluded.category,
			updated_at = excluded.updated_at,
			first_response_ns = excluded.first_response_ns,
			resolution_ns = excluded.resolution_ns
	`

	_, err := s.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.ConversationID,
		ticket.CustomerID,
		ticket.CustomerName,
		ticket.AssignedAgentID,
		string(ticket.Status),
		string(ticket.Priority),
		string(ticket.Category),
		ticket.CreatedAt.UTC().Format(time.RFC3339),
		ticket.UpdatedAt.UTC().Format(time.RFC3339),
		int64(ticket.FirstResponseTime),
		int64(ticket.ResolutionTime),
	)
	if err != nil {
		return fmt.Errorf("saving ticket: %w", err)
	}
	return nil
}

// GetTicket retrieves a ticket by ID.
// Returns ErrNotFound if the ticket doesn't exist.
func (s *SQLiteStore) GetTicket(ctx context.Context, id string) (*SupportTicket, error) {
	query := `
		SELECT id, conversation_id, customer_id, customer_name, assigned_agent_id,
			status, priority, category, created_at, updated_at, first_response_ns, resolution_ns
		FROM tickets
		WHERE id = ?
	`

	ticket, err := scanTicket(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying ticket: %w", err)
	}
	return ticket, nil
}

// ListTickets returns tickets in store (insertion) order.
// limit <= 0 means no limit.
func (s *SQLiteStore) ListTickets(ctx context.Context, limit int) ([]*SupportTicket, error) {
	query := `
		SELECT id, conversation_id, customer_id, customer_name, assigned_agent_id,
			status, priority, category, created_at, updated_at, first_response_ns, resolution_ns
		FROM tickets
		ORDER BY seq ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*SupportTicket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// CountTickets returns the number of persisted tickets.
func (s *SQLiteStore) CountTickets(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tickets: %w", err)
	}
	return count, nil
}

func scanTicket(row scanner) (*SupportTicket, error) {
	var ticket SupportTicket
	var assignedAgentID sql.NullString
	var createdAtStr, updatedAtStr string
	var status, priority, category string
	var firstResponseNS, resolutionNS int64

	err := row.Scan(
		&ticket.ID,
		&ticket.ConversationID,
		&ticket.CustomerID,
		&ticket.CustomerName,
		&assignedAgentID,
		&status,
		&priority,
		&category,
		&createdAtStr,
		&updatedAtStr,
		&firstResponseNS,
		&resolutionNS,
	)
	if err != nil {
		return nil, err
	}

	ticket.AssignedAgentID = assignedAgentID.String
	ticket.Status = TicketStatus(status)
	ticket.Priority = Priority(priority)
	ticket.Category = Category(category)
	ticket.FirstResponseTime = time.Duration(firstResponseNS)
	ticket.ResolutionTime = time.Duration(resolutionNS)

	ticket.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	ticket.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &ticket, nil
}

// GetValue reads a key-value record. Returns ErrNotFound for a missing key.
func (s *SQLiteStore) GetValue(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying kv: %w", err)
	}
	return value, nil
}

// SetValue writes a key-value record, replacing any existing value whole.
func (s *SQLiteStore) SetValue(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("setting kv: %w", err)
	}
	return nil
}

// RemoveValue deletes a key-value record. Removing an absent key is a no-op.
func (s *SQLiteStore) RemoveValue(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing kv: %w", err)
	}
	return nil
}
