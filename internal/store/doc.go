// Package store provides persistent storage for support-gateway.
//
// # Overview
//
// The store is the single shared source of truth for both product surfaces:
// the customer chat and the agent dashboard read and write the same
// conversations, messages, and tickets. SQLite is the production backend; a
// MockStore supports unit tests.
//
// # Entities
//
// Three domain entities plus a small key-value table:
//
//   - Conversation: a customer chat thread with status, priority, category,
//     and denormalized last-message fields for list views
//   - Message: an immutable entry in a conversation's append-only log,
//     attributed to customer, agent, or bot
//   - SupportTicket: the agent-facing work item, optionally linked to a
//     conversation, with assignment and response-time metrics
//   - key-value records: opaque blobs for session state
//
// # Semantics
//
// Messages are append-only and never mutated after the fact. Ordering within
// a conversation is insertion order, enforced by a monotonic sequence column.
// Message ids come from NextMessageID, a wall-clock generator that never
// repeats within a process.
//
// Reads of unknown entities return ErrNotFound (single gets) or an empty
// slice (lists). Writes are last-write-wins; there is no optimistic locking.
//
// # Usage
//
// Open the production store:
//
//	s, err := store.NewSQLiteStore("/var/lib/krux-support/gateway.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
package store
