// Package chat implements the customer-facing conversation service.
//
// # Overview
//
// The chat service owns the customer side of the system: starting
// conversations, recording customer messages, and producing bot replies via
// the classifier. All messages land in the shared append-only log before
// anything else happens; the log is the source of truth the dashboard reads
// from.
//
// # Ticket Auto-Creation
//
// Conversations in categories that need human review (status checks and
// general enquiries) open a support ticket at creation time. The ticket is
// secondary: a failure to create it is logged and never blocks or rolls back
// the conversation.
//
// # Bot Replies
//
// Replies are computed after a configurable simulated delay and persisted
// with a detached context, so a reply survives its originating HTTP request
// being torn down.
package chat
