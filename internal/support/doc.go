// Package support implements the agent-facing ticket service.
//
// # Overview
//
// The support service owns the dashboard side of the system: listing and
// seeding tickets, assignment, status changes, and agent messages into a
// ticket's conversation. Every mutation fans out a ticket event through the
// notify broadcaster.
//
// # Seeding
//
// The first ticket list on an empty store seeds a fixed pair of demo tickets
// so the dashboard is never blank on first run. Seeding happens at most once
// per process and only while the store is still empty.
//
// # Assignment
//
// Assigning a ticket sets the assignee, forces status in_progress, and
// records the time to first response on the first assignment. Re-assigning a
// ticket the agent already holds is idempotent. Terminal statuses do not
// lock a ticket; resolved and escalated tickets accept further changes.
package support
