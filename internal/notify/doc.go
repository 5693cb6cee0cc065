// Package notify provides in-memory pub/sub for ticket events.
//
// # Overview
//
// The broadcaster fans ticket lifecycle events out to subscribers so the
// dashboard learns about tickets created or changed by the chat surface
// without polling. It is strictly best-effort: no persistence, no replay, no
// delivery guarantee. State correctness always comes from the store; the
// broadcaster only accelerates awareness.
//
// # Keys
//
// Subscribers register for a single ticket id or for KeyAll ("*"), which
// receives every event. Publishing to a key nobody listens on is a silent
// no-op.
//
// # Backpressure
//
// Each subscriber has a small buffered channel. When a subscriber falls
// behind, events for it are dropped rather than blocking the publisher.
package notify
