// ABOUTME: Server-sent events endpoint streaming ticket lifecycle events
// ABOUTME: Subscribers pick a single ticket id or "all" for the full firehose

package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kruxfin/support-gateway/internal/notify"
)

// handleTicketEvents handles GET /api/tickets/{id}/events as an SSE stream.
// The id "all" subscribes to every ticket event; the dashboard list view uses
// it to learn about tickets it has never seen. The stream ends when the
// client disconnects.
func (g *Gateway) handleTicketEvents(w http.ResponseWriter, r *http.Request, ticketID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		g.sendJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	key := ticketID
	if key == "all" {
		key = notify.KeyAll
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, subID := g.bus.Subscribe(r.Context(), key)
	g.logger.Debug("event stream opened", "key", key, "sub_id", subID)

	for {
		select {
		case <-r.Context().Done():
			g.logger.Debug("event stream closed", "key", key, "sub_id", subID)
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSEEvent(w, string(event.Kind), event); err != nil {
				g.logger.Debug("event stream write failed", "key", key, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a single SSE frame with the given event name and a
// JSON-encoded payload.
func writeSSEEvent(w http.ResponseWriter, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
