// ABOUTME: Tests for the agent ticket service
// ABOUTME: Covers seeding, defaults, assignment idempotency, status changes, and events

package support

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfin/support-gateway/internal/identity"
	"github.com/kruxfin/support-gateway/internal/notify"
	"github.com/kruxfin/support-gateway/internal/store"
)

func testAgent() *identity.User {
	return &identity.User{ID: "3", Name: "Amit Kumar", Username: "amit.kumar", Role: identity.RoleAgent}
}

func TestCreateTicket_FillsDefaults(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)

	ticket, err := svc.CreateTicket(context.Background(), &store.SupportTicket{})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.NotEmpty(t, ticket.ConversationID)
	assert.Equal(t, "unknown", ticket.CustomerID)
	assert.Equal(t, "Unknown", ticket.CustomerName)
	assert.Equal(t, store.TicketOpen, ticket.Status)
	assert.Equal(t, store.PriorityMedium, ticket.Priority)
	assert.Equal(t, store.CategoryGeneral, ticket.Category)
	assert.False(t, ticket.CreatedAt.IsZero())
	assert.False(t, ticket.UpdatedAt.IsZero())
}

func TestCreateTicket_KeepsProvidedFields(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)

	ticket, err := svc.CreateTicket(context.Background(), &store.SupportTicket{
		ConversationID: "conv-7",
		CustomerID:     "1",
		CustomerName:   "Rahul Sharma",
		Priority:       store.PriorityHigh,
		Category:       store.CategoryStatusCheck,
	})
	require.NoError(t, err)

	assert.Equal(t, "conv-7", ticket.ConversationID)
	assert.Equal(t, store.PriorityHigh, ticket.Priority)
	assert.Equal(t, store.CategoryStatusCheck, ticket.Category)
}

func TestListTickets_SeedsEmptyStore(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)

	tickets, err := svc.ListTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	assert.Equal(t, "1", tickets[0].ID)
	assert.Equal(t, "Rahul Sharma", tickets[0].CustomerName)
	assert.Equal(t, store.PriorityHigh, tickets[0].Priority)
	assert.Equal(t, store.CategoryLoanApplication, tickets[0].Category)

	assert.Equal(t, "2", tickets[1].ID)
	assert.Equal(t, "Priya Patel", tickets[1].CustomerName)
	assert.Equal(t, store.PriorityMedium, tickets[1].Priority)
	assert.Equal(t, store.CategoryDocumentHelp, tickets[1].Category)

	// A second listing does not seed again
	again, err := svc.ListTickets(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestListTickets_DoesNotSeedNonEmptyStore(t *testing.T) {
	mock := store.NewMockStore()
	require.NoError(t, mock.CreateTicket(context.Background(), &store.SupportTicket{
		ID:             "existing",
		ConversationID: "conv",
		CustomerID:     "1",
		CustomerName:   "Rahul Sharma",
		Status:         store.TicketOpen,
		Priority:       store.PriorityLow,
		Category:       store.CategoryGeneral,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}))

	svc := New(mock, nil, nil)
	tickets, err := svc.ListTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "existing", tickets[0].ID)
}

func TestAssign(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, &store.SupportTicket{CreatedAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)

	ticket, err := svc.Assign(ctx, created.ID, testAgent())
	require.NoError(t, err)

	assert.Equal(t, "3", ticket.AssignedAgentID)
	assert.Equal(t, store.TicketInProgress, ticket.Status)
	assert.Greater(t, ticket.FirstResponseTime, time.Duration(0))
}

func TestAssign_Idempotent(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, &store.SupportTicket{})
	require.NoError(t, err)

	first, err := svc.Assign(ctx, created.ID, testAgent())
	require.NoError(t, err)

	second, err := svc.Assign(ctx, created.ID, testAgent())
	require.NoError(t, err)

	assert.Equal(t, first.AssignedAgentID, second.AssignedAgentID)
	assert.Equal(t, first.Status, second.Status)
	// First response time is recorded once, on the first assignment
	assert.Equal(t, first.FirstResponseTime, second.FirstResponseTime)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestAssign_UnknownTicket(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)

	_, err := svc.Assign(context.Background(), "missing", testAgent())
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestAutoSelect(t *testing.T) {
	assigned := &store.SupportTicket{ID: "a", AssignedAgentID: "3"}
	unassigned := &store.SupportTicket{ID: "b"}

	// First unassigned wins
	assert.Equal(t, unassigned, AutoSelect([]*store.SupportTicket{assigned, unassigned}))
	// All assigned: first in store order
	assert.Equal(t, assigned, AutoSelect([]*store.SupportTicket{assigned, {ID: "c", AssignedAgentID: "4"}}))
	// Empty list
	assert.Nil(t, AutoSelect(nil))
}

func TestSetStatus(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, &store.SupportTicket{CreatedAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)

	resolved, err := svc.SetStatus(ctx, created.ID, store.TicketResolved)
	require.NoError(t, err)
	assert.Equal(t, store.TicketResolved, resolved.Status)
	assert.Greater(t, resolved.ResolutionTime, time.Duration(0))

	// Terminal states do not lock the ticket, and resolution time is
	// recorded only once
	reopened, err := svc.SetStatus(ctx, created.ID, store.TicketOpen)
	require.NoError(t, err)
	assert.Equal(t, store.TicketOpen, reopened.Status)
	assert.Equal(t, resolved.ResolutionTime, reopened.ResolutionTime)
}

func TestSendAgentMessage(t *testing.T) {
	mock := store.NewMockStore()
	svc := New(mock, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, &store.SupportTicket{ConversationID: "conv-9"})
	require.NoError(t, err)

	msg, err := svc.SendAgentMessage(ctx, testAgent(), created.ID, "How can I help?")
	require.NoError(t, err)

	assert.Equal(t, store.SenderAgent, msg.Sender)
	assert.Equal(t, "conv-9", msg.ConversationID)

	// The message landed in the conversation partition
	msgs, err := svc.Messages(ctx, "conv-9")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "How can I help?", msgs[0].Content)

	// Only UpdatedAt moved on the ticket
	after, err := mock.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Status, after.Status)
	assert.Equal(t, created.AssignedAgentID, after.AssignedAgentID)
	assert.False(t, after.UpdatedAt.Before(created.UpdatedAt))
}

func TestTicket_UnknownIsNil(t *testing.T) {
	svc := New(store.NewMockStore(), nil, nil)

	ticket, err := svc.Ticket(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, ticket)
}

func TestMutationsPublishEvents(t *testing.T) {
	bus := notify.NewBroadcaster(nil)
	defer bus.Close()

	svc := New(store.NewMockStore(), bus, nil)
	ctx := context.Background()

	events, _ := bus.Subscribe(ctx, notify.KeyAll)

	created, err := svc.CreateTicket(ctx, &store.SupportTicket{})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, created.ID, testAgent())
	require.NoError(t, err)

	wantKinds := []notify.EventKind{notify.TicketCreated, notify.TicketUpdated}
	for _, want := range wantKinds {
		select {
		case event := <-events:
			assert.Equal(t, want, event.Kind)
			assert.Equal(t, created.ID, event.Ticket.ID)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", want)
		}
	}
}
