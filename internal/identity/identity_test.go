// ABOUTME: Tests for the identity resolver
// ABOUTME: Covers phone and username login, transient identities, and session persistence

package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfin/support-gateway/internal/store"
)

func newTestResolver() *Resolver {
	return NewResolver(store.NewMockStore(), nil)
}

func TestLogin_CustomerByPhone(t *testing.T) {
	r := newTestResolver()

	user, err := r.Login(context.Background(), Credentials{Phone: "+919876543210"})
	require.NoError(t, err)

	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "Rahul Sharma", user.Name)
	assert.Equal(t, RoleCustomer, user.Role)
}

func TestLogin_UnknownPhone(t *testing.T) {
	r := newTestResolver()

	_, err := r.Login(context.Background(), Credentials{Phone: "+910000000000"})
	assert.ErrorIs(t, err, ErrUnknownIdentity)
}

func TestLogin_AgentByUsername(t *testing.T) {
	r := newTestResolver()

	user, err := r.Login(context.Background(), Credentials{Username: "amit.kumar"})
	require.NoError(t, err)

	assert.Equal(t, "3", user.ID)
	assert.Equal(t, RoleAgent, user.Role)
}

func TestLogin_AgentByDisplayName(t *testing.T) {
	r := newTestResolver()

	user, err := r.Login(context.Background(), Credentials{Username: "Sneha Singh"})
	require.NoError(t, err)

	assert.Equal(t, "4", user.ID)
	assert.Equal(t, RoleAgent, user.Role)
}

func TestLogin_UnknownNameSynthesizesCustomer(t *testing.T) {
	r := newTestResolver()

	user, err := r.Login(context.Background(), Credentials{Username: "Walk-in Visitor"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Walk-in Visitor", user.Name)
	assert.Equal(t, RoleCustomer, user.Role)

	// Transient identities are not in the fixed table
	assert.Nil(t, Lookup(user.ID))
}

func TestLogin_EmptyCredentials(t *testing.T) {
	r := newTestResolver()

	_, err := r.Login(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrUnknownIdentity)
}

func TestSessionPersistsAcrossResolvers(t *testing.T) {
	mock := store.NewMockStore()
	ctx := context.Background()

	r1 := NewResolver(mock, nil)
	_, err := r1.Login(ctx, Credentials{Phone: "+919876543211"})
	require.NoError(t, err)

	// A fresh resolver over the same store sees the session
	r2 := NewResolver(mock, nil)
	user, err := r2.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "2", user.ID)
	assert.Equal(t, "Priya Patel", user.Name)
}

func TestLogoutClearsSession(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	_, err := r.Login(ctx, Credentials{Phone: "+919876543210"})
	require.NoError(t, err)

	require.NoError(t, r.Logout(ctx))

	user, err := r.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUser_NoSession(t *testing.T) {
	r := newTestResolver()

	user, err := r.CurrentUser(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestLookup(t *testing.T) {
	user := Lookup("3")
	require.NotNil(t, user)
	assert.Equal(t, "Amit Kumar", user.Name)

	assert.Nil(t, Lookup("does-not-exist"))
}
