// ABOUTME: Identity resolver with a fixed identity table and session persistence
// ABOUTME: Supports phone-keyed customer login and username-keyed agent login

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kruxfin/support-gateway/internal/store"
)

// ErrUnknownIdentity is returned when credentials match no known identity
// and no transient identity can be synthesized.
var ErrUnknownIdentity = errors.New("unknown identity")

// sessionKey is the key-value record holding the last-logged-in identity.
const sessionKey = "current_user"

// Role distinguishes customers from support agents
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

// User is a resolved identity.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role"`
}

// Credentials carries either a phone number (customer lookup) or a
// username/display-name (agent lookup).
type Credentials struct {
	Phone    string `json:"phone,omitempty"`
	Username string `json:"username,omitempty"`
}

// knownUsers is the fixed identity table. There is no credential store;
// identity resolution is a demo-grade exact-match lookup.
var knownUsers = []User{
	{ID: "1", Name: "Rahul Sharma", Phone: "+919876543210", Role: RoleCustomer},
	{ID: "2", Name: "Priya Patel", Phone: "+919876543211", Role: RoleCustomer},
	{ID: "3", Name: "Amit Kumar", Username: "amit.kumar", Role: RoleAgent},
	{ID: "4", Name: "Sneha Singh", Username: "sneha.singh", Role: RoleAgent},
}

// SessionStore is the slice of the persisted store the resolver needs.
type SessionStore interface {
	GetValue(ctx context.Context, key string) ([]byte, error)
	SetValue(ctx context.Context, key string, value []byte) error
	RemoveValue(ctx context.Context, key string) error
}

// Resolver resolves login credentials against the identity table and keeps
// the current session in the persisted store.
type Resolver struct {
	sessions SessionStore
	logger   *slog.Logger
}

// NewResolver creates a Resolver backed by the given session store.
// Pass nil logger for default.
func NewResolver(sessions SessionStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		sessions: sessions,
		logger:   logger.With("component", "identity"),
	}
}

// Login resolves credentials to a user and persists it as the current
// session. Phone lookup is exact-match only. Username lookup matches the
// username or the display name; a miss synthesizes a transient customer from
// the given name so any name can start a chat. Returns ErrUnknownIdentity
// when nothing resolves.
func (r *Resolver) Login(ctx context.Context, creds Credentials) (*User, error) {
	var user *User

	switch {
	case creds.Phone != "":
		for i := range knownUsers {
			if knownUsers[i].Phone == creds.Phone {
				u := knownUsers[i]
				user = &u
				break
			}
		}
	case creds.Username != "":
		for i := range knownUsers {
			if knownUsers[i].Username == creds.Username || knownUsers[i].Name == creds.Username {
				u := knownUsers[i]
				user = &u
				break
			}
		}
		if user == nil {
			// Transient customer identity: any name can start a chat
			user = &User{
				ID:   uuid.New().String(),
				Name: creds.Username,
				Role: RoleCustomer,
			}
		}
	}

	if user == nil {
		return nil, ErrUnknownIdentity
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	if err := r.sessions.SetValue(ctx, sessionKey, data); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	r.logger.Info("login", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Logout clears the persisted session.
func (r *Resolver) Logout(ctx context.Context) error {
	if err := r.sessions.RemoveValue(ctx, sessionKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	r.logger.Info("logout")
	return nil
}

// CurrentUser reads the last-logged-in identity from the persisted store.
// Returns nil with no error when no session exists.
func (r *Resolver) CurrentUser(ctx context.Context) (*User, error) {
	data, err := r.sessions.GetValue(ctx, sessionKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &user, nil
}

// Lookup returns a known user by id, nil if absent. Transient identities are
// not in the table.
func Lookup(id string) *User {
	for i := range knownUsers {
		if knownUsers[i].ID == id {
			u := knownUsers[i]
			return &u
		}
	}
	return nil
}
