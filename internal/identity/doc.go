// Package identity resolves login credentials against a fixed identity table.
//
// # Overview
//
// There is no credential store and no passwords. Customers log in by exact
// phone number, agents by username or display name. A username that matches
// nothing synthesizes a transient customer identity so any name can start a
// chat. The last-logged-in identity persists in the store's key-value table
// and survives restarts.
package identity
