// Package identity resolves the acting user from request credentials. Token
// issuance and account management belong to the external identity service;
// this package only verifies what it is handed.
package identity

import "context"

// Mode selects how strictly the service resolves acting users.
type Mode string

const (
	// ModeNone disables identity resolution entirely: every operation is
	// anonymous and ownership checks are skipped.
	ModeNone Mode = "none"
	// ModeRequired demands a verified actor on every operation.
	ModeRequired Mode = "required"
)

func (m Mode) Valid() bool { return m == ModeNone || m == ModeRequired }

// RoleAdmin grants mutation rights on any post.
const RoleAdmin = "Admin"

// Actor is the identity resolved from the current request's credentials.
type Actor struct {
	ID    uint
	Name  string
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Verifier turns a raw bearer credential into an Actor.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Actor, error)
}
