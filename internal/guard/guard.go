// Package guard holds the single authorization predicate shared by the REST
// and GraphQL façades. It operates on a resolved-session abstraction rather
// than any framework request type; ownership checks are enforced further down
// by owner-scoped queries, so a foreign resource is indistinguishable from a
// missing one.
package guard

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when no user is resolved from the session.
var ErrUnauthenticated = errors.New("authentication required")

// CurrentUser is the identity resolved from the session for one request.
type CurrentUser struct {
	ID string
}

// Authenticated reports whether a user was resolved.
func (u CurrentUser) Authenticated() bool {
	return u.ID != ""
}

// Require gates access to per-user operations.
func Require(u CurrentUser) error {
	if !u.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

type contextKey struct{}

// NewContext attaches the resolved user to a request context.
func NewContext(ctx context.Context, u CurrentUser) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the resolved user, or a zero CurrentUser when the
// request carried no valid session.
func FromContext(ctx context.Context) CurrentUser {
	u, _ := ctx.Value(contextKey{}).(CurrentUser)
	return u
}
