// Package auth signs users in and out and tells subscribers when the
// signed-in user changes.
package auth

import (
	"context"

	"github.com/pders01/flix/internal/storage"
)

// Provider is the identity collaborator the UI talks to.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*storage.User, error)
	SignUp(ctx context.Context, name, email, password string) (*storage.User, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns nil when nobody is signed in.
	CurrentUser() *storage.User
	// Subscribe calls fn with the current user right away and again after
	// every change. The returned func stops the notifications.
	Subscribe(fn func(*storage.User)) (unsubscribe func())
}
