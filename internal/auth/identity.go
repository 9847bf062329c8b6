package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
)

// ErrUnknownPrincipal means an authenticated name has no user record, which
// happens when an account is deleted while its session is still valid.
var ErrUnknownPrincipal = errors.New("user does not exist")

// UserLookup is the read side of the user store.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Identity turns an already-authenticated principal name into its User
// record. It performs no credential checks.
type Identity struct {
	users UserLookup
}

func NewIdentity(users UserLookup) *Identity {
	return &Identity{users: users}
}

// ResolvePrincipal returns the User for username. The error wraps both
// ErrUnknownPrincipal and storage.ErrNotFound when the user does not exist.
func (i *Identity) ResolvePrincipal(ctx context.Context, username string) (*models.User, error) {
	user, err := i.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnknownPrincipal, username, err)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
