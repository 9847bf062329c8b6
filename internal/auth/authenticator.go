package auth

import (
	"context"

	"github.com/mmynk/minishop/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the handler code.
type Authenticator interface {
	// Register creates a new user account with the given username and credential.
	// Returns ErrUsernameTaken if the username is already registered.
	Register(ctx context.Context, username, fullName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential is acceptable at all.
	ValidateCredential(credential string) error
}

// Hasher is a one-way transform for stored credentials.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) error
}
