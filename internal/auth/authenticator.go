package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator verifies who is calling the ledger. Implementations can be
// swapped (password, OAuth, passkeys) without touching the services.
type Authenticator interface {
	// Register creates a user account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, email, name, phone, credential string) (*models.User, error)

	// Authenticate returns the user owning the credentials or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
