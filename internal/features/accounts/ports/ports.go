package ports

import (
	"context"
	"errors"

	"apex-tracker/internal/features/accounts/domain"
)

// ErrNotFound is returned when the requested collection or record was never written.
var ErrNotFound = errors.New("not found")

// AccountRepository persists users and the admin credential.
type AccountRepository interface {
	LoadUsers(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error

	// LoadAdmin returns ErrNotFound when no credential has been stored.
	LoadAdmin(ctx context.Context) (*domain.AdminCredential, error)
	SaveAdmin(ctx context.Context, cred domain.AdminCredential) error
}
