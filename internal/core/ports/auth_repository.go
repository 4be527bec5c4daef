package ports

import (
	"context"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create stores user and fills in its ID and CreatedAt. A duplicate
	// email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}
