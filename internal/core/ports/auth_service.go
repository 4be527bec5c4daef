package ports

import (
	"context"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

// RegisterInput carries the fields needed to open an account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID uint) (*domain.User, error)
}
