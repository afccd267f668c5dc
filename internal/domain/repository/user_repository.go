package repository

import (
	"context"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByEmailAndRole only matches accounts holding role.
	GetByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// CountExcludingRole counts accounts whose role differs from role.
	CountExcludingRole(ctx context.Context, role entity.Role) (int64, error)
}
