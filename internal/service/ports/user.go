package ports

import (
	"context"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
)

// UserRepo persists accounts. Lookups return model.ErrNotFound when absent.
type UserRepo interface {
	// Create returns model.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
}
