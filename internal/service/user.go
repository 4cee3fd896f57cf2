package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/pager"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"go.uber.org/zap"
)

// UserService covers profile reads and admin account management.
type UserService struct {
	users ports.UserRepo
	log   *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users ports.UserRepo, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, log: log}
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, actor *model.Claims) (*model.User, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", actor.UserID, err)
	}
	return u, nil
}

// Update edits an account. Users may edit their own name and profile
// fields; only admins may edit others or change a role. Echoing the
// current role back is not a change.
func (s *UserService) Update(ctx context.Context, actor *model.Claims, id string, req model.UpdateUserRequest) (*model.User, error) {
	if actor == nil {
		return nil, model.ErrUnauthenticated
	}
	if actor.UserID != id && !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if trimmed(req.Name) {
		return nil, invalid("name cannot be blank")
	}
	trimmed(req.Bio)
	trimmed(req.Address)
	trimmed(req.OrganizationName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if req.Role != nil && *req.Role != u.Role && !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.OrganizationName != nil {
		u.OrganizationName = *req.OrganizationName
	}
	if req.Role != nil && *req.Role != u.Role {
		s.log.Info("user role changed",
			zap.String("user_id", u.ID),
			zap.String("from", string(u.Role)),
			zap.String("to", string(*req.Role)),
			zap.String("actor_id", actor.UserID),
		)
		u.Role = *req.Role
	}
	u.UpdatedAt = utcNow()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return u, nil
}

// List pages through accounts matching q's role filter.
func (s *UserService) List(ctx context.Context, actor *model.Claims, q pager.Query) (pager.Page[*model.User], error) {
	if err := authorize(actor, model.RoleAdmin); err != nil {
		return pager.Page[*model.User]{}, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return pager.Page[*model.User]{}, fmt.Errorf("list users: %w", err)
	}
	return q.Users(users), nil
}

// Delete removes a non-admin account.
func (s *UserService) Delete(ctx context.Context, actor *model.Claims, id string) error {
	if err := authorize(actor, model.RoleAdmin); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user %s: %w", id, err)
	}
	if u.Role == model.RoleAdmin {
		return fmt.Errorf("admin accounts cannot be deleted: %w", model.ErrForbidden)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.log.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actor.UserID))
	return nil
}
