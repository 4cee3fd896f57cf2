package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/auth"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers accounts and exchanges credentials for bearer
// tokens.
type AuthService struct {
	users  ports.UserRepo
	tokens *auth.Tokens
	log    *zap.Logger
	cost   int
}

// NewAuthService constructs an AuthService.
func NewAuthService(users ports.UserRepo, tokens *auth.Tokens, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, log: log, cost: bcrypt.DefaultCost}
}

// Register creates a USER or ORGANIZER account. Admins are only created
// through EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	u, err := s.create(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *AuthService) create(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := utcNow()
	u := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks the password and issues a bearer token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, invalid("email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Debug("login rejected", zap.String("user_id", u.ID))
		return nil, model.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return &model.AuthResponse{Token: token, ExpiresAt: exp, User: u}, nil
}

// EnsureAdmin creates the bootstrap admin when no account holds email yet.
// An existing account is returned untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, invalid("admin email and a password of at least 6 characters are required")
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			s.log.Warn("bootstrap admin email belongs to a non-admin account", zap.String("user_id", existing.ID))
		}
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	u, err := s.create(ctx, strings.TrimSpace(name), email, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("bootstrap admin created", zap.String("user_id", u.ID))
	return u, nil
}
