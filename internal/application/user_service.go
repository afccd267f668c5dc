package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  entity.Address
	Role     string
}

// AuthResult is a signed-in user with the token issued for the session.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a buyer or seller account and signs it in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role, ok := entity.ParseRole(in.Role)
	if !ok || !role.SelfAssignable() {
		return nil, fail(ErrInvalidInput, "Role must be buyer or seller")
	}

	email := normalizeEmail(in.Email)
	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  in.Address.WithDefaults(),
		Role:     role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID, "role": u.Role})
	return s.issue(u, false)
}

// Login authenticates any account with a regular session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u, false)
}

// AdminLogin only matches admin accounts and issues the shorter admin token.
func (s *UserService) AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmailAndRole(ctx, normalizeEmail(email), entity.RoleAdmin)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAdminAccessDenied
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidAdminCredentials
	}
	helpers.LogInfo(s.Logger, "admin login", logrus.Fields{"user_id": u.ID})
	return s.issue(u, true)
}

func (s *UserService) issue(u *entity.User, admin bool) (*AuthResult, error) {
	var (
		token string
		exp   time.Time
		err   error
	)
	if admin {
		token, exp, err = s.JWT.GenerateAdminToken(u.ID)
	} else {
		token, exp, err = s.JWT.GenerateToken(u.ID)
	}
	if err != nil {
		helpers.LogError(s.Logger, "generate token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput holds optional changes; nil fields are left as they are.
type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Avatar  *string
	Address *entity.Address
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.Address != nil {
		u.Address = in.Address.WithDefaults()
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
