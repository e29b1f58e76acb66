package service

import (
	"context"
	"strings"
	"time"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/pkg/database"
	"go-inventory-crm/pkg/jwt"
	"go-inventory-crm/pkg/password"
)

const minPasswordLength = 6

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*model.Identity, error)
	// EnsureDefaultAccounts creates the built-in accounts that are missing. Existing ones are untouched.
	EnsureDefaultAccounts(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ValidateToken(token string) (*model.Identity, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      model.Identity `json:"user"`
}

type authService struct {
	users           repository.AdminUserRepository
	tokens          *jwt.Issuer
	defaultPassword string
}

func NewAuthService(users repository.AdminUserRepository, tokens *jwt.Issuer, defaultPassword string) AuthService {
	return &authService{users: users, tokens: tokens, defaultPassword: defaultPassword}
}

func (s *authService) Authenticate(ctx context.Context, username, pw string) (*model.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || pw == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(pw) {
		return nil, ErrInvalidCredentials
	}
	id := user.Identity()
	return &id, nil
}

func (s *authService) EnsureDefaultAccounts(ctx context.Context) error {
	for _, acct := range model.DefaultAccounts {
		_, err := s.users.FindByUsername(ctx, acct.Username)
		if err == nil {
			continue
		}
		if !database.IsNotFound(err) {
			return err
		}

		user := &model.AdminUser{Username: acct.Username, DisplayName: acct.DisplayName}
		if err := user.SetPassword(s.defaultPassword); err != nil {
			return err
		}
		if err := s.users.Create(ctx, user); err != nil {
			// another process created it first
			if database.IsUniqueViolation(err) {
				continue
			}
			return err
		}
		logger.Infow("default_account_created", "username", acct.Username)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, pw string) (*LoginResponse, error) {
	id, err := s.Authenticate(ctx, username, pw)
	if err != nil {
		logFailure("login_failed", err, "username", username)
		return nil, err
	}
	token, expiresAt, err := s.tokens.GenerateToken(*id)
	if err != nil {
		logger.Errorw("token_sign_failed", "username", id.Username, "error", err)
		return nil, err
	}
	logger.Infow("login_succeeded", "username", id.Username)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: *id}, nil
}

func (s *authService) ValidateToken(token string) (*model.Identity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	id := claims.Identity()
	return &id, nil
}

func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return notFoundAs(err, ErrAccountNotFound)
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return notFoundAs(err, ErrAccountNotFound)
	}
	logger.Infow("password_reset", "username", user.Username)
	return nil
}
