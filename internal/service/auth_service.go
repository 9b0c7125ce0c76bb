package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgLoginSucceeded = "Autentificare reușită!"

// AuthService signs users in against the profiles table
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies the password and issues an access token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login failed: unknown user", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login failed: bad password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(&auth.UserContext{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &domain.LoginResponse{
		Message:   msgLoginSucceeded,
		UserID:    user.ID.String(),
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// EnsureAdmin creates the first admin profile when the table is empty
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         domain.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	s.logger.Info("bootstrap admin user created", zap.String("username", username))
	return nil
}
