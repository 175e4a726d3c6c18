package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/charuprabha111/sweet-shop-management/internal/users"
)

const minPasswordLen = 8

// Service implements register / login / refresh on top of the user store and
// the token manager.
type Service struct {
	Logger  *zap.Logger
	Users   users.Store
	Tokens  *TokenManager
	Refresh RefreshStore
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Register creates the user and returns an access token right away.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return "", &FieldError{Field: "username", Reason: "must not be empty"}
	}
	if len(in.Password) < minPasswordLen {
		return "", &FieldError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if in.Password != in.Password2 {
		return "", &FieldError{Field: "password", Reason: "Passwords must match."}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u := users.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, users.ErrExists) {
			return "", &FieldError{Field: "username", Reason: "already taken"}
		}
		return "", err
	}

	s.Logger.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return s.Tokens.Access(u)
}

type LoginOutput struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	IsAdmin bool   `json:"is_admin"`
}

func (s *Service) Login(ctx context.Context, username, password string) (LoginOutput, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return LoginOutput{}, ErrInvalidCredentials
		}
		return LoginOutput{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.Logger.Warn("invalid password attempt", zap.String("username", username))
		return LoginOutput{}, ErrInvalidCredentials
	}

	access, err := s.Tokens.Access(u)
	if err != nil {
		return LoginOutput{}, err
	}
	refresh, jti, err := s.Tokens.Refresh(u)
	if err != nil {
		return LoginOutput{}, err
	}
	if err := s.Refresh.Save(ctx, jti, u.ID, s.Tokens.RefreshTTL); err != nil {
		return LoginOutput{}, err
	}

	s.Logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("username", username))
	return LoginOutput{Access: access, Refresh: refresh, IsAdmin: u.IsStaff}, nil
}

// RefreshAccess exchanges a live refresh token for a new access token. Claims
// are re-read from the user store so a staff flag flipped after login takes
// effect on the next refresh.
func (s *Service) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.Tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID, err := s.Refresh.UserID(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if userID != claims.Subject {
		return "", ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", ErrInvalidToken
	}
	return s.Tokens.Access(u)
}
