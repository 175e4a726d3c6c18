package users

import (
	"context"
	"errors"
	"time"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("username already taken")
)

type Store interface {
	Create(ctx context.Context, u User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
