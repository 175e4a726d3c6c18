package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct{ DB *pgxpool.Pool }

const userCols = `id, username, email, password_hash, is_staff, is_superuser, created_at`

func (r *PGStore) Create(ctx context.Context, u User) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_staff, is_superuser, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsStaff, u.IsSuperuser, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrExists
		}
		return err
	}
	return nil
}

func (r *PGStore) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.scan(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username))
}

func (r *PGStore) GetByID(ctx context.Context, id string) (User, error) {
	return r.scan(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *PGStore) scan(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
