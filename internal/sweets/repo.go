package sweets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on postgres. Mutations lock the target row with
// SELECT ... FOR UPDATE inside a transaction; any failure rolls back whole.
type PGStore struct{ DB *pgxpool.Pool }

const sweetCols = `id, name, category, price, quantity, created_at, updated_at`

func scanSweet(row pgx.Row) (Sweet, error) {
	var s Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sweet{}, ErrNotFound
	}
	return s, err
}

func (r *PGStore) Create(ctx context.Context, s Sweet) (Sweet, error) {
	if err := s.Validate(); err != nil {
		return Sweet{}, err
	}
	s.ID = uuid.NewString()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	_, err := r.DB.Exec(ctx, `
		INSERT INTO sweets (id, name, category, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return Sweet{}, err
	}
	return s, nil
}

func (r *PGStore) Get(ctx context.Context, id string) (Sweet, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+sweetCols+` FROM sweets WHERE id=$1`, id)
	return scanSweet(row)
}

func (r *PGStore) List(ctx context.Context, f Filter) ([]Sweet, error) {
	q := `SELECT ` + sweetCols + ` FROM sweets`
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		like := "%" + f.Query + "%"
		cond := fmt.Sprintf("(name ILIKE %s OR category ILIKE %s", arg(like), arg(like))
		if f.QueryPrice != nil {
			cond += fmt.Sprintf(" OR price = %s", arg(*f.QueryPrice))
		}
		cond += ")"
		conds = append(conds, cond)
	} else {
		if f.Name != "" {
			conds = append(conds, fmt.Sprintf("name ILIKE %s", arg("%"+f.Name+"%")))
		}
		if f.Category != "" {
			conds = append(conds, fmt.Sprintf("lower(category) = lower(%s)", arg(f.Category)))
		}
		if f.MinPrice != nil {
			conds = append(conds, fmt.Sprintf("price >= %s", arg(*f.MinPrice)))
		}
		if f.MaxPrice != nil {
			conds = append(conds, fmt.Sprintf("price <= %s", arg(*f.MaxPrice)))
		}
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at, id"

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Sweet, 0)
	for rows.Next() {
		var s Sweet
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGStore) Update(ctx context.Context, id string, upd Update) (Sweet, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sweet{}, err
	}
	defer tx.Rollback(ctx)

	s, err := scanSweet(tx.QueryRow(ctx, `SELECT `+sweetCols+` FROM sweets WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return Sweet{}, err
	}

	s = upd.Apply(s)
	if err := s.Validate(); err != nil {
		return Sweet{}, err
	}
	s.UpdatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		UPDATE sweets SET name=$2, category=$3, price=$4, quantity=$5, updated_at=$6
		WHERE id=$1`,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.UpdatedAt)
	if err != nil {
		return Sweet{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Sweet{}, err
	}
	return s, nil
}

func (r *PGStore) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM sweets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Purchase: lock row -> reject when empty -> decrement by one.
func (r *PGStore) Purchase(ctx context.Context, id string) (Sweet, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sweet{}, err
	}
	defer tx.Rollback(ctx)

	s, err := scanSweet(tx.QueryRow(ctx, `SELECT `+sweetCols+` FROM sweets WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return Sweet{}, err
	}
	if s.Quantity <= 0 {
		return Sweet{}, ErrOutOfStock // rollback via defer
	}

	s.Quantity--
	s.UpdatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `UPDATE sweets SET quantity=$2, updated_at=$3 WHERE id=$1`,
		s.ID, s.Quantity, s.UpdatedAt)
	if err != nil {
		return Sweet{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Sweet{}, err
	}
	return s, nil
}

// Restock: lock row -> increment. Amount validity is checked by the service
// before any lock is taken.
func (r *PGStore) Restock(ctx context.Context, id string, amount int) (Sweet, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sweet{}, err
	}
	defer tx.Rollback(ctx)

	s, err := scanSweet(tx.QueryRow(ctx, `SELECT `+sweetCols+` FROM sweets WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return Sweet{}, err
	}

	s.Quantity += amount
	s.UpdatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx, `UPDATE sweets SET quantity=$2, updated_at=$3 WHERE id=$1`,
		s.ID, s.Quantity, s.UpdatedAt)
	if err != nil {
		return Sweet{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Sweet{}, err
	}
	return s, nil
}
