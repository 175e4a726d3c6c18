package sweets

import "context"

// Store is the inventory table. Purchase and Restock run their read-decide-write
// cycle under an exclusive per-record lock; concurrent mutations of different
// records do not block each other.
type Store interface {
	Create(ctx context.Context, s Sweet) (Sweet, error)
	Get(ctx context.Context, id string) (Sweet, error)
	List(ctx context.Context, f Filter) ([]Sweet, error)
	Update(ctx context.Context, id string, upd Update) (Sweet, error)
	Delete(ctx context.Context, id string) error
	Purchase(ctx context.Context, id string) (Sweet, error)
	Restock(ctx context.Context, id string, amount int) (Sweet, error)
}
