package sweets

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Sweet struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s Sweet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(s.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if s.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if s.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return nil
}

// Update is a partial change; nil fields keep their current value.
type Update struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Quantity *int
}

func (u Update) Apply(s Sweet) Sweet {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Category != nil {
		s.Category = *u.Category
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
	if u.Quantity != nil {
		s.Quantity = *u.Quantity
	}
	return s
}
