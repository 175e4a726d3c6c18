package sweets

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter holds the recognized search parameters. When Query is set it is
// exclusive: the specific name/category/price filters are not applied.
// Without Query the specific filters compose with AND.
type Filter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal

	Query      string
	QueryPrice *decimal.Decimal // set when Query parses as a number
}

// ParseFilter reads query parameters. Non-numeric price bounds are dropped
// silently rather than failing the request.
func ParseFilter(vals url.Values) Filter {
	f := Filter{
		Name:     vals.Get("name"),
		Category: vals.Get("category"),
		Query:    vals.Get("q"),
	}
	if d, err := decimal.NewFromString(vals.Get("min_price")); err == nil {
		f.MinPrice = &d
	}
	if d, err := decimal.NewFromString(vals.Get("max_price")); err == nil {
		f.MaxPrice = &d
	}
	if f.Query != "" {
		if d, err := decimal.NewFromString(f.Query); err == nil {
			f.QueryPrice = &d
		}
	}
	return f
}

func (f Filter) Matches(s Sweet) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Category), q) {
			return true
		}
		return f.QueryPrice != nil && s.Price.Equal(*f.QueryPrice)
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}
