package sweets

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fixture() []Sweet {
	mk := func(name, category string, price int64) Sweet {
		return Sweet{Name: name, Category: category, Price: decimal.NewFromInt(price)}
	}
	return []Sweet{
		mk("Choco Delight", "Chocolate", 50),
		mk("Choco Mini", "Chocolate", 20),
		mk("Sour Candy", "Candy", 10),
		mk("Luxury Bar", "Chocolate", 150),
	}
}

func names(in []Sweet, f Filter) []string {
	var out []string
	for _, s := range in {
		if f.Matches(s) {
			out = append(out, s.Name)
		}
	}
	return out
}

func TestParseFilter(t *testing.T) {
	f := ParseFilter(url.Values{
		"name":      {"Choco"},
		"category":  {"Chocolate"},
		"min_price": {"30"},
		"max_price": {"100"},
	})
	require.Equal(t, "Choco", f.Name)
	require.Equal(t, "Chocolate", f.Category)
	require.True(t, f.MinPrice.Equal(decimal.NewFromInt(30)))
	require.True(t, f.MaxPrice.Equal(decimal.NewFromInt(100)))
	require.Empty(t, f.Query)
}

func TestParseFilterIgnoresBadBounds(t *testing.T) {
	f := ParseFilter(url.Values{"min_price": {"cheap"}, "max_price": {""}})
	require.Nil(t, f.MinPrice)
	require.Nil(t, f.MaxPrice)
}

func TestParseFilterNumericQuery(t *testing.T) {
	f := ParseFilter(url.Values{"q": {"10"}})
	require.Equal(t, "10", f.Query)
	require.NotNil(t, f.QueryPrice)
	require.True(t, f.QueryPrice.Equal(decimal.NewFromInt(10)))

	f = ParseFilter(url.Values{"q": {"choco"}})
	require.Nil(t, f.QueryPrice)
}

func TestFilterMatches(t *testing.T) {
	in := fixture()

	tests := []struct {
		name   string
		vals   url.Values
		expect []string
	}{
		{
			name:   "no params matches everything",
			vals:   url.Values{},
			expect: []string{"Choco Delight", "Choco Mini", "Sour Candy", "Luxury Bar"},
		},
		{
			name:   "name substring, case-insensitive",
			vals:   url.Values{"name": {"choco"}},
			expect: []string{"Choco Delight", "Choco Mini"},
		},
		{
			name:   "category exact, case-insensitive",
			vals:   url.Values{"category": {"candy"}},
			expect: []string{"Sour Candy"},
		},
		{
			name:   "price range is inclusive and conjunctive",
			vals:   url.Values{"min_price": {"30"}, "max_price": {"100"}},
			expect: []string{"Choco Delight"},
		},
		{
			name:   "min_price alone",
			vals:   url.Values{"min_price": {"50"}},
			expect: []string{"Choco Delight", "Luxury Bar"},
		},
		{
			name:   "name and category compose with AND",
			vals:   url.Values{"name": {"Choco"}, "category": {"Candy"}},
			expect: nil,
		},
		{
			name:   "q matches name or category",
			vals:   url.Values{"q": {"choco"}},
			expect: []string{"Choco Delight", "Choco Mini", "Luxury Bar"},
		},
		{
			name:   "numeric q matches exact price too",
			vals:   url.Values{"q": {"10"}},
			expect: []string{"Sour Candy"},
		},
		{
			name:   "q is exclusive of the specific filters",
			vals:   url.Values{"q": {"Candy"}, "min_price": {"1000"}},
			expect: []string{"Sour Candy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expect, names(in, ParseFilter(tt.vals)))
		})
	}
}
