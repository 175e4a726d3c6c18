package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/charuprabha111/sweet-shop-management/internal/users"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims embedded in every token. is_staff / is_superuser / username mirror
// what the login response advertises, so clients can gate UI without an
// extra round trip.
type Claims struct {
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() *Identity {
	return &Identity{
		UserID:      c.Subject,
		Username:    c.Username,
		IsStaff:     c.IsStaff,
		IsSuperuser: c.IsSuperuser,
	}
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (m *TokenManager) Access(u users.User) (string, error) {
	tok, _, err := m.issue(u, TokenTypeAccess, m.AccessTTL)
	return tok, err
}

// Refresh returns the signed token plus its jti for the allowlist.
func (m *TokenManager) Refresh(u users.User) (string, string, error) {
	tok, claims, err := m.issue(u, TokenTypeRefresh, m.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return tok, claims.ID, nil
}

func (m *TokenManager) issue(u users.User, typ string, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Username:    u.Username,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		TokenType:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse verifies signature, expiry and token type. Any failure maps to
// ErrInvalidToken; callers do not need to distinguish.
func (m *TokenManager) Parse(raw, wantType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
