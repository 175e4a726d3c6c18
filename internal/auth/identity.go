package auth

import "context"

// Identity is a caller resolved from a verified access token. The domain code
// only consumes it; it never constructs or verifies tokens itself.
type Identity struct {
	UserID      string
	Username    string
	IsStaff     bool
	IsSuperuser bool
}

type ctxKeyIdentity struct{}

var identityKey = ctxKeyIdentity{}

func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok
}
