package redisx

const (
	// Refresh-token allowlist: auth:refresh:{jti} -> user_id
	KeyRefreshToken = "auth:refresh:%s"
)
