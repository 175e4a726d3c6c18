package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charuprabha111/sweet-shop-management/internal/auth"
	"github.com/charuprabha111/sweet-shop-management/internal/sweets"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

// writeError maps the domain error taxonomy onto the stable HTTP contract.
func writeError(w http.ResponseWriter, err error) {
	var ve *sweets.ValidationError
	var fe *auth.FieldError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail": "validation failed",
			"errors": map[string]string{ve.Field: ve.Reason},
		})
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail": "validation failed",
			"errors": map[string]string{fe.Field: fe.Reason},
		})
	case errors.Is(err, sweets.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, sweets.ErrOutOfStock):
		writeDetail(w, http.StatusBadRequest, "Out of stock")
	case errors.Is(err, sweets.ErrInvalidAmount):
		writeDetail(w, http.StatusBadRequest, "Invalid amount")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeDetail(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, auth.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
	default:
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}
