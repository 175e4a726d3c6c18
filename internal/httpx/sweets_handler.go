package httpx

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/charuprabha111/sweet-shop-management/internal/auth"
	"github.com/charuprabha111/sweet-shop-management/internal/sweets"
)

type SweetsHandler struct {
	Service *sweets.Service
	Tokens  *auth.TokenManager
	Logger  *zap.Logger
}

func (h *SweetsHandler) Register(r *chi.Mux) {
	r.Route("/api/sweets", func(r chi.Router) {
		r.Use(RequireAuth(h.Tokens))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/purchase", h.purchase)
		r.Post("/{id}/restock", h.restock)
	})
}

// sweetPayload covers both create and update bodies; absent fields stay nil.
type sweetPayload struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
}

func identity(r *http.Request) *auth.Identity {
	ident, _ := auth.IdentityFromContext(r.Context())
	return ident
}

func (h *SweetsHandler) create(w http.ResponseWriter, r *http.Request) {
	var p sweetPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}

	var in sweets.Sweet
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.Quantity != nil {
		in.Quantity = *p.Quantity
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sw, err := h.Service.Create(ctx, identity(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sw)
}

func (h *SweetsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Service.List(ctx, identity(r), sweets.ParseFilter(r.URL.Query()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SweetsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sw, err := h.Service.Get(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (h *SweetsHandler) update(w http.ResponseWriter, r *http.Request) {
	var p sweetPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sw, err := h.Service.Update(ctx, identity(r), chi.URLParam(r, "id"), sweets.Update{
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Quantity: p.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (h *SweetsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, identity(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SweetsHandler) purchase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sw, err := h.Service.Purchase(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (h *SweetsHandler) restock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount any `json:"amount"`
	}
	// body may be absent entirely; that is still "Invalid amount", not bad json
	_ = json.NewDecoder(r.Body).Decode(&req)

	// unparsable -> 0, so the service still authorizes first and a non-admin
	// gets 403 even with a bad amount
	amount, _ := parseAmount(req.Amount)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sw, err := h.Service.Restock(ctx, identity(r), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

// parseAmount accepts an integer given as a JSON number or string, matching
// the permissive contract of the original API.
func parseAmount(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}
