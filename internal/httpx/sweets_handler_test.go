package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charuprabha111/sweet-shop-management/internal/auth"
	"github.com/charuprabha111/sweet-shop-management/internal/sweets"
	"github.com/charuprabha111/sweet-shop-management/internal/users"
)

type testAPI struct {
	router *chi.Mux
	users  *users.MemoryStore
	auth   *auth.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	userStore := users.NewMemoryStore()
	tokens := &auth.TokenManager{
		Secret:     []byte("test-secret"),
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	authSvc := &auth.Service{
		Logger:  logger,
		Users:   userStore,
		Tokens:  tokens,
		Refresh: auth.NewMemoryRefreshStore(),
	}
	sweetSvc := &sweets.Service{
		Store:  sweets.NewMemoryStore(),
		Gate:   auth.NewGate(),
		Logger: logger,
	}

	router := NewRouter()
	(&AuthHandler{Service: authSvc, Logger: logger}).Register(router)
	(&SweetsHandler{Service: sweetSvc, Tokens: tokens, Logger: logger}).Register(router)
	return &testAPI{router: router, users: userStore, auth: authSvc}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin returns an access token for a fresh user; staff promotes
// the account before logging in.
func (a *testAPI) registerAndLogin(t *testing.T, username string, staff bool) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "Str0ngPass!2025",
		"password2": "Str0ngPass!2025",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	if staff {
		u, err := a.users.GetByUsername(context.Background(), username)
		require.NoError(t, err)
		a.users.SetStaff(u.ID, true)
	}

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "Str0ngPass!2025",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["access"].(string)
}

func (a *testAPI) createSweet(t *testing.T, token, name, category, price string, qty int) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/sweets", token, map[string]any{
		"name": name, "category": category, "price": price, "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["id"].(string)
}

func TestRegisterReturnsToken(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com",
		"password": "Str0ngPass!2025", "password2": "Str0ngPass!2025",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, decodeBody(t, rec)["access"])
}

func TestRegisterPasswordMismatch(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "Str0ngPass!2025", "password2": "other",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsTokens(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "bob", false)

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "bob", "password": "Str0ngPass!2025",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotEmpty(t, body["access"])
	require.NotEmpty(t, body["refresh"])
	require.Equal(t, false, body["is_admin"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "bob", false)

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "bob", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", decodeBody(t, rec)["detail"])
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "carol", false)

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "carol", "password": "Str0ngPass!2025",
	})
	refresh := decodeBody(t, rec)["refresh"].(string)

	rec = api.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	access := decodeBody(t, rec)["access"].(string)

	rec = api.do(t, http.MethodGet, "/api/sweets", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSweetsRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sweets", "", map[string]any{
		"name": "Choco Bar", "category": "Candy", "price": "10.50", "quantity": 5,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/sweets", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/sweets", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndListSweet(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "owner", false)

	rec := api.do(t, http.MethodPost, "/api/sweets", token, map[string]any{
		"name": "Choco Bar", "category": "Candy", "price": "10.50", "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	require.Equal(t, "Choco Bar", body["name"])
	require.Equal(t, float64(5), body["quantity"])

	rec = api.do(t, http.MethodGet, "/api/sweets", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "Choco Bar", items[0]["name"])
}

func TestCreateSweetValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "owner", false)

	rec := api.do(t, http.MethodPost, "/api/sweets", token, map[string]any{
		"name": "", "category": "Candy", "price": "1.00", "quantity": 5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/sweets", token, map[string]any{
		"name": "Drop", "category": "Candy", "price": "-1.00", "quantity": 5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUpdateDeleteSweet(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "owner", false)
	id := api.createSweet(t, token, "Gummy", "Candy", "2.00", 5)

	rec := api.do(t, http.MethodGet, "/api/sweets/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Gummy", decodeBody(t, rec)["name"])

	rec = api.do(t, http.MethodPatch, "/api/sweets/"+id, token, map[string]any{"price": "3.50"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "3.50", body["price"])
	require.Equal(t, "Gummy", body["name"])

	rec = api.do(t, http.MethodDelete, "/api/sweets/"+id, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/sweets/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not found", decodeBody(t, rec)["detail"])
}

func TestPurchaseEndpoint(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "sam", false)
	id := api.createSweet(t, token, "Lollipop", "Candy", "5.00", 3)

	rec := api.do(t, http.MethodPost, "/api/sweets/"+id+"/purchase", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(2), decodeBody(t, rec)["quantity"])

	api.do(t, http.MethodPost, "/api/sweets/"+id+"/purchase", token, nil)
	api.do(t, http.MethodPost, "/api/sweets/"+id+"/purchase", token, nil)

	rec = api.do(t, http.MethodGet, "/api/sweets/"+id, token, nil)
	require.Equal(t, float64(0), decodeBody(t, rec)["quantity"])

	rec = api.do(t, http.MethodPost, "/api/sweets/"+id+"/purchase", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Out of stock", decodeBody(t, rec)["detail"])
}

func TestPurchaseMissingSweet(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "sam", false)

	rec := api.do(t, http.MethodPost, "/api/sweets/does-not-exist/purchase", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not found", decodeBody(t, rec)["detail"])
}

func TestRestockRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "u1", false)
	id := api.createSweet(t, token, "Milk Candy", "Candy", "5.00", 10)

	rec := api.do(t, http.MethodPost, "/api/sweets/"+id+"/restock", token, map[string]any{"amount": 5})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// forbidden wins over amount validation
	rec = api.do(t, http.MethodPost, "/api/sweets/"+id+"/restock", token, map[string]any{"amount": "junk"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCanRestock(t *testing.T) {
	api := newTestAPI(t)
	admin := api.registerAndLogin(t, "admin", true)
	id := api.createSweet(t, admin, "Mint Candy", "Candy", "2.00", 3)

	rec := api.do(t, http.MethodPost, "/api/sweets/"+id+"/restock", admin, map[string]any{"amount": 7})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, float64(10), decodeBody(t, rec)["quantity"])

	// amount as a numeric string is accepted
	rec = api.do(t, http.MethodPost, "/api/sweets/"+id+"/restock", admin, map[string]any{"amount": "5"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(15), decodeBody(t, rec)["quantity"])
}

func TestRestockInvalidAmounts(t *testing.T) {
	api := newTestAPI(t)
	admin := api.registerAndLogin(t, "admin", true)
	id := api.createSweet(t, admin, "Fudge", "Chocolate", "4.00", 4)

	bodies := []any{
		map[string]any{"amount": 0},
		map[string]any{"amount": -5},
		map[string]any{"amount": "abc"},
		map[string]any{"amount": 2.5},
		map[string]any{},
		nil,
	}
	for _, b := range bodies {
		rec := api.do(t, http.MethodPost, "/api/sweets/"+id+"/restock", admin, b)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid amount", decodeBody(t, rec)["detail"])
	}

	rec := api.do(t, http.MethodGet, "/api/sweets/"+id, admin, nil)
	require.Equal(t, float64(4), decodeBody(t, rec)["quantity"])
}

func TestRestockMissingSweet(t *testing.T) {
	api := newTestAPI(t)
	admin := api.registerAndLogin(t, "admin", true)

	rec := api.do(t, http.MethodPost, "/api/sweets/nope/restock", admin, map[string]any{"amount": 5})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchSweets(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "s1", false)

	api.createSweet(t, token, "Choco Delight", "Chocolate", "50.00", 10)
	api.createSweet(t, token, "Choco Mini", "Chocolate", "20.00", 5)
	api.createSweet(t, token, "Sour Candy", "Candy", "10.00", 8)
	api.createSweet(t, token, "Luxury Bar", "Chocolate", "150.00", 2)

	listNames := func(query string) []string {
		rec := api.do(t, http.MethodGet, "/api/sweets"+query, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var items []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it["name"].(string))
		}
		return out
	}

	require.Equal(t, []string{"Choco Delight", "Choco Mini"}, listNames("?name=Choco"))
	require.Equal(t, []string{"Sour Candy"}, listNames("?category=Candy"))
	require.Equal(t, []string{"Choco Delight"}, listNames("?min_price=30&max_price=100"))
	require.Equal(t, []string{"Sour Candy"}, listNames("?q=10"))
	require.Equal(t, []string{"Choco Delight", "Choco Mini", "Luxury Bar"}, listNames("?q=choco"))
	// bad bounds are ignored, not an error
	require.Len(t, listNames("?min_price=cheap"), 4)
}
