package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/checkout/internal/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
)

type testEnv struct {
	handler http.Handler
	carts   domain.CartRepository
	orders  domain.OrderRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	carts := memory.NewCartRepository()
	orders := memory.NewOrderRepository(carts)
	orchestrator := checkout.NewOrchestrator(
		checkout.NewCartResolver(carts),
		checkout.NewPromoEvaluator(nil),
		orders,
		memory.NewOutboxRepository(),
		nil,
	)
	handler := NewHandler(orchestrator, carts, DefaultCatalog(), nil)

	return &testEnv{handler: handler.Routes(), carts: carts, orders: orders}
}

func (e *testEnv) do(t *testing.T, method, path, identity string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if identity != "" {
		req.Header.Set(HeaderIdentity, identity)
	}
	req.Header.Set(HeaderCSRFToken, "test-token")
	req.AddCookie(&http.Cookie{Name: CookieCSRFToken, Value: "test-token"})

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func validSubmitBody(sessionID, promo string) map[string]any {
	return map[string]any{
		"session_id": sessionID,
		"promo_code": promo,
		"order": map[string]string{
			"name":        "Test User",
			"address":     "1 Main St",
			"city":        "Springfield",
			"state":       "WA",
			"postal_code": "98052",
			"country":     "USA",
			"phone":       "555-0100",
			"email":       "test@example.com",
		},
	}
}

func seedCart(t *testing.T, env *testEnv, sessionID string) {
	t.Helper()
	require.NoError(t, env.carts.Add(context.Background(), domain.CartItem{
		CartID:         sessionID,
		AlbumID:        1,
		Count:          1,
		UnitPriceMinor: 1000,
	}))
}

func TestGetCheckoutReturnsEmptyForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/checkout", "TestUser", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Zero(t, payload.ID)
	require.Zero(t, payload.TotalMinor)
}

func TestGetCheckoutRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/checkout", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitCheckoutRedirectsToCompletion(t *testing.T) {
	env := newTestEnv(t)
	seedCart(t, env, "s1")

	rec := env.do(t, http.MethodPost, "/checkout", "TestUser", validSubmitBody("s1", "FREE"))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload submitAcceptedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, int64(1), payload.OrderID)
	require.Equal(t, "/checkout/complete/1", payload.Redirect)

	order, err := env.orders.Get(context.Background(), payload.OrderID)
	require.NoError(t, err)
	require.Equal(t, int64(0), order.TotalMinor)
}

func TestSubmitCheckoutRejectsUnknownPromo(t *testing.T) {
	env := newTestEnv(t)
	seedCart(t, env, "s1")

	rec := env.do(t, http.MethodPost, "/checkout", "TestUser", validSubmitBody("s1", "Invalid"))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload submitRejectedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Rejected)
	require.Equal(t, "promo_invalid", payload.Reason)
	require.Equal(t, "Test User", payload.Order.Name, "submitted form must be echoed back")

	// Отказ ничего не сохраняет и не трогает корзину.
	_, err := env.orders.Get(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	items, err := env.carts.Items(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSubmitCheckoutRejectsIncompleteForm(t *testing.T) {
	env := newTestEnv(t)
	seedCart(t, env, "s1")

	body := validSubmitBody("s1", "FREE")
	body["order"] = map[string]string{"name": "Test User"}

	rec := env.do(t, http.MethodPost, "/checkout", "TestUser", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload submitRejectedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Rejected)
	require.Equal(t, "input_invalid", payload.Reason)
}

func TestSubmitCheckoutRejectsBadJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString("{"))
	req.Header.Set(HeaderIdentity, "TestUser")
	req.Header.Set(HeaderCSRFToken, "test-token")
	req.AddCookie(&http.Cookie{Name: CookieCSRFToken, Value: "test-token"})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteCheckoutReturnsOwnOrder(t *testing.T) {
	env := newTestEnv(t)
	seedCart(t, env, "s1")

	rec := env.do(t, http.MethodPost, "/checkout", "TestUser", validSubmitBody("s1", "FREE"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/checkout/complete/1", "TestUser", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, int64(1), payload.ID)
	require.Equal(t, "TestUser", payload.Username)
}

func TestCompleteCheckoutForeignOrderLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	seedCart(t, env, "s1")

	rec := env.do(t, http.MethodPost, "/checkout", "AnotherUser", validSubmitBody("s1", "FREE"))
	require.Equal(t, http.StatusOK, rec.Code)

	foreign := env.do(t, http.MethodGet, "/checkout/complete/1", "TestUser", nil)
	missing := env.do(t, http.MethodGet, "/checkout/complete/404", "TestUser", nil)

	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.JSONEq(t, missing.Body.String(), foreign.Body.String(),
		"foreign and missing orders must be indistinguishable")
}

func TestCompleteCheckoutInvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/checkout/complete/abc", "TestUser", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersReturnsOwnHistory(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		session := fmt.Sprintf("s%d", i)
		seedCart(t, env, session)
		rec := env.do(t, http.MethodPost, "/checkout", "TestUser", validSubmitBody(session, "FREE"))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	seedCart(t, env, "other")
	rec := env.do(t, http.MethodPost, "/checkout", "AnotherUser", validSubmitBody("other", "FREE"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/orders", "TestUser", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string][]orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload["orders"], 2)
	for _, order := range payload["orders"] {
		require.Equal(t, "TestUser", order.Username)
	}
}

func TestAddCartItemUsesCatalogPrice(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/items", "TestUser", map[string]any{
		"session_id": "s1",
		"album_id":   2,
		"count":      3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var payload cartItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, int64(1099), payload.UnitPriceMinor)

	items, err := env.carts.Items(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(3), items[0].Count)
}

func TestAddCartItemUnknownAlbum(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/items", "TestUser", map[string]any{
		"session_id": "s1",
		"album_id":   999,
		"count":      1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCartItemValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/items", "TestUser", map[string]any{
		"album_id": 1,
		"count":    1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/cart/items", "TestUser", map[string]any{
		"session_id": "s1",
		"album_id":   1,
		"count":      0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
