package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const defaultHistoryLimit = 20

// CheckoutFlow — операции оформления заказа, нужные транспортному слою.
type CheckoutFlow interface {
	Begin(identity string) (domain.Order, error)
	Submit(ctx context.Context, sub checkout.Submission) (checkout.Outcome, error)
	Complete(ctx context.Context, orderID int64, identity string) (domain.Order, error)
	History(ctx context.Context, identity string, limit int) ([]domain.Order, error)
}

// Handler — HTTP JSON-обработчики поверх ядра оформления.
type Handler struct {
	flow    CheckoutFlow
	carts   domain.CartRepository
	catalog *Catalog
	logger  *log.Entry
}

// NewHandler создаёт транспортный слой.
func NewHandler(flow CheckoutFlow, carts domain.CartRepository, catalog *Catalog, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Handler{
		flow:    flow,
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// Routes собирает маршруты и оборачивает их guard-ами.
// Guards стоят строго перед ядром: само ядро им уже доверяет.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /checkout", h.beginCheckout)
	mux.HandleFunc("POST /checkout", h.submitCheckout)
	mux.HandleFunc("GET /checkout/complete/{id}", h.completeCheckout)
	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("POST /cart/items", h.addCartItem)

	return RequireIdentity(RequireCSRFToken(mux))
}

// beginCheckout отдаёт пустую форму адреса и оплаты.
func (h *Handler) beginCheckout(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	order, err := h.flow.Begin(identity)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// submitCheckout обрабатывает отправку формы оформления.
func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.flow.Submit(r.Context(), checkout.Submission{
		SessionID:  req.SessionID,
		Identity:   identity,
		PromoCode:  req.PromoCode,
		Order:      req.Order.toOrder(),
		InputValid: req.Order.valid(),
	})
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	if outcome.State == checkout.StateRejected {
		// Отказ — не ошибка транспорта: форма возвращается на доработку.
		writeJSON(w, http.StatusOK, submitRejectedResponse{
			Rejected: true,
			Reason:   string(outcome.Reason),
			Order:    toOrderResponse(outcome.Order),
		})
		return
	}

	writeJSON(w, http.StatusOK, submitAcceptedResponse{
		OrderID:  outcome.OrderID,
		Redirect: fmt.Sprintf("/checkout/complete/%d", outcome.OrderID),
	})
}

// completeCheckout отдаёт заказ на шаге завершения.
func (h *Handler) completeCheckout(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.flow.Complete(r.Context(), orderID, identity)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// listOrders отдаёт историю заказов пользователя, свежие первыми.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	orders, err := h.flow.History(r.Context(), identity, limit)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	payload := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		payload = append(payload, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, map[string][]orderResponse{"orders": payload})
}

// addCartItem кладёт альбом в корзину сессии. Цена берётся из каталога.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Count <= 0 {
		writeError(w, http.StatusBadRequest, "count must be positive")
		return
	}

	album, ok := h.catalog.Album(req.AlbumID)
	if !ok {
		writeError(w, http.StatusNotFound, "album not found")
		return
	}

	item := domain.CartItem{
		CartID:         req.SessionID,
		AlbumID:        album.AlbumID,
		Count:          req.Count,
		UnitPriceMinor: album.PriceMinor,
	}
	if err := h.carts.Add(r.Context(), item); err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"session_id": req.SessionID,
			"album_id":   req.AlbumID,
		}).Error("failed to add cart item")
		writeError(w, http.StatusInternalServerError, "failed to add cart item")
		return
	}

	writeJSON(w, http.StatusCreated, cartItemResponse{
		CartID:         item.CartID,
		AlbumID:        item.AlbumID,
		Count:          item.Count,
		UnitPriceMinor: item.UnitPriceMinor,
	})
}

// writeFlowError переводит ошибки ядра в HTTP-статусы.
// Отсутствующий и чужой заказ дают одинаковый ответ.
func (h *Handler) writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrIdentityRequired):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrSessionRequired):
		writeError(w, http.StatusBadRequest, "session is required")
	default:
		h.logger.WithError(err).Error("checkout request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}
