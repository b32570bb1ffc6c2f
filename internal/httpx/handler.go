// Package httpx exposes the query and mutation operations over a typed
// JSON HTTP surface.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/ecommerce-analytics/internal/checkout"
	"github.com/jcmexdev/ecommerce-analytics/internal/coordinator"
	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
)

type Handler struct {
	queries  *coordinator.Coordinator
	checkout *checkout.Service
	validate *validator.Validate
}

func NewHandler(queries *coordinator.Coordinator, checkout *checkout.Service) *Handler {
	return &Handler{
		queries:  queries,
		checkout: checkout,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListCustomers returns the whole customer collection.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.queries.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// CustomerSpending returns the cached spending summary for one customer.
func (h *Handler) CustomerSpending(w http.ResponseWriter, r *http.Request) {
	spending, err := h.queries.CustomerSpending(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spending)
}

// CustomerOrders returns one page of a customer's order history.
// Absent page/limit parameters fall back to the defaults.
func (h *Handler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	page, ok := intQuery(w, r, "page", 0)
	if !ok {
		return
	}
	limit, ok := intQuery(w, r, "limit", 0)
	if !ok {
		return
	}

	pageResult, err := h.queries.CustomerOrders(r.Context(), chi.URLParam(r, "id"), page, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResult)
}

// TopProducts returns the top-selling products, cached per limit.
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("limit") == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_input", "limit is required")
		return
	}
	limit, ok := intQuery(w, r, "limit", 0)
	if !ok {
		return
	}

	products, err := h.queries.TopSellingProducts(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// SalesAnalytics returns aggregated sales for an inclusive date range,
// cached per exact start/end strings.
func (h *Handler) SalesAnalytics(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_input", "start and end are required")
		return
	}

	sales, err := h.queries.SalesAnalytics(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// GetOrder returns a single order with references expanded.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.queries.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// PlaceOrder runs the placement workflow and returns the created order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	items := make([]checkout.ItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = checkout.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	slog.InfoContext(r.Context(), "placing order", "customer_id", req.CustomerID, "items", len(items))

	order, err := h.checkout.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
		CustomerID:      req.CustomerID,
		Items:           items,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress.toDomain(),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// intQuery parses an optional integer query parameter, writing a 400 and
// returning ok=false when the value is present but not a number.
func intQuery(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_input", name+" must be an integer")
		return 0, false
	}
	return v, true
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal failure of the primary data path.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *domain.NotFoundError
	var invalid *domain.InvalidInputError
	var stock *domain.InsufficientStockError

	switch {
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &invalid):
		writeError(w, r, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.As(err, &stock):
		writeError(w, r, http.StatusConflict, "insufficient_stock", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
		Path:    r.URL.Path,
	})
}
