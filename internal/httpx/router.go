package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/customers", handler.ListCustomers)
	r.Get("/customers/{id}/spending", handler.CustomerSpending)
	r.Get("/customers/{id}/orders", handler.CustomerOrders)
	r.Get("/products/top", handler.TopProducts)
	r.Get("/analytics/sales", handler.SalesAnalytics)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Post("/orders", handler.PlaceOrder)

	return otelhttp.NewHandler(r, "ecommerce-analytics")
}

// requestLogger emits one slog line per request, keeping access logs on the
// same JSON handler as the rest of the service.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.InfoContext(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
