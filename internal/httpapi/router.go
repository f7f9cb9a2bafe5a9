package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/drivee/bidprice-service/internal/logging"
)

// NewRouter wires the full HTTP surface: auth, price recommendation,
// health, and operational metrics, behind the shared request-ID, access
// log, panic recovery, and CORS middleware.
func NewRouter(h *Handlers, metrics *Metrics, allowedOrigins []string, log *logging.Logger) http.Handler {
	r := mux.NewRouter()

	r.Handle("/auth/token", instrument(metrics, "/auth/token", http.HandlerFunc(h.Token))).Methods(http.MethodPost)
	r.Handle("/api/v1/orders/price-recommendation",
		instrument(metrics, "/api/v1/orders/price-recommendation", http.HandlerFunc(h.PriceRecommendation)),
	).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler).Methods(http.MethodGet)

	r.Use(requestID)
	r.Use(recoverPanic(log))
	r.Use(accessLog(log))
	r.Use(cors(allowedOrigins))

	return r
}

// instrument wraps next with request-count and duration observation,
// keyed by the route pattern rather than the raw path.
func instrument(metrics *Metrics, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.statusCode)).Inc()
	})
}
