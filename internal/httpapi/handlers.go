package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/drivee/bidprice-service/internal/apierr"
	"github.com/drivee/bidprice-service/internal/auth"
	"github.com/drivee/bidprice-service/internal/engine"
	"github.com/drivee/bidprice-service/internal/features"
	"github.com/drivee/bidprice-service/internal/logging"
)

// Handlers groups the bearer-auth and price-recommendation endpoints with
// their shared dependencies.
type Handlers struct {
	store   auth.UserStore
	tokens  *auth.TokenIssuer
	engine  *engine.Engine
	metrics *Metrics
	log     *logging.Logger
}

// NewHandlers builds a Handlers bundle.
func NewHandlers(store auth.UserStore, tokens *auth.TokenIssuer, eng *engine.Engine, metrics *Metrics, log *logging.Logger) *Handlers {
	return &Handlers{store: store, tokens: tokens, engine: eng, metrics: metrics, log: log}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"detail": message,
	})
}

// Token handles POST /auth/token, the OAuth2-password form exchange.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if !h.store.Authenticate(username, password) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.tokens.Issue(username, time.Now())
	if err != nil {
		h.writeAPIErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// PriceRecommendation handles POST /api/v1/orders/price-recommendation.
func (h *Handlers) PriceRecommendation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.bearerSubject(r); err != nil {
		h.writeAPIErr(w, err)
		return
	}

	var order features.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	result, err := h.engine.Recommend(order)
	if err != nil {
		h.writeAPIErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) bearerSubject(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authz) <= len(prefix) || authz[:len(prefix)] != prefix {
		return "", apierr.New(apierr.KindAuth, "missing bearer token")
	}
	return h.tokens.Verify(authz[len(prefix):], h.store)
}

func (h *Handlers) writeAPIErr(w http.ResponseWriter, err error) {
	apiErr, ok := apierr.As(err)
	if !ok {
		h.log.WithError(err).Error("unclassified engine failure")
		writeError(w, http.StatusBadGateway, "an unexpected error occurred")
		return
	}
	h.log.WithError(apiErr).Warn(apiErr.Kind.String())
	if apiErr.Kind == apierr.KindAuth {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeError(w, apiErr.Kind.HTTPStatus(), apiErr.Message)
}
