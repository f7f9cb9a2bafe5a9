package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivee/bidprice-service/internal/auth"
	"github.com/drivee/bidprice-service/internal/engine"
	"github.com/drivee/bidprice-service/internal/httpapi"
	"github.com/drivee/bidprice-service/internal/logging"
	"github.com/drivee/bidprice-service/internal/model"
)

const flatArtefact = `{"feature_names":["price_bid_local"],"trees":[{"nodes":[{"is_leaf":true,"leaf_value":1.0}]}]}`

// testMetrics is built once: NewMetrics registers against the default
// Prometheus registry, which rejects a second registration of the same names.
var testMetrics = httpapi.NewMetrics()

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(flatArtefact), 0o644))
	loader := model.NewLoader(path, logging.NewNop())
	eng := engine.New(loader, nil, 20, false, logging.NewNop())

	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer("test-secret", 60)

	handlers := httpapi.NewHandlers(store, tokens, eng, testMetrics, logging.NewNop())
	return httpapi.NewRouter(handlers, testMetrics, []string{"*"}, logging.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestTokenEndpointRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	form := url.Values{"username": {"demo@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPriceRecommendationRequiresBearerToken(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/price-recommendation", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestPriceRecommendationEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{"username": {"demo@example.com"}, "password": {"demo"}}
	tokenReq := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	tokenReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	tokenRec := httptest.NewRecorder()
	router.ServeHTTP(tokenRec, tokenReq)
	require.Equal(t, http.StatusOK, tokenRec.Code)

	var tokenBody struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(tokenRec.Body.Bytes(), &tokenBody))

	body := `{
		"order_timestamp": ` + strconv.FormatInt(time.Now().Unix(), 10) + `,
		"distance_in_meters": 5000,
		"duration_in_seconds": 600,
		"pickup_in_meters": 500,
		"pickup_in_seconds": 60,
		"driver_rating": 4.8,
		"platform": "android",
		"price_start_local": 200
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/price-recommendation", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenBody.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"optimal_price"`)
}
