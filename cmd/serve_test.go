package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/eaglebank/loan-service/internal/command"
	"github.com/eaglebank/loan-service/internal/repository"
	"github.com/eaglebank/loan-service/shared/events"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Port:           "8080",
		GinMode:        gin.TestMode,
		AllowedOrigins: []string{"http://localhost:5173"},
		Seed:           true,
	}
}

func newTestRouter(t *testing.T, publisher command.EventPublisher) (*gin.Engine, *repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repository.NewStore()
	require.NoError(t, seedStore(store, ""))
	router, err := newRouter(testConfig(), store, publisher)
	require.NoError(t, err)
	return router, store
}

func serve(router http.Handler, method, url, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_CreatePaymentPublishesEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	router, store := newTestRouter(t, events.NewPublisher(client))

	w := serve(router, http.MethodPost, "/loans/1/payments", `{"amount": 500, "date": "2025-03-10"}`,
		map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Payment struct {
			ID          int     `json:"id"`
			LoanID      int     `json:"loan_id"`
			Amount      float64 `json:"amount"`
			PaymentDate string  `json:"payment_date"`
		} `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment created successfully", resp.Message)
	assert.Equal(t, 4, resp.Payment.ID)
	assert.Equal(t, 1, resp.Payment.LoanID)
	assert.Equal(t, 500.0, resp.Payment.Amount)
	assert.Equal(t, "2025-03-10", resp.Payment.PaymentDate)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Len(t, store.PaymentsForLoan(1), 2)

	n, err := client.XLen(context.Background(), events.LoanEventsStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRouter_GraphQLSeesNewPayment(t *testing.T) {
	router, _ := newTestRouter(t, events.NopPublisher{})

	w := serve(router, http.MethodPost, "/loans/4/payments", `{"amount": "12.5", "date": "2025-04-01"}`,
		map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	query, _ := json.Marshal(map[string]string{
		"query": `{ loans(filters: {name: "esther"}) { name principal payments { amount paymentDate } } }`,
	})
	w = serve(router, http.MethodPost, "/graphql", string(query), map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Loans []struct {
				Name      string `json:"name"`
				Principal int    `json:"principal"`
				Payments  []struct {
					Amount      float64 `json:"amount"`
					PaymentDate string  `json:"paymentDate"`
				} `json:"payments"`
			} `json:"loans"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Loans, 1)
	assert.Equal(t, "Esther's Autoparts", resp.Data.Loans[0].Name)
	assert.Equal(t, 40000, resp.Data.Loans[0].Principal)
	require.Len(t, resp.Data.Loans[0].Payments, 1)
	assert.Equal(t, 12.5, resp.Data.Loans[0].Payments[0].Amount)
	assert.Equal(t, "2025-04-01", resp.Data.Loans[0].Payments[0].PaymentDate)
}

func TestRouter_HomeHealthAndCORS(t *testing.T) {
	router, _ := newTestRouter(t, events.NopPublisher{})

	w := serve(router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the Loan Application API", w.Body.String())

	w = serve(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodOptions, "/loans/1/payments", "", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSeedStore(t *testing.T) {
	t.Run("embedded fixtures", func(t *testing.T) {
		store := repository.NewStore()
		require.NoError(t, seedStore(store, ""))
		assert.Len(t, store.Loans(), 4)
		assert.Len(t, store.Payments(), 3)
	})

	t.Run("missing file", func(t *testing.T) {
		store := repository.NewStore()
		err := seedStore(store, filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.Empty(t, store.Loans())
	})
}

func TestRunServe_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "not-a-port"

	err := runServe(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRunServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, runServe(ctx, cfg))
}
