package api_gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/filebank-ledger/internal/api_gateway/handler"
	"github.com/filebank-ledger/internal/api_gateway/middleware"
	"github.com/filebank-ledger/internal/bank/components"
	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 0, ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{DataDir: t.TempDir()},
		Ledger:  config.LedgerConfig{DefaultCurrency: "NGN", SavingsInterestRate: 0.05},
	}
	store, err := filestore.Open(&cfg.Storage, logger)
	require.NoError(t, err)

	services := components.CreateServices(store, cfg, func() time.Time { return time.Now().UTC() }, logger)
	return NewServer(logger, cfg, services)
}

func do(t *testing.T, s *Server, method, path, body string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if out != nil {
		var resp handler.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return rr
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.CorrelationIDHeader))
}

func TestServer_CustomerAccountTransferFlow(t *testing.T) {
	s := newTestServer(t)

	var ada, bob handler.CustomerResponse
	rr := do(t, s, http.MethodPost, "/api/v1/customers",
		`{"first_name":"Ada","last_name":"Obi","email":"ada@example.com","password":"secret1"}`, &ada)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(t, s, http.MethodPost, "/api/v1/customers",
		`{"first_name":"Bob","last_name":"Eze","email":"bob@example.com","password":"secret2"}`, &bob)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, s, http.MethodPost, "/api/v1/customers",
		`{"first_name":"Ada","last_name":"Two","email":"ADA@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	var login handler.CustomerResponse
	rr = do(t, s, http.MethodPost, "/api/v1/customers/authenticate", `{"email":"ada@example.com","password":"secret1"}`, &login)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ada.ID, login.ID)

	var adaAcc, bobAcc handler.AccountResponse
	rr = do(t, s, http.MethodPost, "/api/v1/customers/"+ada.ID+"/accounts", `{"kind":"current"}`, &adaAcc)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "NGN", adaAcc.Currency)
	rr = do(t, s, http.MethodPost, "/api/v1/customers/"+bob.ID+"/accounts", `{"kind":"current"}`, &bobAcc)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, s, http.MethodPost, "/api/v1/accounts/"+adaAcc.AccountNumber+"/deposits", `{"amount":"800"}`, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var txs handler.TransactionListResponse
	rr = do(t, s, http.MethodPost, "/api/v1/transfers",
		`{"from_account_number":"`+adaAcc.AccountNumber+`","to_account_number":"`+bobAcc.AccountNumber+`","amount":"100"}`, &txs)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, txs.Transactions, 2)

	rr = do(t, s, http.MethodPost, "/api/v1/transfers",
		`{"from_account_number":"`+adaAcc.AccountNumber+`","to_account_number":"`+bobAcc.AccountNumber+`","amount":"10000"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var adaAfter, bobAfter handler.AccountResponse
	do(t, s, http.MethodGet, "/api/v1/accounts/"+adaAcc.AccountNumber, "", &adaAfter)
	do(t, s, http.MethodGet, "/api/v1/accounts/"+bobAcc.AccountNumber, "", &bobAfter)
	assert.Equal(t, "700.00", adaAfter.Balance)
	assert.Equal(t, "100.00", bobAfter.Balance)

	var history handler.TransactionListResponse
	do(t, s, http.MethodGet, "/api/v1/accounts/"+adaAcc.AccountNumber+"/transactions", "", &history)
	require.Len(t, history.Transactions, 2)
	assert.Equal(t, "deposit", history.Transactions[0].Kind)
	assert.Equal(t, "withdraw", history.Transactions[1].Kind)

	var byEmail handler.AccountListResponse
	rr = do(t, s, http.MethodGet, "/api/v1/accounts?email=bob@example.com", "", &byEmail)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, byEmail.Accounts, 1)
	assert.Equal(t, bobAcc.AccountNumber, byEmail.Accounts[0].AccountNumber)
}
