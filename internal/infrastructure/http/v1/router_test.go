package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numera/internal/core/sequence"
	"numera/internal/domain/auth"
	"numera/internal/domain/rules"
	v1 "numera/internal/infrastructure/http/v1"
	seqsvc "numera/internal/infrastructure/sequence"
	"numera/internal/infrastructure/storage/memory"
	"numera/pkg/logger"
)

type testAPI struct {
	engine http.Handler
	store  *memory.Store
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()

	order := sequence.NewRule("ORDER", "Sales orders", "ORD")
	order.DateFormat = sequence.DateFormatYearMonthDay
	order.SequenceLength = 4
	order.ResetPeriod = sequence.ResetDaily
	now := time.Now()
	order.LastResetAt = &now // counter already belongs to today
	require.NoError(t, store.Create(context.Background(), order))

	rulesService := rules.NewService(store, store)
	generator := seqsvc.NewService(store, store, store)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))

	keyHash, err := auth.HashKey("test-key")
	require.NoError(t, err)
	authService := auth.NewService(jwtService, []auth.Operator{
		{Name: "test-op", KeyHash: keyHash, Roles: []string{"generator", "admin"}},
	})

	log, err := logger.New(logger.Config{Level: "error", Development: true})
	require.NoError(t, err)

	engine := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		TokenValidator: jwtService,
		AuthService:    authService,
		Generator:      generator,
		RulesService:   rulesService,
	})

	token, _, err := jwtService.GenerateToken("test-op", []string{"generator", "admin"})
	require.NoError(t, err)

	return &testAPI{engine: engine, store: store, token: token}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestTokenEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/auth/token",
		map[string]string{"operator": "test-op", "key": "test-key"}, false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.Equal(t, "Bearer", body["tokenType"])
}

func TestTokenEndpointRejectsBadKey(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/auth/token",
		map[string]string{"operator": "test-op", "key": "nope"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/sequences/ORDER/generate", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateIssuesNumber(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/sequences/ORDER/generate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ORDER", body["ruleCode"])

	expected := "ORD" + time.Now().Format("20060102") + "0001"
	assert.Equal(t, expected, body["number"])
}

func TestGenerateNormalizesCode(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/sequences/order/generate", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateUnknownRule(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/sequences/MISSING/generate", nil, true)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "RULE_NOT_FOUND", body["code"])
}

func TestGenerateDisabledRule(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/rules/ORDER/deactivate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/sequences/ORDER/generate", nil, true)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "RULE_DISABLED", body["code"])
}

func TestPreviewDoesNotConsume(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/sequences/ORDER/preview", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	previewed := decodeBody(t, w)["number"]

	w = api.do(t, http.MethodGet, "/api/v1/sequences/ORDER/preview", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, previewed, decodeBody(t, w)["number"], "repeated previews must agree")

	w = api.do(t, http.MethodPost, "/api/v1/sequences/ORDER/generate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, previewed, decodeBody(t, w)["number"])
}

func TestPreviewWorksOnDisabledRule(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/rules/ORDER/deactivate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/sequences/ORDER/preview", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRuleCRUD(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/rules", map[string]any{
		"code":           "invoice",
		"name":           "Invoices",
		"prefix":         "INV",
		"dateFormat":     "year",
		"sequenceLength": 6,
		"resetPeriod":    "yearly",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody(t, w)
	assert.Equal(t, "INVOICE", created["code"])

	w = api.do(t, http.MethodGet, "/api/v1/rules/INVOICE", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/rules/INVOICE", map[string]any{
		"name":    "Tax invoices",
		"version": 1,
	}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tax invoices", decodeBody(t, w)["name"])

	w = api.do(t, http.MethodDelete, "/api/v1/rules/INVOICE", nil, true)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/rules/INVOICE", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuleCreateRejectsUnknownTokens(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/rules", map[string]any{
		"code":       "BAD",
		"name":       "Bad rule",
		"dateFormat": "weekly",
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetSequence(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPut, "/api/v1/rules/ORDER/sequence", map[string]any{
		"sequence": 41,
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/sequences/ORDER/generate", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	expected := "ORD" + time.Now().Format("20060102") + "0042"
	assert.Equal(t, expected, decodeBody(t, w)["number"])
}

func TestHealthLive(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health/live", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}
