package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/markdave123-py/docdrop/internal/config"
	db "github.com/markdave123-py/docdrop/internal/core/database"
	"github.com/markdave123-py/docdrop/internal/i18n"
	"github.com/markdave123-py/docdrop/internal/observability"
	"github.com/markdave123-py/docdrop/internal/services"
)

type downDB struct{ *db.MemoryClient }

func (downDB) Ping(context.Context) error { return errors.New("down") }

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		CORSAllowOrigins:   []string{"*"},
		MaxUploadMB:        1,
		ExtractConcurrency: 2,
		RateLimitPerMin:    100,
		DefaultLocale:      "en",
	}
}

func newRouter(t *testing.T, cfg *config.Config, dbc *db.MemoryClient) (http.Handler, *services.SelectionService) {
	t.Helper()
	observability.InitMetrics()
	bundle, err := i18n.NewBundle("en")
	require.NoError(t, err)
	sel := services.NewSelectionService(nil)
	docs := services.NewDocumentService(services.DocumentServiceDeps{DB: dbc, Selections: sel})
	return NewRouter(cfg, zap.NewNop(), Deps{DB: dbc, Selections: sel, Documents: docs, Bundle: bundle}), sel
}

func TestHealthzAndMetrics(t *testing.T) {
	r, _ := newRouter(t, testConfig(), db.NewMemoryClient())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docdrop_http_requests_total")
}

func TestHealthz_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	healthz(downDB{db.NewMemoryClient()})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_RequiresTokenWhenSecretSet(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "s3cret"
	r, sel := newRouter(t, cfg, db.NewMemoryClient())
	sess := sel.Create("Docs", true, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/selections/"+sess.ID, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/selections/"+sess.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the HTML flow is not behind the API guard
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/selections/"+sess.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RateLimitsMutatingRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMin = 2
	r, _ := newRouter(t, cfg, db.NewMemoryClient())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/selections", bytes.NewBufferString(`{"label":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestNewApp_InMemory(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a, err := NewApp(context.Background(), testConfig(), zap.New(core))
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &db.MemoryClient{}, a.DBClient)
	assert.Nil(t, a.ObjectClient)
	assert.NotNil(t, a.Server)

	loaded := logs.FilterMessage("locales loaded").All()
	require.Len(t, loaded, 1)
	assert.Equal(t, []any{"en", "es"}, loaded[0].ContextMap()["languages"])
}
