package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig() *config.App {
	return &config.App{
		HTTPAddr: "127.0.0.1:0",
		CORS: config.CORS{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "PATCH", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "true"},
			MaxAge:         600,
		},
	}
}

func testHandler(t *testing.T, deps ...Pinger) http.Handler {
	t.Helper()
	store := repository.NewMemoryStore(repository.DefaultCategories, []repository.Question{
		{ID: 1, Question: "What is the heaviest organ?", Answer: "Liver", Category: 1, Difficulty: 4},
	})
	svc := question.NewService(store, nil, nil, question.ServiceOptions{}, zerolog.Nop())
	return NewHandler(testConfig(), zerolog.Nop(), question.NewHTTPHandler(svc, zerolog.Nop()), nil, deps...)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(testHandler(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestQuestionRoutesAreMounted(t *testing.T) {
	rec := serve(testHandler(t), httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body["categories"], len(repository.DefaultCategories))
}

func TestUnknownRouteIsJSONNotFound(t *testing.T) {
	rec := serve(testHandler(t), httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":404,"message":"resource not found"}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(h, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, PATCH, POST, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization, true", rec.Header().Get("Access-Control-Allow-Headers"))

	preflight := httptest.NewRequest(http.MethodOptions, "/questions", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(h, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestAllowedOrigin(t *testing.T) {
	allowed := []string{"https://trivia.example"}
	assert.Equal(t, "https://trivia.example", allowedOrigin(allowed, "https://trivia.example"))
	assert.Empty(t, allowedOrigin(allowed, "https://evil.example"))
	assert.Empty(t, allowedOrigin(allowed, ""))
	assert.Equal(t, "*", allowedOrigin([]string{"*"}, ""))
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", serve(h, req).Header().Get(requestIDHeader))

	generated := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)
}

func TestRequestContextCarriesLogger(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	h := requestContext(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logging.FromContext(r.Context())
		l.Info().Msg("inside")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-9")
	serve(h, req)

	assert.Contains(t, buf.String(), `"request_id":"req-9"`)
}

func TestRecoverPanics(t *testing.T) {
	h := recoverPanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":500,"message":"internal server error"}`, rec.Body.String())
}

func TestPingReportsDependencyFailure(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	rec := serve(testHandler(t, ok), httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pong":true}`, rec.Body.String())

	rec = serve(testHandler(t, ok, down), httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFeedDisabledWithoutRedis(t *testing.T) {
	rec := serve(testHandler(t), httptest.NewRequest(http.MethodGet, "/ws/questions", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestInstrumentRecordsStatus(t *testing.T) {
	h := instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
