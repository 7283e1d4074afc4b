package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	clientshandler "nidegypt/internal/clients/handler"
	clientsservice "nidegypt/internal/clients/service"
	clientsstore "nidegypt/internal/clients/store"
	"nidegypt/internal/nid/decoder"
	nidhandler "nidegypt/internal/nid/handler"
	rlmw "nidegypt/internal/ratelimit/middleware"
	rlservice "nidegypt/internal/ratelimit/service"
	"nidegypt/internal/ratelimit/store/window"
	"nidegypt/internal/usage"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
	token  string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)

	clientsSvc, err := clientsservice.New(clientsstore.NewMemoryStore(), []byte("router-test-key"), time.Hour,
		clientsservice.WithLogger(logger))
	s.Require().NoError(err)

	rlSvc, err := rlservice.New(window.NewMemoryStore(), 3, time.Minute, rlservice.WithLogger(logger))
	s.Require().NoError(err)

	asOf := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	s.router = NewRouter(Deps{
		Logger:    logger,
		NID:       nidhandler.New(decoder.New(), logger, nidhandler.WithClock(func() time.Time { return asOf })),
		Clients:   clientshandler.New(clientsSvc, logger),
		RateLimit: rlmw.New(rlSvc, logger),
		Usage:     usage.NewRecorder(logger),
		Validator: clientsSvc,
	})

	// Register a client and exchange its key for a token.
	client, apiKey, err := clientsSvc.Create(context.Background(), "suite-client", "")
	s.Require().NoError(err)
	token, _, err := clientsSvc.IssueToken(context.Background(), client.ID, apiKey)
	s.Require().NoError(err)
	s.token = token
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.T().Helper()
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestDecode_RequiresToken() {
	rec := s.do(http.MethodPost, "/nid-egypt", "", map[string]string{"national_id": "29501011234567"})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestDecode_WithToken() {
	rec := s.do(http.MethodPost, "/nid-egypt", s.token, map[string]string{"national_id": "29501011234567"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"is_valid":true`)
	s.NotEmpty(rec.Header().Get("X-RateLimit-Limit"))
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestDecode_RateLimited() {
	for range 3 {
		rec := s.do(http.MethodPost, "/nid-egypt", s.token, map[string]string{"national_id": "29501011234567"})
		s.Require().Equal(http.StatusOK, rec.Code)
	}
	rec := s.do(http.MethodPost, "/nid-egypt", s.token, map[string]string{"national_id": "29501011234567"})
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))
}

func (s *RouterSuite) TestTokenExchange_DoesNotRequireToken() {
	rec := s.do(http.MethodPost, "/auth/token", "", map[string]string{"client_id": "x", "api_key": "y"})
	// Bad credentials, but the route itself is reachable without a token.
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "invalid client credentials")
}

func (s *RouterSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"ok"`)
}

func (s *RouterSuite) TestHealthz_DegradedOnFailingCheck() {
	h := healthHandler(map[string]func(context.Context) error{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), "degraded")
}

func (s *RouterSuite) TestMetricsEndpoint() {
	rec := s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestUnsupportedMediaType() {
	req := httptest.NewRequest(http.MethodPost, "/nid-egypt", bytes.NewBufferString("national_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}
