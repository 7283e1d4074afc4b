package usage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	platformmw "nidegypt/internal/platform/middleware"
	"nidegypt/internal/usage/store"
)

func TestMiddleware_RecordsAuthenticatedRequests(t *testing.T) {
	st := store.NewMemoryStore()
	recorder := NewRecorder(discardLogger())
	worker := NewWorker(st, recorder, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	h := Middleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/nid-egypt", nil)
	req.Header.Set("User-Agent", "curl/8.0.1")
	req = req.WithContext(context.WithValue(req.Context(), platformmw.ContextKeyClientID, "client-9"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Eventually(t, func() bool { return st.Len() == 1 }, time.Second, 10*time.Millisecond)

	records, err := st.ListByClient(context.Background(), "client-9", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "/nid-egypt", records[0].Path)
	require.Equal(t, http.StatusCreated, records[0].StatusCode)
}

func TestMiddleware_SkipsUnauthenticatedRequests(t *testing.T) {
	recorder := NewRecorder(discardLogger(), WithBufferSize(1))

	h := Middleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	select {
	case <-recorder.inbox:
		t.Fatal("recorded a request with no client identity")
	default:
	}
}
