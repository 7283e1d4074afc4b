package usage

import (
	"net/http"
	"time"

	platformmw "nidegypt/internal/platform/middleware"
	"nidegypt/internal/usage/models"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records one usage entry per authenticated request. Must
// run after the auth middleware so the client identity is in context.
func Middleware(recorder *Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			clientID := platformmw.GetClientID(r.Context())
			if clientID == "" {
				return
			}
			recorder.Record(models.NewRecord(
				clientID,
				r.URL.Path,
				r.Method,
				rec.status,
				time.Since(start),
				r.UserAgent(),
				start,
			))
		})
	}
}
