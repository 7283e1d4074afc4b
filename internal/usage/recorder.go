// Package usage records per-request API accounting off the hot path.
// Handlers enqueue records into a bounded channel and a background
// worker persists them, so a slow store never delays a response.
package usage

import (
	"context"
	"log/slog"

	"nidegypt/internal/usage/models"
	"nidegypt/internal/usage/ports"
)

const defaultBufferSize = 256

// Recorder accepts usage records without blocking. When the buffer is
// full the record is dropped; accounting is best-effort.
type Recorder struct {
	inbox  chan models.Record
	logger *slog.Logger
}

type RecorderOption func(*Recorder)

func WithBufferSize(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.inbox = make(chan models.Record, n)
		}
	}
}

func NewRecorder(logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		inbox:  make(chan models.Record, defaultBufferSize),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record enqueues rec for persistence. Never blocks.
func (r *Recorder) Record(rec models.Record) {
	select {
	case r.inbox <- rec:
	default:
		r.logger.Warn("usage buffer full, dropping record",
			"client_id", rec.ClientID,
			"path", rec.Path,
		)
	}
}

// Worker consumes records from a Recorder and persists them.
type Worker struct {
	store  ports.Store
	inbox  <-chan models.Record
	logger *slog.Logger
}

func NewWorker(store ports.Store, recorder *Recorder, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: recorder.inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled. Store failures are
// logged and skipped; one bad record must not stall the stream.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case rec := <-w.inbox:
			w.persist(ctx, rec)
		}
	}
}

// drain flushes whatever is already buffered at shutdown, using a
// fresh context since the run context is done.
func (w *Worker) drain() {
	for {
		select {
		case rec := <-w.inbox:
			w.persist(context.Background(), rec)
		default:
			return
		}
	}
}

func (w *Worker) persist(ctx context.Context, rec models.Record) {
	if err := w.store.Append(ctx, rec); err != nil {
		w.logger.ErrorContext(ctx, "failed to persist usage record",
			"error", err,
			"client_id", rec.ClientID,
		)
	}
}
