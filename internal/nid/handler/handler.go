// Package handler exposes identifier decoding over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nidegypt/internal/nid/decoder"
	"nidegypt/internal/nid/metrics"
	"nidegypt/internal/nid/models"
	platformmw "nidegypt/internal/platform/middleware"
	dErrors "nidegypt/pkg/domain-errors"
	"nidegypt/pkg/platform/httputil"
)

// maxBulkSize caps one bulk request. Larger batches belong in multiple
// calls so a single client cannot monopolize the worker pool.
const maxBulkSize = 100

type Handler struct {
	dec     *decoder.Decoder
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
}

type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithClock(clock func() time.Time) Option {
	return func(h *Handler) { h.clock = clock }
}

func New(dec *decoder.Decoder, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{dec: dec, logger: logger, clock: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the decode endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/nid-egypt", h.decode)
	r.Post("/nid-egypt/bulk", h.decodeBulk)
}

type decodeRequest struct {
	NationalID string `json:"national_id"`
}

type bulkRequest struct {
	NationalIDs []string `json:"national_ids"`
}

type dateOfBirth struct {
	FullDate string `json:"full_date,omitempty"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Age      int    `json:"age"`
}

type location struct {
	GovernorateCode string `json:"governorate_code"`
	GovernorateName string `json:"governorate_name"`
}

type decodeData struct {
	NationalID     string                   `json:"national_id"`
	IsValid        bool                     `json:"is_valid"`
	DateOfBirth    *dateOfBirth             `json:"date_of_birth,omitempty"`
	Gender         string                   `json:"gender,omitempty"`
	Location       *location                `json:"location,omitempty"`
	SequenceNumber string                   `json:"sequence_number,omitempty"`
	Century        int                      `json:"century,omitempty"`
	Errors         []models.ValidationError `json:"errors,omitempty"`
}

type decodeResponse struct {
	Success bool       `json:"success"`
	Data    decodeData `json:"data"`
	Message string     `json:"message"`
}

type bulkResponse struct {
	Success      bool         `json:"success"`
	Total        int          `json:"total"`
	ValidCount   int          `json:"valid_count"`
	InvalidCount int          `json:"invalid_count"`
	Results      []decodeData `json:"results"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	res := h.dec.Decode(req.NationalID, h.clock())
	if h.metrics != nil {
		h.metrics.RecordDecode(res.Valid())
	}

	msg := "national ID is valid"
	if !res.Valid() {
		msg = "national ID failed validation"
		h.logger.InfoContext(r.Context(), "decode rejected",
			"error_count", len(res.Outcome.Errors),
			"request_id", platformmw.GetRequestID(r.Context()),
		)
	}

	httputil.WriteJSON(w, http.StatusOK, decodeResponse{
		Success: res.Valid(),
		Data:    toData(res),
		Message: msg,
	})
}

func (h *Handler) decodeBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	if len(req.NationalIDs) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "national_ids must not be empty"))
		return
	}
	if len(req.NationalIDs) > maxBulkSize {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "bulk requests are capped at 100 identifiers"))
		return
	}

	results := h.dec.DecodeMany(r.Context(), req.NationalIDs, h.clock())
	if h.metrics != nil {
		h.metrics.RecordBatch(len(results))
	}

	resp := bulkResponse{
		Success: true,
		Total:   len(results),
		Results: make([]decodeData, 0, len(results)),
	}
	for _, res := range results {
		if h.metrics != nil {
			h.metrics.RecordDecode(res.Valid())
		}
		if res.Valid() {
			resp.ValidCount++
		} else {
			resp.InvalidCount++
		}
		resp.Results = append(resp.Results, toData(res))
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// toData shapes a decode result for the wire. Partially decoded fields
// are surfaced only once the structural phase passed; before that the
// error list is the whole story.
func toData(res models.Result) decodeData {
	data := decodeData{
		NationalID: res.NationalID,
		IsValid:    res.Valid(),
		Errors:     res.Outcome.Errors,
	}
	if !res.Outcome.StructurallyValid {
		return data
	}

	dob := &dateOfBirth{
		Year:  res.Fields.BirthYear,
		Month: res.Fields.BirthMonth,
		Day:   res.Fields.BirthDay,
		Age:   res.Fields.Age,
	}
	if res.Fields.BirthDate != nil {
		dob.FullDate = res.Fields.BirthDate.Format("2006-01-02")
	}
	data.DateOfBirth = dob
	data.Gender = string(res.Fields.Gender)
	data.Location = &location{
		GovernorateCode: res.Fields.RegionCode,
		GovernorateName: res.Fields.RegionName,
	}
	data.SequenceNumber = res.Fields.SequenceNumber
	data.Century = res.Fields.Century
	return data
}
