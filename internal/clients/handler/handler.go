// Package handler exposes client registration and the token exchange
// over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nidegypt/internal/clients/models"
	"nidegypt/internal/clients/service"
	platformmw "nidegypt/internal/platform/middleware"
	dErrors "nidegypt/pkg/domain-errors"
	"nidegypt/pkg/platform/httputil"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the client management endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/clients", h.create)
	r.Get("/clients", h.list)
	r.Get("/clients/{id}", h.get)
}

// AuthRoutes mounts the unauthenticated token exchange endpoint.
func (h *Handler) AuthRoutes(r chi.Router) {
	r.Post("/auth/token", h.issueToken)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	APIKey      string    `json:"api_key"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	client, apiKey, err := h.svc.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.logError(r, "failed to create client", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createResponse{
		ID:          client.ID,
		Name:        client.Name,
		Description: client.Description,
		APIKey:      apiKey,
		CreatedAt:   client.CreatedAt,
	})
}

type listResponse struct {
	Clients []*models.Client `json:"clients"`
	Total   int              `json:"total"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	clients, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		h.logError(r, "failed to list clients", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listResponse{Clients: clients, Total: len(clients)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	client, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, client)
}

type tokenRequest struct {
	ClientID string `json:"client_id"`
	APIKey   string `json:"api_key"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	if req.ClientID == "" || req.APIKey == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "client_id and api_key are required"))
		return
	}

	token, expiresAt, err := h.svc.IssueToken(r.Context(), req.ClientID, req.APIKey)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"error", err,
		"request_id", platformmw.GetRequestID(r.Context()),
	)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
