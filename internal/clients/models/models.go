// Package models defines the service client aggregate. A client is an
// external consumer of the decoding API, identified by a UUID and
// authenticated with an API key it exchanges for a short-lived token.
package models

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "nidegypt/pkg/domain-errors"
)

const maxNameLength = 128

// Client is a registered consumer of the API. The API key itself is
// never stored, only its bcrypt hash.
type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	APIKeyHash  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewClient validates invariants and builds a client with a fresh ID.
func NewClient(name, description, apiKeyHash string, now time.Time) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client name must not be empty")
	}
	if len(name) > maxNameLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client name exceeds 128 characters")
	}
	if apiKeyHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client requires an API key hash")
	}

	return &Client{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		APIKeyHash:  apiKeyHash,
		CreatedAt:   now.UTC(),
	}, nil
}

// GenerateAPIKey produces a URL-safe random key. 48 bytes of entropy
// keeps the encoded form under bcrypt's 72-byte input ceiling.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate API key")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
