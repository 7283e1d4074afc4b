// Package service implements client registration and the API key to
// service token exchange.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"nidegypt/internal/clients/models"
	"nidegypt/internal/clients/ports"
	platformmw "nidegypt/internal/platform/middleware"
	dErrors "nidegypt/pkg/domain-errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service manages clients and issues HS256 service tokens.
type Service struct {
	store      ports.Store
	signingKey []byte
	tokenTTL   time.Duration
	logger     *slog.Logger
	clock      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func New(store ports.Store, signingKey []byte, tokenTTL time.Duration, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "clients service requires a store")
	}
	if len(signingKey) == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "clients service requires a signing key")
	}
	if tokenTTL <= 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "token TTL must be positive")
	}

	s := &Service{
		store:      store,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		logger:     slog.Default(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create registers a client and returns it together with the plaintext
// API key. The key is shown exactly once; only its hash is stored.
func (s *Service) Create(ctx context.Context, name, description string) (*models.Client, string, error) {
	apiKey, err := models.GenerateAPIKey()
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash API key")
	}

	client, err := models.NewClient(name, description, string(hash), s.clock())
	if err != nil {
		return nil, "", err
	}

	if err := s.store.Create(ctx, client); err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "client registered",
		"client_id", client.ID,
		"client_name", client.Name,
	)
	return client, apiKey, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, limit, offset)
}

type serviceClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

// IssueToken exchanges a client's API key for a signed service token.
// A wrong key and an unknown client are indistinguishable to the caller.
func (s *Service) IssueToken(ctx context.Context, clientID, apiKey string) (string, time.Time, error) {
	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "invalid client credentials")
		}
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.APIKeyHash), []byte(apiKey)); err != nil {
		s.logger.WarnContext(ctx, "token exchange rejected",
			"client_id", clientID,
		)
		return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "invalid client credentials")
	}

	now := s.clock()
	expiresAt := now.Add(s.tokenTTL)
	claims := serviceClaims{
		ClientName: client.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return token, expiresAt, nil
}

// ValidateToken parses and verifies a service token. Satisfies the
// middleware TokenValidator interface.
func (s *Service) ValidateToken(tokenString string) (*platformmw.TokenClaims, error) {
	var claims serviceClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	if !token.Valid || claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	return &platformmw.TokenClaims{
		ClientID:   claims.Subject,
		ClientName: claims.ClientName,
	}, nil
}
