package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
}

// Token manager with sensible default
type Config struct {
	// Secret keys to sign access and refresh tokens
	// Both required and must differ: leaked key of one token class must not allow to forge the other
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Clock used to stamp and validate tokens
	// If not set than time.Now is used
	Now func() time.Time
}

type signer struct {
	key []byte
	ttl time.Duration
}

type TokenManager struct {
	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	access  signer
	refresh signer

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secret keys must not be empty")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secret keys must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if _, ok := alg.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing method %q is not supported, use one of HMAC methods", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenManager{
		alg:     alg,
		access:  signer{key: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: signer{key: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     cfg.Now,
	}, nil
}

func (m *TokenManager) IssueAccess(userID uuid.UUID) (models.IssuedToken, error) {
	token, err := m.issue(m.access, userID)
	if err != nil {
		return token, fmt.Errorf("error while signing access token. Err: %w", err)
	}
	return token, nil
}

func (m *TokenManager) IssueRefresh(userID uuid.UUID) (models.IssuedToken, error) {
	token, err := m.issue(m.refresh, userID)
	if err != nil {
		return token, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}
	return token, nil
}

func (m *TokenManager) IssuePair(userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := m.IssueAccess(userID)
	if err != nil {
		return pair, err
	}

	refresh, err := m.IssueRefresh(userID)
	if err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse and validate access token
func (m *TokenManager) VerifyAccess(access string) (uuid.UUID, error) {
	return m.verify(m.access, access)
}

// Parse and validate refresh token
func (m *TokenManager) VerifyRefresh(refresh string) (uuid.UUID, error) {
	return m.verify(m.refresh, refresh)
}

// Payload is the same for every token class; class defined by the key only
// Encoding is deterministic except timestamps
func (m *TokenManager) issue(s signer, userID uuid.UUID) (models.IssuedToken, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: userID,
		},
	)

	value, err := token.SignedString(s.key)
	if err != nil {
		return models.IssuedToken{}, err
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

func (m *TokenManager) verify(s signer, value string) (uuid.UUID, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	switch {
	case err == nil && claims.UserID != uuid.Nil:
		return claims.UserID, nil
	case err == nil:
		return uuid.Nil, fmt.Errorf("%w: token has no user", apperrors.ErrTokenInvalid)
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired)
	default:
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}
}
