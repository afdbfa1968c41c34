package tokencodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkarpov/authd/internal/apperrors"
	"github.com/nkarpov/authd/internal/models"
)

const (
	// Purpose claim values
	// A refresh token can't be presented as an access token and vice versa
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"

	defaultSigningMethod   = "HS256"
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token payload: registered claims (sub, iat, exp, jti) plus purpose
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// Codec with sensible defaults
type Config struct {
	// Secret key to sign token payload
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set then defaults are used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec encodes and decodes signed expiring tokens.
// Pure computation, no I/O: revocation is the auth service concern
type Codec struct {
	key string
	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(cfg Config) (*Codec, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method: %q", cfg.Alg)
	}
	if _, ok := alg.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing method %q is not symmetric", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &Codec{
		key:        cfg.SecretKey,
		alg:        alg,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// TTL configured for tokens of the given purpose
func (c *Codec) TTL(purpose string) time.Duration {
	if purpose == PurposeRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue constructs and signs a token for subject with the given purpose
func (c *Codec) Issue(subject string, purpose string) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(c.TTL(purpose))

	token := jwt.NewWithClaims(
		c.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Purpose: purpose,
		},
	)

	signed, err := token.SignedString([]byte(c.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// IssuePair issues an access and refresh token for the same subject
func (c *Codec) IssuePair(subject string) (models.TokenPair, error) {
	access, err := c.Issue(subject, PurposeAccess)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := c.Issue(subject, PurposeRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse verifies signature, structure and expiry, then checks purpose.
// All or nothing: claims are returned only if every check passed.
// Any failure surfaces as apperrors.ErrInvalidToken with cause attached
func (c *Codec) Parse(tokenString string, purpose string) (Claims, error) {
	claims := Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return []byte(c.key), nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidToken, err)
	}

	if claims.Purpose != purpose {
		return Claims{}, fmt.Errorf("%w: expected %s token", apperrors.ErrInvalidToken, purpose)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}

	return claims, nil
}
