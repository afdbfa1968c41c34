package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkarpov/authd/internal/apperrors"
	"github.com/nkarpov/authd/internal/models"
	"github.com/nkarpov/authd/internal/repository"
	"github.com/nkarpov/authd/internal/revocation"
	"github.com/nkarpov/authd/internal/service/auth/tokencodec"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher to use during registration and login
	// Defaults to BcryptHasher
	Hasher PasswordHasher
}

// Fields of user record that may be changed
// nil field means keep current value
type UpdateUserPatch struct {
	Email    *string
	Password *string
}

// AuthService orchestrates issuance, validation, refresh and revocation.
// Stateless: every call is an independent unit of work
type AuthService struct {
	codec   *tokencodec.Codec
	hasher  PasswordHasher
	revoked revocation.Store
	storage repository.Storage

	// Hash compared against when the email is unknown, so login takes
	// roughly the same time whether the user exists or not
	dummyHash string
}

func NewService(cfg Config, codec *tokencodec.Codec, revoked revocation.Store, storage repository.Storage) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if codec == nil || revoked == nil || storage == nil {
		return nil, errors.New("codec, revocation store and storage must not be nil")
	}

	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("error while preparing hasher. Err: %w", err)
	}

	return &AuthService{
		codec:     codec,
		hasher:    hasher,
		revoked:   revoked,
		storage:   storage,
		dummyHash: dummyHash,
	}, nil
}

// Register creates a user with hashed password
// Returns apperrors.ErrEmailTaken if the email is registered already
func (s *AuthService) Register(ctx context.Context, email string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, email, hash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies credentials, issues a token pair and records the login.
// Unknown email and wrong password collapse into the same
// apperrors.ErrInvalidCredentials outcome
func (s *AuthService) Login(ctx context.Context, email string, password string, userAgent string) (models.TokenPair, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Burn comparable time before denying
		_ = s.hasher.Compare(s.dummyHash, password)
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	default:
		return models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	pair, err := s.codec.IssuePair(user.Email)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	if _, err := s.storage.History().Add(ctx, user.ID, userAgent); err != nil {
		return models.TokenPair{}, fmt.Errorf("error while recording login. Err: %w", err)
	}

	return pair, nil
}

// Refresh issues a new access token for the refresh token's subject.
// The refresh token itself stays valid until natural expiry: there is
// no rotation chain here
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	claims, err := s.codec.Parse(refresh, tokencodec.PurposeRefresh)
	if err != nil {
		return models.IssuedToken{}, err
	}

	access, err := s.codec.Issue(claims.Subject, tokencodec.PurposeAccess)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return access, nil
}

// Authenticate is the single authorization gate for protected calls:
// decode, then denylist check, then user lookup. The revocation store
// is fail closed: if it can't be reached the request is denied with
// apperrors.ErrStoreUnavailable rather than silently allowed
func (s *AuthService) Authenticate(ctx context.Context, access string) (models.User, error) {
	claims, err := s.codec.Parse(access, tokencodec.PurposeAccess)
	if err != nil {
		return models.User{}, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, access)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %s", apperrors.ErrStoreUnavailable, err)
	}
	if revoked {
		return models.User{}, apperrors.ErrTokenRevoked
	}

	user, err := s.storage.User().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Logout puts the access token on the denylist for whatever validity
// it has left. Revoking an already revoked token is a no-op
func (s *AuthService) Logout(ctx context.Context, access string) error {
	claims, err := s.codec.Parse(access, tokencodec.PurposeAccess)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		// Parse rejects expired tokens, but don't rely on clocks agreeing
		return nil
	}

	if err := s.revoked.Revoke(ctx, access, ttl); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrStoreUnavailable, err)
	}

	return nil
}

// UpdateUser changes email and/or password of the user
// Password goes through the hasher, never stored as given
func (s *AuthService) UpdateUser(ctx context.Context, userID uuid.UUID, patch UpdateUserPatch) (models.User, error) {
	params := repository.UpdateUserParams{Email: patch.Email}

	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
		}
		params.HashedPassword = &hash
	}

	return s.storage.User().UpdateUser(ctx, userID, params)
}

// History returns the user's login events in insertion order
func (s *AuthService) History(ctx context.Context, userID uuid.UUID) ([]models.LoginHistory, error) {
	return s.storage.History().ListByUser(ctx, userID)
}
