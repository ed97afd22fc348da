package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/logger"
	"github.com/nkiryanov/oraweb/internal/models"
	"github.com/nkiryanov/oraweb/internal/repository"
	"github.com/nkiryanov/oraweb/internal/service/auth/password"
)

const (
	defaultStoreTimeout      = 5 * time.Second
	defaultRefreshCookieName = "refreshToken"
	defaultAccessHeaderName  = "Authorization"
	defaultAccessAuthScheme  = "Bearer"

	// Compared against when user not found, so login takes the same time whether email exists or not
	dummyPassword = "oraweb-dummy-password"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate salted hash from password
	Hash(ctx context.Context, password string) (string, error)

	// Compare password with known hash in constant time
	// Mismatch is (false, nil); error means hash is broken or context is done
	Verify(ctx context.Context, password string, hash string) (bool, error)
}

// Issues and verifies access and refresh tokens
type TokenManager interface {
	IssuePair(userID uuid.UUID) (models.TokenPair, error)
	IssueAccess(userID uuid.UUID) (models.IssuedToken, error)

	// Both have to wrap apperrors.ErrTokenInvalid on any failure
	VerifyAccess(token string) (uuid.UUID, error)
	VerifyRefresh(token string) (uuid.UUID, error)
}

// Delivers password reset instructions to the user
type ResetNotifier interface {
	NotifyReset(ctx context.Context, user models.User) error
}

type Config struct {
	// Timeout for every single store call
	// If not set than default is used
	StoreTimeout time.Duration

	// Mark refresh cookie Secure even if request is not over TLS (behind TLS terminating proxy)
	SecureCookie bool

	// Name of the cookie to keep refresh token in
	// If not set than default is used
	RefreshCookieName string

	// Header and scheme to read access token from
	// If not set than default is used
	AccessHeaderName string
	AccessAuthScheme string

	// If not set bcrypt hasher with default cost is used
	Hasher PasswordHasher

	// If not set reset requests are logged only
	Notifier ResetNotifier

	// If not set logs are discarded
	Logger logger.Logger
}

type AuthService struct {
	storeTimeout time.Duration

	secureCookie      bool
	refreshCookieName string
	accessHeaderName  string
	accessAuthScheme  string

	hasher   PasswordHasher
	notifier ResetNotifier
	logger   logger.Logger

	// Manager to issue and verify tokens
	tokens TokenManager

	// Repository to access long term data
	userRepo repository.UserRepo

	// Hash of dummy password computed on first use
	dummyHash func() (string, error)
}

func NewService(cfg Config, tokens TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	if tokens == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	setDefault := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefault(&cfg.RefreshCookieName, defaultRefreshCookieName)
	setDefault(&cfg.AccessHeaderName, defaultAccessHeaderName)
	setDefault(&cfg.AccessAuthScheme, defaultAccessAuthScheme)

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}
	if cfg.Hasher == nil {
		hasher, err := password.New(password.Config{})
		if err != nil {
			return nil, fmt.Errorf("default hasher could not be created: %w", err)
		}
		cfg.Hasher = hasher
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{Logger: cfg.Logger}
	}

	s := &AuthService{
		storeTimeout:      cfg.StoreTimeout,
		secureCookie:      cfg.SecureCookie,
		refreshCookieName: cfg.RefreshCookieName,
		accessHeaderName:  cfg.AccessHeaderName,
		accessAuthScheme:  cfg.AccessAuthScheme,
		hasher:            cfg.Hasher,
		notifier:          cfg.Notifier,
		logger:            cfg.Logger,
		tokens:            tokens,
		userRepo:          userRepo,
	}
	s.dummyHash = sync.OnceValues(func() (string, error) {
		return s.hasher.Hash(context.Background(), dummyPassword)
	})

	return s, nil
}

// Register creates the user and issues token pair for it
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (models.TokenPair, error) {
	_, err := s.getUserByEmail(ctx, email)
	switch {
	case err == nil:
		return models.TokenPair{}, apperrors.ErrUserAlreadyExists
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return models.TokenPair{}, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// Concurrent registration with the same email is caught by the store
	user, err := s.userRepo.CreateUser(storeCtx, name, email, hash)
	if err != nil {
		return models.TokenPair{}, storeError(err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return s.issuePair(user.ID)
}

// Login checks credentials and issues token pair
// Unknown email and wrong password are not distinguishable for the caller
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	user, err := s.getUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.burnVerify(ctx, password)
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	case err != nil:
		return models.TokenPair{}, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.HashedPassword)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("password verification failed for user %s: %w", user.ID, err)
	}
	if !ok {
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	return s.issuePair(user.ID)
}

// Refresh issues new access token for the refresh token owner
// Refresh token itself is kept as is and stays valid until it expires
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	if refresh == "" {
		return models.IssuedToken{}, apperrors.ErrTokenMissing
	}

	userID, err := s.tokens.VerifyRefresh(refresh)
	if err != nil {
		return models.IssuedToken{}, err
	}

	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return access, nil
}

// ForgotPassword asks notifier to deliver reset instructions for known email
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.notifier.NotifyReset(ctx, user); err != nil {
		return fmt.Errorf("reset notification failed: %w", err)
	}

	return nil
}

// ResetPassword replaces password of the user with the email
// TODO: require a reset token issued by ForgotPassword before replacing the hash
func (s *AuthService) ResetPassword(ctx context.Context, email string, newPassword string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.userRepo.UpdatePassword(storeCtx, user.ID, hash); err != nil {
		return storeError(err)
	}

	s.logger.Info("user password reset", "user_id", user.ID)

	return nil
}

// UserByAccessToken returns owner of valid access token
func (s *AuthService) UserByAccessToken(ctx context.Context, access string) (models.User, error) {
	if access == "" {
		return models.User{}, apperrors.ErrTokenMissing
	}

	userID, err := s.tokens.VerifyAccess(access)
	if err != nil {
		return models.User{}, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.GetUserByID(storeCtx, userID)
	if err != nil {
		return models.User{}, storeError(err)
	}

	return user, nil
}

func (s *AuthService) issuePair(userID uuid.UUID) (models.TokenPair, error) {
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}
	return pair, nil
}

func (s *AuthService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.GetUserByEmail(storeCtx, email)
	if err != nil {
		return models.User{}, storeError(err)
	}
	return user, nil
}

// Spend the same time as real password check would do
func (s *AuthService) burnVerify(ctx context.Context, password string) {
	hash, err := s.dummyHash()
	if err != nil {
		s.logger.Error("dummy hash could not be computed", "error", err)
		return
	}
	_, _ = s.hasher.Verify(ctx, password, hash)
}

// Domain errors pass as is, anything else means store is not usable right now
func storeError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrUserAlreadyExists),
		errors.Is(err, apperrors.ErrLayoutNotFound):
		return err
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
}
