package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"apex-tracker/internal/core/config"
	"apex-tracker/internal/core/logger"
	"apex-tracker/internal/features/accounts/domain"
	"apex-tracker/internal/features/accounts/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned by Login when the username or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a session token is malformed, expired or not an admin token.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the session token claims issued to the admin.
type Claims struct {
	Role domain.Role `json:"role"`
	Name string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AccountService manages users, the admin credential and admin sessions.
type AccountService struct {
	repo       ports.AccountRepository
	admin      config.AdminConfig
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger

	mu sync.Mutex
}

// Option customizes an AccountService.
type Option func(*AccountService)

// WithClock overrides the time source used for timestamps and token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) { s.now = now }
}

// WithBcryptCost sets the cost used when hashing the seeded admin password.
func WithBcryptCost(cost int) Option {
	return func(s *AccountService) { s.bcryptCost = cost }
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo ports.AccountRepository, admin config.AdminConfig, auth config.AuthConfig, opts ...Option) *AccountService {
	s := &AccountService{
		repo:       repo,
		admin:      admin,
		secret:     []byte(auth.JWTSecret),
		ttl:        auth.TokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     logger.Named("accounts"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenTTL is the lifetime of issued session tokens.
func (s *AccountService) TokenTTL() time.Duration {
	return s.ttl
}

// SeedIfEmpty writes the default users when the users collection is empty and
// the configured admin credential when none is stored. Existing data is never
// overwritten.
func (s *AccountService) SeedIfEmpty(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.LoadUsers(ctx)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("seed users: %w", err)
	}
	if len(users) == 0 {
		if err := s.repo.SaveUsers(ctx, domain.DefaultUsers(s.now().UTC())); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		s.logger.Info("Initialized sample user data")
	}

	_, err = s.repo.LoadAdmin(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.admin.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	cred := domain.AdminCredential{
		Username:     s.admin.Username,
		PasswordHash: string(hash),
		Name:         s.admin.Name,
		Email:        s.admin.Email,
	}
	if err := s.repo.SaveAdmin(ctx, cred); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info("Initialized admin credentials", zap.String("username", cred.Username))
	return nil
}

// ListUsers returns the users collection. Failures are logged and yield an empty slice.
func (s *AccountService) ListUsers(ctx context.Context) []domain.User {
	users, err := s.repo.LoadUsers(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Error("Failed to load users", zap.Error(err))
		}
		return []domain.User{}
	}
	return users
}

// AddUser prepends user to the collection and persists it.
func (s *AccountService) AddUser(ctx context.Context, user domain.User) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.LoadUsers(ctx)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("add user: %w", err)
	}

	updated := make([]domain.User, 0, len(current)+1)
	updated = append(updated, user)
	updated = append(updated, current...)

	if err := s.repo.SaveUsers(ctx, updated); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	return updated, nil
}

// CreateUser validates the add-user form and stores the new user.
func (s *AccountService) CreateUser(ctx context.Context, req domain.AddUserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user := domain.User{
		ID:        "user-" + uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		CreatedAt: s.now().UTC(),
	}

	if _, err := s.AddUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User added", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}

// Login checks username and password against the stored admin credential and
// returns a signed session token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	cred, err := s.repo.LoadAdmin(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if username != cred.Username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	issued := s.now()
	claims := Claims{
		Role: domain.RoleAdmin,
		Name: cred.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cred.Username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	s.logger.Info("Admin logged in", zap.String("username", cred.Username))
	return token, nil
}

// VerifyToken parses and validates an admin session token.
func (s *AccountService) VerifyToken(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role != domain.RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
