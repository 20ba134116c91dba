package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// Service handles user registration and login.
type Service struct {
	users    store.UserStore
	jwt      JWTService
	verifier PasswordVerifier
	logger   *slog.Logger
}

// NewService creates an auth Service.
func NewService(
	users store.UserStore,
	jwt JWTService,
	verifier PasswordVerifier,
	logger *slog.Logger,
) *Service {
	if users == nil {
		panic("user store cannot be nil")
	}
	if jwt == nil {
		panic("jwt service cannot be nil")
	}
	if verifier == nil {
		verifier = NewBcryptVerifier()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:    users,
		jwt:      jwt,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Register creates a new user account and returns it with a signed access
// token. Returns store.ErrEmailExists if the email is already registered.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()))

	return user, token, nil
}

// Login verifies the credentials and returns the user with a signed access
// token. Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	return user, token, nil
}
