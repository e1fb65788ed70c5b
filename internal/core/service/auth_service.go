package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetpulse/fleet-api/internal/core/domain"
	"github.com/fleetpulse/fleet-api/internal/core/ports"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// AuthService implements registration and login with bcrypt-hashed
// credentials and HS256 bearer tokens.
type AuthService struct {
	repo       ports.AccountRepository
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new account. The email is normalized to lower case and
// must not already be registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Account, string, error) {
	email = strings.ToLower(email)

	// Advisory pre-check; the unique index on email is the authoritative guard.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", domain.NewConflict("email", "Email already in use")
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	account, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.signToken(account)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("email", account.Email).Msg("account registered")
	return account, token, nil
}

// Login verifies the credentials and issues a fresh token. Unknown email and
// wrong password both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = strings.ToLower(email)

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.signToken(account)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("email", account.Email).Msg("login succeeded")
	return account, token, nil
}

func (s *AuthService) signToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"id":    account.ID,
		"email": account.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
