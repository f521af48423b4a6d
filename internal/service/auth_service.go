package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studytrack/internal/models"
	"studytrack/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// AuthService handles user auth logic
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	s := &AuthService{
		authRepo:   repo,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = defaultTokenTTL
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	return s
}

// SignUp hashes password and creates a new user
func (s *AuthService) SignUp(ctx context.Context, username, password string) (models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return models.User{}, err
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.authRepo.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
		}
		return models.User{}, err
	}
	return u, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}

// GenerateToken validates credentials and returns JWT.
// Unknown user and wrong password both wrap ErrInvalidCredentials.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	if err := validateCredentials(username, password); err != nil {
		return "", err
	}

	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", fmt.Errorf("%w: user not found", ErrInvalidCredentials)
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	}

	return s.issueToken(models.Identity{ID: u.ID, Username: u.Username})
}

// ParseToken parses JWT and returns the identity it carries
func (s *AuthService) ParseToken(accessToken string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return models.Identity{}, ErrInvalidToken
	}

	return models.Identity{ID: claims.UserID, Username: claims.Username}, nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	return nil
}

// helper: hash password safely
func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is longer than 72 bytes", ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for an identity
func (s *AuthService) issueToken(id models.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   id.ID,
		Username: id.Username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
