package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/bump-journal/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService handles user registration, login, and JWT token operations.
// It is the only place that touches password hashes or signing keys.
type AuthService struct {
	users      domain.UserRepository
	jwtSecret  []byte
	bcryptCost int
	tokenTTL   time.Duration
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, jwtSecret string, bcryptCost int, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// TokenTTL is how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }

// Register creates a new user account and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	switch {
	case email == "":
		return nil, "", domain.Invalid("email", "email is required")
	case password == "":
		return nil, "", domain.Invalid("password", "password is required")
	case name == "":
		return nil, "", domain.Invalid("name", "name is required")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", domain.Invalid("email", "invalid email address")
	}

	if len(password) < minPasswordLength {
		return nil, "", domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", domain.StoreFailure("create user", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a signed JWT.
// Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", domain.StoreFailure("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate jwt: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to the principal it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	userID, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, domain.StoreFailure("get user", err)
	}

	return user.Principal(), nil
}

// ValidateToken parses and validates a JWT token string.
// Returns the user ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	return userID, nil
}

// GetUser returns the full record of the authenticated principal.
func (s *AuthService) GetUser(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, domain.StoreFailure("get user", err)
	}
	return user, nil
}

// SetDueDate sets the principal's due date, or clears it when dueDate is nil.
func (s *AuthService) SetDueDate(ctx context.Context, p *domain.Principal, dueDate *domain.Date) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if dueDate != nil && dueDate.IsZero() {
		dueDate = nil
	}

	if err := s.users.UpdateDueDate(ctx, p.ID, dueDate); err != nil {
		return nil, domain.StoreFailure("update due date", err)
	}
	return s.GetUser(ctx, p)
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
