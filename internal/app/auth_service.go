package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
)

// AuthService registers users and exchanges credentials for access tokens.
type AuthService struct {
	users            UserStore
	tokens           *auth.Tokens
	cost             int
	allowAdminSignup bool
	log              logrus.FieldLogger
}

// AuthOptions tunes AuthService. Zero values select bcrypt.DefaultCost and
// ignore admin requests on public signup.
type AuthOptions struct {
	BcryptCost       int
	AllowAdminSignup bool
}

func NewAuthService(users UserStore, tokens *auth.Tokens, opts AuthOptions, log logrus.FieldLogger) *AuthService {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:            users,
		tokens:           tokens,
		cost:             cost,
		allowAdminSignup: opts.AllowAdminSignup,
		log:              log,
	}
}

// Register creates an account through the public signup path. The admin
// flag is honoured only when admin signup is allowed.
func (s *AuthService) Register(ctx context.Context, username, password string, isAdmin bool) (domain.User, error) {
	return s.CreateUser(ctx, username, password, isAdmin && s.allowAdminSignup)
}

// CreateUser creates an account unconditionally; used by the CLI to bootstrap admins.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, domain.Invalid("", "Username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.log.WithFields(logrus.Fields{"user": user.ID, "admin": user.IsAdmin}).Info("user registered")
	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token into the caller identity.
func (s *AuthService) Authenticate(tokenString string) (auth.Claims, error) {
	return s.tokens.Parse(tokenString)
}
