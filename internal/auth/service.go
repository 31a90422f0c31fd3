package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect credentials")
)

// UserStore is the account storage the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SignUpInput is the allow-listed sign-up payload.
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Session is a signed-in user together with the token to hand back.
type Session struct {
	User  *entities.User
	Token string
}

// Service handles sign-up, sign-in and session lookup. It holds no
// per-session state: the token is the session.
type Service struct {
	users      UserStore
	tokens     *TokenCodec
	bcryptCost int
}

// NewService creates a new authentication service.
func NewService(users UserStore, tokens *TokenCodec, bcryptCost int) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Tokens exposes the codec shared with the guard.
func (s *Service) Tokens() *TokenCodec {
	return s.tokens
}

// NormalizeEmail lower-cases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account and issues a session for it.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email := NormalizeEmail(in.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Password:  hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent sign-up for the same email.
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// SignIn checks the credentials and issues a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// CurrentUser resolves the user behind a session token.
func (s *Service) CurrentUser(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *Service) issue(user *entities.User) (*Session, error) {
	token, err := s.tokens.Sign(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
