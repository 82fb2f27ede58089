package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scoreboard-server/internal/auth"
	"scoreboard-server/internal/domain"
	"scoreboard-server/internal/repository"
)

// AuthService describes account lifecycle and credential operations.
type AuthService interface {
	Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	ValidateUser(ctx context.Context, username, password string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	issuer *auth.TokenIssuer
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, issuer *auth.TokenIssuer) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
	}
}

// Register creates an account and issues a token for it. The role defaults to
// domain.RoleUser; whether self-registration may claim admin is the
// deployer's policy, not enforced here.
func (s *authService) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, string, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, "", fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if password == "" {
		return nil, "", fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, "", fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	// the repository maps a lost uniqueness race to the same ErrUsernameTaken
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return sanitizeUser(user), token, nil
}

// Login verifies credentials and issues a token. Unknown, inactive, or
// mismatched users all surface as ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.ValidateUser(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return sanitizeUser(user), token, nil
}

// ValidateUser returns the matching active user, or nil without error when the
// username is unknown, the account inactive, or the password wrong. The three
// cases are indistinguishable to avoid leaking account existence.
func (s *authService) ValidateUser(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.Active {
		return nil, nil
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
