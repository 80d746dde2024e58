package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// AuthenticateMessage is returned for every failed authentication.
const AuthenticateMessage = "Please authenticate"

// Principal represents the authenticated caller. Exactly one of Admin and
// User is set, matching Kind.
type Principal struct {
	Kind     domain.PrincipalKind
	ID       string
	Identity string
	Token    string
	Admin    *domain.Admin
	User     *domain.User
}

type principalStore interface {
	repository.TokenStore
	resolve(ctx context.Context, id, identity, token string) (*Principal, error)
}

// Sessions issues, validates and revokes bearer tokens for one principal kind.
type Sessions struct {
	kind   domain.PrincipalKind
	tokens *TokenManager
	store  principalStore
}

// NewAdminSessions binds sessions to the administrator store.
func NewAdminSessions(tokens *TokenManager, admins repository.AdminRepository) *Sessions {
	return &Sessions{kind: domain.PrincipalAdmin, tokens: tokens, store: adminStore{admins}}
}

// NewUserSessions binds sessions to the user store.
func NewUserSessions(tokens *TokenManager, users repository.UserRepository) *Sessions {
	return &Sessions{kind: domain.PrincipalUser, tokens: tokens, store: userStore{users}}
}

// Kind returns the principal kind these sessions serve.
func (s *Sessions) Kind() domain.PrincipalKind {
	return s.kind
}

// Issue signs a token for the principal and records it as live.
func (s *Sessions) Issue(ctx context.Context, id, identity string) (string, error) {
	token, _, err := s.tokens.GenerateToken(s.kind, id, identity)
	if err != nil {
		return "", err
	}
	if err := s.store.AppendToken(ctx, id, token); err != nil {
		return "", fmt.Errorf("record %s token: %w", s.kind, err)
	}
	return token, nil
}

// Validate checks signature, expiry and audience, then requires the token to
// still be live for the principal it names.
func (s *Sessions) Validate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokens.ParseToken(s.kind, token)
	if err != nil {
		return nil, unauthenticated(err)
	}
	principal, err := s.store.resolve(ctx, claims.Subject, claims.Identity, token)
	if err != nil {
		return nil, unauthenticated(err)
	}
	principal.Token = token
	return principal, nil
}

// RevokeOne drops a single token. Revoking an absent token is a no-op.
func (s *Sessions) RevokeOne(ctx context.Context, id, token string) error {
	if err := s.store.RemoveToken(ctx, id, token); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("revoke %s token: %w", s.kind, err)
	}
	return nil
}

// RevokeAll drops every token of the principal.
func (s *Sessions) RevokeAll(ctx context.Context, id string) error {
	if err := s.store.ClearTokens(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("revoke %s tokens: %w", s.kind, err)
	}
	return nil
}

func unauthenticated(cause error) error {
	return &apperrors.DomainError{
		Code:       apperrors.CodeUnauthorized,
		Message:    AuthenticateMessage,
		HTTPStatus: http.StatusUnauthorized,
		Err:        cause,
	}
}

type adminStore struct {
	repository.AdminRepository
}

func (s adminStore) resolve(ctx context.Context, id, username, token string) (*Principal, error) {
	admin, err := s.FindByToken(ctx, id, username, token)
	if err != nil {
		return nil, err
	}
	return &Principal{Kind: domain.PrincipalAdmin, ID: admin.ID, Identity: admin.Username, Admin: admin}, nil
}

type userStore struct {
	repository.UserRepository
}

func (s userStore) resolve(ctx context.Context, id, email, token string) (*Principal, error) {
	user, err := s.FindByToken(ctx, id, email, token)
	if err != nil {
		return nil, err
	}
	return &Principal{Kind: domain.PrincipalUser, ID: user.ID, Identity: user.Email, User: user}, nil
}
