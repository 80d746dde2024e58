package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

const (
	adminEmailTaken    = "An administrator with this email already exists"
	adminUsernameTaken = "An administrator with this username already exists"
	adminMissing       = "Admin doesn't exist"
)

// AuthDependencies bundles what the account services need besides their repository.
type AuthDependencies struct {
	Hasher   auth.PasswordHasher
	Guard    LoginGuard
	Recorder LoginRecorder
	Logger   *zap.Logger
}

func (d AuthDependencies) withDefaults() AuthDependencies {
	if d.Guard == nil {
		d.Guard = noopGuard{}
	}
	if d.Recorder == nil {
		d.Recorder = noopRecorder{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// AdminSignupInput carries the fields of a new administrator.
type AdminSignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// AdminService manages administrator accounts and their sessions.
type AdminService struct {
	admins   repository.AdminRepository
	sessions *auth.Sessions
	deps     AuthDependencies
}

// NewAdminService constructs the service.
func NewAdminService(admins repository.AdminRepository, sessions *auth.Sessions, deps AuthDependencies) *AdminService {
	return &AdminService{admins: admins, sessions: sessions, deps: deps.withDefaults()}
}

// Signup creates an administrator after checking email and username are free.
func (s *AdminService) Signup(ctx context.Context, in AdminSignupInput) (*domain.Admin, error) {
	admin := &domain.Admin{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Username:  strings.TrimSpace(in.Username),
		Email:     normalizeEmail(in.Email),
	}
	if admin.FirstName == "" || admin.LastName == "" || admin.Username == "" || admin.Email == "" || in.Password == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Fields (firstName, lastName, username, email, password) cannot be empty!")
	}

	if _, err := s.admins.GetByEmail(ctx, admin.Email); err == nil {
		return nil, apperrors.NewConflict(adminEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}
	if _, err := s.admins.GetByUsername(ctx, admin.Username); err == nil {
		return nil, apperrors.NewConflict(adminUsernameTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.admins.Create(ctx, admin, in.Password); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict(adminEmailTaken)
		}
		s.deps.Logger.Error("create admin failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	s.deps.Logger.Info("admin created", zap.String("admin_id", admin.ID))
	return admin, nil
}

// FindByCredentials resolves an administrator by email and password. Unknown
// email and wrong password produce the same NotFound error.
func (s *AdminService) FindByCredentials(ctx context.Context, email, password string) (*domain.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(err, CredentialsMessage)
	}
	ok, err := s.deps.Hasher.Verify(admin.PasswordHash, password)
	if err != nil {
		s.deps.Logger.Error("verify admin password failed", zap.String("admin_id", admin.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewNotFound(CredentialsMessage)
	}
	return admin, nil
}

// Login verifies credentials and issues a session token.
func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Admin, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", apperrors.NewBadRequest("Bad Request. Fields (email and password) cannot be empty")
	}
	key := normalizeEmail(email)
	kind := domain.PrincipalAdmin
	if s.deps.Guard.Locked(ctx, kind, key) {
		s.deps.Recorder.RecordLogin(string(kind), loginLocked)
		return nil, "", apperrors.NewTooManyRequests("account temporarily locked")
	}

	admin, err := s.FindByCredentials(ctx, key, password)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			s.deps.Guard.RecordFailure(ctx, kind, key)
			s.deps.Recorder.RecordLogin(string(kind), loginFailure)
		}
		return nil, "", err
	}
	s.deps.Guard.RecordSuccess(ctx, kind, key)

	token, err := s.sessions.Issue(ctx, admin.ID, admin.Username)
	if err != nil {
		s.deps.Logger.Error("issue admin token failed", zap.String("admin_id", admin.ID), zap.Error(err))
		return nil, "", apperrors.NewInternalError(err)
	}
	s.deps.Recorder.RecordLogin(string(kind), loginSuccess)
	s.deps.Logger.Info("admin logged in", zap.String("admin_id", admin.ID))
	return admin, token, nil
}

// Logout revokes the token used for the current request.
func (s *AdminService) Logout(ctx context.Context, principal *auth.Principal) error {
	if err := s.sessions.RevokeOne(ctx, principal.ID, principal.Token); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// LogoutAll revokes every session of the administrator.
func (s *AdminService) LogoutAll(ctx context.Context, principal *auth.Principal) error {
	if err := s.sessions.RevokeAll(ctx, principal.ID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Profile returns the administrator record.
func (s *AdminService) Profile(ctx context.Context, id string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, adminMissing)
	}
	return admin, nil
}

// UpdateProfile applies the allow-listed fields. A username change must stay unique.
func (s *AdminService) UpdateProfile(ctx context.Context, id string, update domain.AdminProfileUpdate) (*domain.Admin, error) {
	update.FirstName = trimmed(update.FirstName)
	update.LastName = trimmed(update.LastName)
	update.Username = trimmed(update.Username)
	for _, field := range []*string{update.FirstName, update.LastName, update.Username} {
		if field != nil && *field == "" {
			return nil, apperrors.NewBadRequest("Bad Request. Fields cannot be empty")
		}
	}
	if update.Empty() {
		return nil, apperrors.NewBadRequest("Bad Request. Nothing to update")
	}

	if update.Username != nil {
		existing, err := s.admins.GetByUsername(ctx, *update.Username)
		switch {
		case err == nil && existing.ID != id:
			return nil, apperrors.NewConflict(adminUsernameTaken)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewInternalError(err)
		}
	}

	admin, err := s.admins.UpdateProfile(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict(adminUsernameTaken)
		}
		return nil, notFoundOr(err, adminMissing)
	}
	s.deps.Logger.Info("admin profile updated", zap.String("admin_id", id))
	return admin, nil
}

// UpdatePassword stores a new password and revokes every session.
func (s *AdminService) UpdatePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return apperrors.NewBadRequest("Bad Request. Field (password) cannot be empty")
	}
	if err := s.admins.UpdatePassword(ctx, id, password); err != nil {
		return notFoundOr(err, adminMissing)
	}
	s.deps.Logger.Info("admin password updated", zap.String("admin_id", id))
	return nil
}

// Delete removes the administrator together with every session.
func (s *AdminService) Delete(ctx context.Context, id string) error {
	if err := s.admins.Delete(ctx, id); err != nil {
		return notFoundOr(err, adminMissing)
	}
	s.deps.Logger.Info("admin deleted", zap.String("admin_id", id))
	return nil
}
