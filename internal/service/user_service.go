package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

const (
	userEmailTaken = "A user with this email already exists"
	userMissing    = "User doesn't exist"
)

// UserSignupInput carries the fields of a new user.
type UserSignupInput struct {
	FullName    string
	Email       string
	PhoneNo     string
	CompanyName string
	Position    string
	Password    string
}

// UserService manages user accounts and their sessions.
type UserService struct {
	users    repository.UserRepository
	sessions *auth.Sessions
	images   ImageStore
	deps     AuthDependencies
}

// NewUserService constructs the service. images may be nil when uploads are disabled.
func NewUserService(users repository.UserRepository, sessions *auth.Sessions, images ImageStore, deps AuthDependencies) *UserService {
	return &UserService{users: users, sessions: sessions, images: images, deps: deps.withDefaults()}
}

// Signup creates a user after checking the email is free.
func (s *UserService) Signup(ctx context.Context, in UserSignupInput) (*domain.User, error) {
	user := &domain.User{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       normalizeEmail(in.Email),
		PhoneNo:     strings.TrimSpace(in.PhoneNo),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Position:    strings.TrimSpace(in.Position),
	}
	if user.FullName == "" || user.Email == "" || user.PhoneNo == "" || user.CompanyName == "" || in.Password == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Fields (fullName, email, phoneNo, password, companyName) cannot be empty")
	}

	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, apperrors.NewConflict(userEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.users.Create(ctx, user, in.Password); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict(userEmailTaken)
		}
		s.deps.Logger.Error("create user failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	s.deps.Logger.Info("user created", zap.String("user_id", user.ID))
	return user, nil
}

// FindByCredentials resolves a user by email and password. Unknown email,
// wrong password and deleted accounts produce the same NotFound error.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(err, CredentialsMessage)
	}
	ok, err := s.deps.Hasher.Verify(user.PasswordHash, password)
	if err != nil {
		s.deps.Logger.Error("verify user password failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewNotFound(CredentialsMessage)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", apperrors.NewBadRequest("Bad Request. Fields (email and password) cannot be empty")
	}
	key := normalizeEmail(email)
	kind := domain.PrincipalUser
	if s.deps.Guard.Locked(ctx, kind, key) {
		s.deps.Recorder.RecordLogin(string(kind), loginLocked)
		return nil, "", apperrors.NewTooManyRequests("account temporarily locked")
	}

	user, err := s.FindByCredentials(ctx, key, password)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			s.deps.Guard.RecordFailure(ctx, kind, key)
			s.deps.Recorder.RecordLogin(string(kind), loginFailure)
		}
		return nil, "", err
	}
	s.deps.Guard.RecordSuccess(ctx, kind, key)

	token, err := s.sessions.Issue(ctx, user.ID, user.Email)
	if err != nil {
		s.deps.Logger.Error("issue user token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", apperrors.NewInternalError(err)
	}
	s.deps.Recorder.RecordLogin(string(kind), loginSuccess)
	s.deps.Logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, token, nil
}

// Logout revokes the token used for the current request.
func (s *UserService) Logout(ctx context.Context, principal *auth.Principal) error {
	if err := s.sessions.RevokeOne(ctx, principal.ID, principal.Token); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// LogoutAll revokes every session of the user.
func (s *UserService) LogoutAll(ctx context.Context, principal *auth.Principal) error {
	if err := s.sessions.RevokeAll(ctx, principal.ID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Profile returns the user record.
func (s *UserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, userMissing)
	}
	return user, nil
}

// UpdateProfile applies the allow-listed fields.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update domain.UserProfileUpdate) (*domain.User, error) {
	update.FullName = trimmed(update.FullName)
	update.PhoneNo = trimmed(update.PhoneNo)
	update.CompanyName = trimmed(update.CompanyName)
	update.Position = trimmed(update.Position)
	for _, field := range []*string{update.FullName, update.PhoneNo, update.CompanyName} {
		if field != nil && *field == "" {
			return nil, apperrors.NewBadRequest("Bad Request. Fields cannot be empty")
		}
	}
	// avatars only change through UploadAvatar
	update.Avatar = nil
	if update.Empty() {
		return nil, apperrors.NewBadRequest("Bad Request. Nothing to update")
	}

	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, notFoundOr(err, userMissing)
	}
	s.deps.Logger.Info("user profile updated", zap.String("user_id", id))
	return user, nil
}

// UpdatePassword stores a new password and revokes every session.
func (s *UserService) UpdatePassword(ctx context.Context, id, password string) error {
	if password == "" {
		return apperrors.NewBadRequest("Bad Request. Field (password) cannot be empty")
	}
	if err := s.users.UpdatePassword(ctx, id, password); err != nil {
		return notFoundOr(err, userMissing)
	}
	s.deps.Logger.Info("user password updated", zap.String("user_id", id))
	return nil
}

// Delete soft-deletes the user and revokes every session.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, userMissing)
	}
	s.deps.Logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// UploadAvatar stores a new avatar image and removes the previous one.
func (s *UserService) UploadAvatar(ctx context.Context, id string, upload Upload) (*domain.User, error) {
	if s.images == nil {
		return nil, apperrors.NewBadRequest(uploadsDisabled)
	}
	if err := validateImage(upload); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, userMissing)
	}

	key := fmt.Sprintf("avatars/%s/%s%s", id, uuid.NewString(), strings.ToLower(path.Ext(upload.Filename)))
	url, err := s.images.Upload(ctx, key, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		s.deps.Logger.Error("upload avatar failed", zap.String("user_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	updated, err := s.users.UpdateProfile(ctx, id, domain.UserProfileUpdate{Avatar: &url})
	if err != nil {
		return nil, notFoundOr(err, userMissing)
	}
	if oldKey, ok := s.images.KeyFromURL(user.Avatar); ok && user.Avatar != "" {
		if err := s.images.Delete(ctx, oldKey); err != nil {
			s.deps.Logger.Warn("delete previous avatar failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	s.deps.Logger.Info("user avatar updated", zap.String("user_id", id))
	return updated, nil
}
