package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// CredentialsMessage is returned for an unknown email and for a wrong
// password alike.
const CredentialsMessage = "wrong email/password combination"

// LoginGuard throttles repeated failed logins. security.Lockout implements it.
type LoginGuard interface {
	Locked(ctx context.Context, kind domain.PrincipalKind, identifier string) bool
	RecordFailure(ctx context.Context, kind domain.PrincipalKind, identifier string)
	RecordSuccess(ctx context.Context, kind domain.PrincipalKind, identifier string)
}

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(kind, outcome string)
}

// ImageStore hosts uploaded images. storage.S3ImageStore implements it.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

const (
	loginSuccess = "success"
	loginFailure = "failure"
	loginLocked  = "locked"
)

type noopGuard struct{}

func (noopGuard) Locked(context.Context, domain.PrincipalKind, string) bool { return false }
func (noopGuard) RecordFailure(context.Context, domain.PrincipalKind, string) {}
func (noopGuard) RecordSuccess(context.Context, domain.PrincipalKind, string) {}

type noopRecorder struct{}

func (noopRecorder) RecordLogin(string, string) {}

// notFoundOr maps repository.ErrNotFound to a NotFound error with message and
// anything else to an internal error.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(message)
	}
	return apperrors.NewInternalError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
