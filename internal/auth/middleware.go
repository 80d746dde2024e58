package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/domain"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

const principalKey = "auth_principal"

type principalCtxKey struct{}

// FailureRecorder counts rejected authentication attempts.
type FailureRecorder interface {
	AuthFailure(kind string)
}

// NewGate returns middleware admitting only callers holding a live token of
// the kind served by sessions.
func NewGate(sessions *Sessions, recorder FailureRecorder, logger *zap.Logger) fiber.Handler {
	return NewAnyGate(recorder, logger, sessions)
}

// NewAnyGate admits a caller whose token is live for any of the given session
// kinds, tried in order.
func NewAnyGate(recorder FailureRecorder, logger *zap.Logger, sessions ...*Sessions) fiber.Handler {
	label := gateLabel(sessions)
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			recorder.AuthFailure(label)
			return apperrors.NewUnauthorized(AuthenticateMessage)
		}

		var lastErr error
		for _, s := range sessions {
			principal, err := s.Validate(c.UserContext(), token)
			if err == nil {
				c.Locals(principalKey, principal)
				c.SetUserContext(WithPrincipal(c.UserContext(), principal))
				return c.Next()
			}
			lastErr = err
		}

		recorder.AuthFailure(label)
		if cause := errors.Unwrap(lastErr); cause != nil {
			logger.Debug("authentication rejected",
				zap.String("gate", label),
				zap.String("path", c.Path()),
				zap.Error(cause),
			)
		}
		return lastErr
	}
}

// bearerToken extracts <token> from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func gateLabel(sessions []*Sessions) string {
	kinds := make([]string, 0, len(sessions))
	for _, s := range sessions {
		kinds = append(kinds, string(s.Kind()))
	}
	return strings.Join(kinds, "|")
}

// WithPrincipal stores the principal on a context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, principal)
}

// PrincipalFromContext retrieves the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return principal, ok && principal != nil
}

// PrincipalFromCtx retrieves the authenticated entity set by a gate.
func PrincipalFromCtx(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// MustPrincipal returns the caller of the given kind or an Unauthorized error.
func MustPrincipal(c *fiber.Ctx, kind domain.PrincipalKind) (*Principal, error) {
	principal, ok := PrincipalFromCtx(c)
	if !ok || principal.Kind != kind {
		return nil, apperrors.NewUnauthorized(AuthenticateMessage)
	}
	return principal, nil
}
