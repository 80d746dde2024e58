package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

type countingRecorder struct {
	mu       sync.Mutex
	failures map[string]int
}

func (r *countingRecorder) AuthFailure(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = map[string]int{}
	}
	r.failures[kind]++
}

func newGateApp(f *fixture, recorder FailureRecorder) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(domainErr.Envelope())
		},
	})
	whoami := func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromCtx(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		fromCtx, ok := PrincipalFromContext(c.UserContext())
		if !ok || fromCtx != principal {
			return fiber.ErrInternalServerError
		}
		return c.SendString(string(principal.Kind) + ":" + principal.ID)
	}
	logger := zap.NewNop()
	app.Get("/admin", NewGate(f.adminSess, recorder, logger), whoami)
	app.Get("/user", NewGate(f.userSess, recorder, logger), whoami)
	app.Get("/any", NewAnyGate(recorder, logger, f.adminSess, f.userSess), whoami)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGate_RejectsMissingOrMalformedHeader(t *testing.T) {
	f := newFixture(t)
	recorder := &countingRecorder{}
	app := newGateApp(f, recorder)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer    "} {
		status, body := doGet(t, app, "/admin", header)
		assert.Equal(t, http.StatusUnauthorized, status, header)

		var envelope apperrors.Envelope
		require.NoError(t, json.Unmarshal([]byte(body), &envelope))
		assert.Equal(t, apperrors.Envelope{Status: 401, Message: AuthenticateMessage}, envelope)
	}
	assert.Equal(t, 4, recorder.failures["admin"])
}

func TestGate_AdmitsOnlyItsKind(t *testing.T) {
	f := newFixture(t)
	app := newGateApp(f, &countingRecorder{})
	ctx := context.Background()

	adminToken, err := f.adminSess.Issue(ctx, f.admin.ID, f.admin.Username)
	require.NoError(t, err)
	userToken, err := f.userSess.Issue(ctx, f.user.ID, f.user.Email)
	require.NoError(t, err)

	status, body := doGet(t, app, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin:"+f.admin.ID, body)

	status, _ = doGet(t, app, "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doGet(t, app, "/user", "Bearer "+adminToken)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doGet(t, app, "/any", "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user:"+f.user.ID, body)
}

func TestGate_RevokedTokenRejected(t *testing.T) {
	f := newFixture(t)
	app := newGateApp(f, &countingRecorder{})
	ctx := context.Background()

	token, err := f.userSess.Issue(ctx, f.user.ID, f.user.Email)
	require.NoError(t, err)
	require.NoError(t, f.userSess.RevokeOne(ctx, f.user.ID, token))

	status, _ := doGet(t, app, "/user", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
}
