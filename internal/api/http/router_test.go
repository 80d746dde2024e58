package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/api/http/handlers"
	"github.com/billboardhub/billboard-market/internal/api/validation"
	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/config"
	"github.com/billboardhub/billboard-market/internal/events"
	"github.com/billboardhub/billboard-market/internal/observability"
	"github.com/billboardhub/billboard-market/internal/repository/memory"
	"github.com/billboardhub/billboard-market/internal/security"
	"github.com/billboardhub/billboard-market/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	hasher := auth.NewPasswordHasher(config.AuthConfig{PasswordHasher: config.HasherBcrypt, BcryptCost: 4})

	admins := memory.NewAdminRepository(hasher)
	users := memory.NewUserRepository(hasher)
	locations := memory.NewLocationRepository()
	products := memory.NewProductRepository()

	tokens := auth.NewTokenManager("router-secret", time.Hour)
	adminSessions := auth.NewAdminSessions(tokens, admins)
	userSessions := auth.NewUserSessions(tokens, users)
	deps := service.AuthDependencies{Hasher: hasher, Recorder: metrics, Logger: logger}

	locationService := service.NewLocationService(locations, logger)
	productService := service.NewProductService(products, locationService, nil, logger)
	orderService := service.NewOrderService(memory.NewOrderRepository(), memory.NewQuoteRepository(), products, users,
		events.NewInMemoryDispatcher(logger, metrics), logger)

	app := NewApp(config.AppConfig{Name: "billboard-test"}, logger)
	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:      logger,
		Metrics:     metrics,
		RateLimiter: security.NewRateLimiter(nil, config.RateLimitConfig{}, logger),
	})
	validate := validation.New()
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("billboard-test", "test", nil, nil),
		Users:     handlers.NewUsersHandler(service.NewUserService(users, userSessions, nil, deps), validate),
		Admins:    handlers.NewAdminsHandler(service.NewAdminService(admins, adminSessions, deps), validate),
		Locations: handlers.NewLocationsHandler(locationService, validate),
		Products:  handlers.NewProductsHandler(productService, validate),
		Orders:    handlers.NewOrdersHandler(orderService, validate),
		AdminGate: auth.NewGate(adminSessions, metrics, logger),
		UserGate:  auth.NewGate(userSessions, metrics, logger),
		AnyGate:   auth.NewAnyGate(metrics, logger, adminSessions, userSessions),
		Metrics:   metrics.Handler(),
	})
	return app
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestAdminSessionLifecycle(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, "POST", "/api/v1/admin/signup", "", fiber.Map{
		"username": "admin1", "email": "a@x.com", "password": "pw123456", "firstName": "A", "lastName": "B",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, string(env.Data), "tokens")
	var created struct {
		Admin struct {
			ID string `json:"id"`
		} `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env = call(t, app, "POST", "/api/v1/admin/login", "", fiber.Map{"email": "a@x.com", "password": "pw123456"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	status, env = call(t, app, "GET", "/api/v1/admin/profile", login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var profile struct {
		Admin struct {
			ID string `json:"id"`
		} `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, created.Admin.ID, profile.Admin.ID)

	status, _ = call(t, app, "POST", "/api/v1/admin/logout", login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env = call(t, app, "GET", "/api/v1/admin/profile", login.Token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, auth.AuthenticateMessage, env.Message)
	assert.Equal(t, fiber.StatusUnauthorized, env.Status)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	app := newTestApp(t)
	status, _ := call(t, app, "POST", "/api/v1/signup", "", fiber.Map{
		"fullName": "Kemi Ade", "email": "kemi@example.com", "phoneNo": "0800", "companyName": "Acme", "password": "pw",
	})
	require.Equal(t, fiber.StatusCreated, status)

	wrongStatus, wrong := call(t, app, "POST", "/api/v1/login", "", fiber.Map{"email": "kemi@example.com", "password": "nope"})
	unknownStatus, unknown := call(t, app, "POST", "/api/v1/login", "", fiber.Map{"email": "who@example.com", "password": "pw"})

	assert.Equal(t, fiber.StatusNotFound, wrongStatus)
	assert.Equal(t, fiber.StatusNotFound, unknownStatus)
	assert.Equal(t, service.CredentialsMessage, wrong.Message)
	assert.Equal(t, wrong, unknown)
}

func TestGatesSeparatePrincipalKinds(t *testing.T) {
	app := newTestApp(t)
	call(t, app, "POST", "/api/v1/signup", "", fiber.Map{
		"fullName": "Kemi Ade", "email": "kemi@example.com", "phoneNo": "0800", "companyName": "Acme", "password": "pw",
	})
	_, env := call(t, app, "POST", "/api/v1/login", "", fiber.Map{"email": "kemi@example.com", "password": "pw"})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	status, _ := call(t, app, "GET", "/api/v1/admin/profile", login.Token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "POST", "/api/v1/location/state/create", login.Token, fiber.Map{"state": "Lagos"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = call(t, app, "GET", "/api/v1/products?page=2", login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"items":[],"totalPages":0,"page":2}`, string(env.Data))

	status, _ = call(t, app, "GET", "/api/v1/products", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "POST", "/api/v1/logoutAll", login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "GET", "/api/v1/profile", login.Token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLocationAndProductRoutes(t *testing.T) {
	app := newTestApp(t)
	call(t, app, "POST", "/api/v1/admin/signup", "", fiber.Map{
		"username": "admin1", "email": "a@x.com", "password": "pw123456", "firstName": "A", "lastName": "B",
	})
	_, env := call(t, app, "POST", "/api/v1/admin/login", "", fiber.Map{"email": "a@x.com", "password": "pw123456"})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	token := login.Token

	status, _ := call(t, app, "POST", "/api/v1/location/state/create", token, fiber.Map{"state": "Lagos"})
	require.Equal(t, fiber.StatusCreated, status)
	status, env = call(t, app, "POST", "/api/v1/location/state/create", token, fiber.Map{"state": "lagos"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, fiber.StatusConflict, env.Status)

	status, _ = call(t, app, "POST", "/api/v1/location/area/create", token, fiber.Map{"state": "LAGOS", "area": "Ikeja"})
	require.Equal(t, fiber.StatusCreated, status)

	status, env = call(t, app, "GET", "/api/v1/location/area?state=lagos&area=ikeja", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"name":"ikeja"`)

	status, _ = call(t, app, "POST", "/api/v1/product/create", token, fiber.Map{
		"title": "Ikeja Unipole", "category": "Unipole", "description": "d", "size": "40x10",
		"address": "Allen Avenue", "state": "Lagos", "area": "Ikeja",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, env = call(t, app, "GET", "/api/v1/productsByState", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Bad Request. Field (state) cannot be empty.", env.Message)

	status, env = call(t, app, "GET", "/api/v1/productsByArea?state=lagos&area=ikeja", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "Ikeja Unipole")

	status, _ = call(t, app, "POST", "/api/v1/location/state/create", token, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUploadWithoutStorageAndUnknownRoute(t *testing.T) {
	app := newTestApp(t)
	call(t, app, "POST", "/api/v1/signup", "", fiber.Map{
		"fullName": "Kemi Ade", "email": "kemi@example.com", "phoneNo": "0800", "companyName": "Acme", "password": "pw",
	})
	_, env := call(t, app, "POST", "/api/v1/login", "", fiber.Map{"email": "kemi@example.com", "password": "pw"})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest("PATCH", "/api/v1/uploadAvatar", &buf)
	req.Header.Set(fiber.HeaderContentType, form.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	status, env := call(t, app, "GET", "/api/v1/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, env.Message, "doesn't exist")
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/ready", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"postgres":"memory"`)
	assert.Contains(t, string(body), `"redis":"disabled"`)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "billboard_http_requests_total")
}
