package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/billboardhub/billboard-market/internal/config"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

func TestNewLogger(t *testing.T) {
	app := config.AppConfig{Name: "billboard-market", Env: "test", Version: "v1.2.3"}
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"}, app)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "nonsense"}, app)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestLoggerConfig_TagsService(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{Level: "info"},
		config.AppConfig{Name: "billboard-market", Env: "production", Version: "v2"})

	assert.Equal(t, map[string]any{"service": "billboard-market", "env": "production", "version": "v2"}, cfg.InitialFields)
	require.NotNil(t, cfg.Sampling)

	dev := loggerConfig(config.LoggerConfig{}, config.AppConfig{Env: "development"})
	assert.Nil(t, dev.Sampling)
	assert.Equal(t, "json", dev.Encoding)
}

func newObservedApp(metrics *Metrics) (*fiber.App, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(domainErr.Envelope())
		},
	})
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NewNotFound("State doesn't exist.") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db down") })
	return app, logs
}

func TestRequestLogger_RecordsOutcome(t *testing.T) {
	metrics := NewMetrics()
	app, logs := newObservedApp(metrics)

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPErrorsTotal.WithLabelValues("GET", "/boom", apperrors.CodeInternal)))

	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
	assert.Equal(t, 2, logs.FilterMessage("request completed").Len())
}

func TestRequestLogger_HidesInternalCause(t *testing.T) {
	app, _ := newObservedApp(NewMetrics())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"status":500,"message":"internal server error"}`, string(body))
}

func TestMetricsHandler(t *testing.T) {
	metrics := NewMetrics()
	metrics.AuthFailure("admin")
	metrics.RecordLogin("user", "success")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `billboard_auth_failures_total{gate="admin"} 1`))
	assert.True(t, strings.Contains(body, `billboard_logins_total{kind="user",outcome="success"} 1`))

	var nilMetrics *Metrics
	nilMetrics.AuthFailure("admin")
}
