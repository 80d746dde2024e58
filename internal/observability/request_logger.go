package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// RequestLogger logs every request once it completes and feeds the request
// metrics. Errors are resolved through the app error handler first so the
// logged status is the one the client sees.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		latency := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path
		method := c.Method()

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}

		metrics.RecordRequest(method, route, status, latency)
		if chainErr != nil {
			domainErr := apperrors.ToDomainError(chainErr)
			metrics.RecordError(method, route, domainErr.Code)
			if domainErr.Code == apperrors.CodeInternal {
				logger.Error("request failed", append(fields, zap.Error(chainErr))...)
				return nil
			}
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
		return nil
	}
}
