package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/config"
)

// NewApp creates the fiber application with the shared error handler.
func NewApp(cfg config.AppConfig, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               cfg.Name,
		BodyLimit:             cfg.BodyLimitBytes,
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})
}
