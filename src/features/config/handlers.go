package config

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// GetConfig returns the current configuration, secrets redacted.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(h.configManager.GetJSON())
}

// UpdateSettings updates the runtime-changeable parts of the configuration.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	slog.Info("Configuration update requested")

	current := h.configManager.Get()

	var body struct {
		Import   *Import   `json:"import"`
		Telegram *Telegram `json:"telegram"`
		Logger   *Logger   `json:"logger"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid settings payload"})
	}

	// Server, backend and store settings are not changeable at runtime.
	newConfig := *current
	if body.Import != nil {
		newConfig.Import = *body.Import
	}
	if body.Telegram != nil {
		newConfig.Telegram = *body.Telegram
	}
	if body.Logger != nil {
		newConfig.Logger = *body.Logger
	}

	h.configManager.Update(&newConfig)
	if err := h.configManager.EnsureDirectories(); err != nil {
		slog.Error("Failed to ensure directories after settings update", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "updated"})
}
