package hosting

import (
	"fmt"
	"log/slog"

	"cancionero/src/features/catalog"
	"cancionero/src/features/config"
	"cancionero/src/features/exporting"
	"cancionero/src/features/importing"
	"cancionero/src/features/jobs"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server and registers every feature's routes.
func NewServer(cfg *config.Manager, catalogService *catalog.Service, importingService *importing.Service, exportingService *exporting.Service, jobService *jobs.Service) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Cancionero",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
		BodyLimit:             20 * 1024 * 1024, // CSV uploads stay small
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	catalog.RegisterRoutes(app, catalogService)
	importing.RegisterRoutes(app, importingService)
	exporting.RegisterRoutes(app, exportingService)
	config.RegisterRoutes(app, cfg)
	jobs.RegisterRoutes(app, jobService)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
