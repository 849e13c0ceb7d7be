package importing

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the importing feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	app.Post("/import/csv", handler.ImportCSV)
	app.Post("/import/file", handler.ImportFile)
	app.Post("/import/watcher/start", handler.StartWatcher)
	app.Post("/import/watcher/stop", handler.StopWatcher)
}
