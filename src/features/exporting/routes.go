package exporting

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the exporting feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	export := app.Group("/export")
	export.Get("/csv", handler.DownloadCSV)
	export.Post("/csv", handler.WriteCSV)
	export.Get("/pdf", handler.DownloadPDF)
}
