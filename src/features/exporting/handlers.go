package exporting

import (
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the exporting feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the exporting feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// DownloadCSV streams the catalog as a CSV attachment. ?filtered=true exports
// the current filtered view instead of the whole catalog.
func (h *Handler) DownloadCSV(c *fiber.Ctx) error {
	filteredOnly := c.Query("filtered") == "true"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalogo.csv"`)
	return c.SendString(h.service.CSV(filteredOnly))
}

// WriteCSV writes a CSV export to the configured export directory.
func (h *Handler) WriteCSV(c *fiber.Ctx) error {
	path, err := h.service.WriteCSVFile()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"path": path})
}

// DownloadPDF streams the catalog through the configured PDF renderer.
func (h *Handler) DownloadPDF(c *fiber.Ctx) error {
	data, err := h.service.PDF(c.Context())
	if err != nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalogo.pdf"`)
	return c.Send(data)
}
