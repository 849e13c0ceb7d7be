package importing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"cancionero/src/songs"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the importing feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the importing feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// reportView adds per-item error strings to the wire shape of a report.
type reportView struct {
	*Report
	Errors []string `json:"errors,omitempty"`
}

func viewOf(report *Report) reportView {
	view := reportView{Report: report}
	for _, r := range report.Results {
		if r.Err != nil {
			view.Errors = append(view.Errors, r.Song.ArtistName+" - "+r.Song.SongName+": "+r.Err.Error())
		}
	}
	return view
}

// ImportCSV imports a CSV payload synchronously. The payload is either an
// uploaded "file" form field or the raw request body.
func (h *Handler) ImportCSV(c *fiber.Ctx) error {
	payload, err := payloadFrom(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Import(c.Context(), payload)
	if err != nil {
		if errors.Is(err, songs.ErrParse) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		slog.Error("Import failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(viewOf(report))
}

// ImportFile queues a csv_import job for a file already in the drop directory.
func (h *Handler) ImportFile(c *fiber.Ctx) error {
	var body struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&body); err != nil || body.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing path"})
	}
	// Relative names resolve inside the drop directory.
	path := body.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.service.config.Get().Import.DropPath, path)
	}
	jobID, err := h.service.StartImportJob(path)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"jobId": jobID})
}

// StartWatcher starts the drop directory watcher. The watcher outlives the
// request, so it does not inherit the request context.
func (h *Handler) StartWatcher(c *fiber.Ctx) error {
	if err := h.service.StartWatcher(context.Background()); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "watching"})
}

// StopWatcher stops the drop directory watcher.
func (h *Handler) StopWatcher(c *fiber.Ctx) error {
	h.service.StopWatcher()
	return c.JSON(fiber.Map{"status": "stopped"})
}

func payloadFrom(c *fiber.Ctx) (string, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if len(c.Body()) == 0 {
		return "", errors.New("empty import payload")
	}
	return string(c.Body()), nil
}
