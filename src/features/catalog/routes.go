package catalog

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the catalog feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	cat := app.Group("/catalog")
	cat.Get("/songs", handler.GetSongs)
	cat.Get("/songs/all", handler.GetAllSongs)
	cat.Post("/songs", handler.AddSong)
	cat.Put("/songs/:id", handler.UpdateSong)
	cat.Patch("/songs/:id/comments", handler.UpdateComments)
	cat.Delete("/songs/:id", handler.DeleteSong)
	cat.Post("/filter", handler.SetFilter)
	cat.Get("/artists", handler.GetArtists)
	cat.Get("/stats", handler.GetStats)
}
