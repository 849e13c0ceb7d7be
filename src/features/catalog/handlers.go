package catalog

import (
	"errors"
	"log/slog"
	"strings"

	"cancionero/src/songs"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the catalog feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the catalog feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// songBody is the wire shape for create/update requests. State and Type come
// in raw and are collapsed through the enum parsers.
type songBody struct {
	ArtistName  *string `json:"artistName"`
	SongName    *string `json:"songName"`
	State       *string `json:"state"`
	Type        *string `json:"type"`
	YouTubeLink *string `json:"youtubeLink"`
	Comments    *string `json:"comments"`
}

// GetSongs returns the filtered view. Query parameters, when present, install
// a new filter first.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	if c.Request().URI().QueryArgs().Len() > 0 {
		h.service.SetFilter(queryFromParams(c))
	}
	return c.JSON(fiber.Map{
		"songs": h.service.Filtered(),
		"total": h.service.Count(),
	})
}

// GetAllSongs returns the whole mirror regardless of the installed filter.
func (h *Handler) GetAllSongs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"songs": h.service.Songs()})
}

// SetFilter installs a new filter query.
func (h *Handler) SetFilter(c *fiber.Ctx) error {
	var q Query
	if err := c.BodyParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid filter payload"})
	}
	h.service.SetFilter(q)
	return c.JSON(fiber.Map{"songs": h.service.Filtered()})
}

// AddSong creates a song from a draft payload.
func (h *Handler) AddSong(c *fiber.Ctx) error {
	var body songBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song payload"})
	}
	draft := &songs.Song{}
	if body.ArtistName != nil {
		draft.ArtistName = *body.ArtistName
	}
	if body.SongName != nil {
		draft.SongName = *body.SongName
	}
	if body.State != nil {
		draft.State = songs.StateOrDefault(*body.State)
	} else {
		draft.State = songs.StatePending
	}
	if body.Type != nil {
		draft.Type = songs.TypeOrDefault(*body.Type)
	} else {
		draft.Type = songs.TypeSlow
	}
	if body.YouTubeLink != nil {
		draft.YouTubeLink = *body.YouTubeLink
	}
	if body.Comments != nil {
		draft.Comments = *body.Comments
	}

	created, err := h.service.Add(c.Context(), draft)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateSong merges a partial payload into an existing song.
func (h *Handler) UpdateSong(c *fiber.Ctx) error {
	id := c.Params("id")
	var body songBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song payload"})
	}
	patch := songs.Patch{
		ArtistName:  body.ArtistName,
		SongName:    body.SongName,
		YouTubeLink: body.YouTubeLink,
		Comments:    body.Comments,
	}
	if body.State != nil {
		state := songs.StateOrDefault(*body.State)
		patch.State = &state
	}
	if body.Type != nil {
		typ := songs.TypeOrDefault(*body.Type)
		patch.Type = &typ
	}

	updated, err := h.service.Update(c.Context(), id, patch)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(updated)
}

// UpdateComments overwrites only the comments of a song.
func (h *Handler) UpdateComments(c *fiber.Ctx) error {
	id := c.Params("id")
	var body struct {
		Comments string `json:"comments"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comments payload"})
	}
	updated, err := h.service.UpdateComments(c.Context(), id, body.Comments)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(updated)
}

// DeleteSong removes a song from the catalog.
func (h *Handler) DeleteSong(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return storeErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetArtists returns the deduplicated artist names.
func (h *Handler) GetArtists(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"artists": h.service.Artists()})
}

// GetStats returns catalog counts, total and per state/type.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"total":    h.service.Count(),
		"byState":  h.service.CountsByState(),
		"byType":   h.service.CountsByType(),
		"filtered": len(h.service.Filtered()),
	})
}

// queryFromParams builds a filter query from search/types/states parameters.
func queryFromParams(c *fiber.Ctx) Query {
	q := Query{Search: c.Query("search")}
	if raw := c.Query("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if t, ok := songs.ParseType(part); ok {
				q.Types = append(q.Types, t)
			}
		}
	}
	if raw := c.Query("states"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if s, ok := songs.ParseState(part); ok {
				q.States = append(q.States, s)
			}
		}
	}
	return q
}

// storeErrorResponse maps domain errors onto HTTP statuses.
func storeErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, songs.ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, songs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, songs.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		slog.Error("Catalog operation failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
}
