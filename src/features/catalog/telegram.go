package catalog

import (
	"fmt"
	"strings"

	"cancionero/src/songs"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the catalog feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the catalog feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes catalog-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "stats":
		return h.handleStats(bot, chatID)
	case "search":
		return h.handleSearch(bot, chatID, args)
	case "artists":
		return h.handleArtists(bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown catalog command. Use /stats, /artists or /search <text>"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"stats":   "Show catalog statistics",
		"search":  "Search songs by artist, title or comments (/search <text>)",
		"artists": "List artists in the catalog",
	}
}

// HandleCallback handles callback queries for this feature (catalog has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleStats shows catalog statistics
func (h *TelegramHandler) handleStats(bot *tgbotapi.BotAPI, chatID int64) error {
	byState := h.service.CountsByState()
	byType := h.service.CountsByType()

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Catalog Statistics*\n\n🎵 Songs: `%d`\n---\n", h.service.Count())
	for _, state := range songs.States() {
		fmt.Fprintf(&b, "%s: `%d`\n", state.Display(), byState[state])
	}
	b.WriteString("---\n")
	for _, typ := range songs.Types() {
		fmt.Fprintf(&b, "%s: `%d`\n", typ.Display(), byType[typ])
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := bot.Send(msg)
	return err
}

// handleSearch runs a text search over the mirror without touching the
// installed UI filter.
func (h *TelegramHandler) handleSearch(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	text := strings.TrimSpace(args)
	if text == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "Usage: /search <text>"))
		return nil
	}

	matches := ApplyFilter(h.service.Songs(), Query{Search: text})
	if len(matches) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "No songs match "+text))
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *%d result(s)*\n\n", len(matches))
	for i, s := range matches {
		if i >= 20 {
			fmt.Fprintf(&b, "… and %d more\n", len(matches)-i)
			break
		}
		fmt.Fprintf(&b, "• %s — %s (%s, %s)\n", s.ArtistName, s.SongName, s.State.Display(), s.Type.Display())
	}
	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := bot.Send(msg)
	return err
}

// handleArtists lists the artist index
func (h *TelegramHandler) handleArtists(bot *tgbotapi.BotAPI, chatID int64) error {
	artists := h.service.Artists()
	if len(artists) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "The catalog is empty"))
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, "👤 "+strings.Join(artists, ", "))
	_, err := bot.Send(msg)
	return err
}
