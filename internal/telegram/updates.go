package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rogerio-castellano/stock-bot/internal/bot"
)

// ToEvent converts an update into a bot.Event. Updates the bot does not
// handle (edited messages, inline-mode callbacks, non-text messages) report false.
func ToEvent(u tgbotapi.Update) (bot.Event, bool) {
	if cq := u.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
			return bot.Event{}, false
		}
		return bot.Event{Callback: &bot.Callback{
			ID:        cq.ID,
			ChatID:    cq.Message.Chat.ID,
			UserID:    cq.From.ID,
			MessageID: cq.Message.MessageID,
			Data:      cq.Data,
		}}, true
	}
	if m := u.Message; m != nil {
		if m.Chat == nil || m.From == nil || m.Text == "" {
			return bot.Event{}, false
		}
		return bot.Event{Message: &bot.Message{
			ChatID:    m.Chat.ID,
			UserID:    m.From.ID,
			MessageID: m.MessageID,
			Text:      m.Text,
		}}, true
	}
	return bot.Event{}, false
}

// Poll removes any registered webhook and streams updates by long polling
// until ctx is done.
func Poll(ctx context.Context, api *tgbotapi.BotAPI) (<-chan bot.Event, error) {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	events := make(chan bot.Event)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				api.StopReceivingUpdates()
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				ev, ok := ToEvent(upd)
				if !ok {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return events, nil
}

// RegisterWebhook points Telegram at url.
func RegisterWebhook(api *tgbotapi.BotAPI, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url %q: %w", url, err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// UpdateParser is implemented by *tgbotapi.BotAPI.
type UpdateParser interface {
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// WebhookHandler parses pushed updates and forwards them to events. It blocks
// until the run loop takes the event, so updates stay serialized.
func WebhookHandler(ctx context.Context, p UpdateParser, events chan<- bot.Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update, err := p.HandleUpdate(r)
		if err != nil {
			log.Printf("⚠️ invalid webhook update: %v", err)
			http.Error(w, "invalid update", http.StatusBadRequest)
			return
		}

		ev, ok := ToEvent(*update)
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		select {
		case events <- ev:
			w.WriteHeader(http.StatusOK)
		case <-ctx.Done():
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
		case <-r.Context().Done():
		}
	}
}
