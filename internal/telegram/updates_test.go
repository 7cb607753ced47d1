package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rogerio-castellano/stock-bot/internal/bot"
)

func TestToEvent(t *testing.T) {
	chat := &tgbotapi.Chat{ID: 42}
	user := &tgbotapi.User{ID: 111}

	t.Run("text message", func(t *testing.T) {
		ev, ok := ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 3, Chat: chat, From: user, Text: "/stock PROD001"}})
		if !ok || ev.Message == nil {
			t.Fatalf("expected message event, got %+v", ev)
		}
		want := bot.Message{ChatID: 42, UserID: 111, MessageID: 3, Text: "/stock PROD001"}
		if *ev.Message != want {
			t.Errorf("got %+v, want %+v", *ev.Message, want)
		}
	})

	t.Run("callback", func(t *testing.T) {
		ev, ok := ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID: "cb-9", From: user, Data: "main_menu",
			Message: &tgbotapi.Message{MessageID: 8, Chat: chat},
		}})
		if !ok || ev.Callback == nil {
			t.Fatalf("expected callback event, got %+v", ev)
		}
		want := bot.Callback{ID: "cb-9", ChatID: 42, UserID: 111, MessageID: 8, Data: "main_menu"}
		if *ev.Callback != want {
			t.Errorf("got %+v, want %+v", *ev.Callback, want)
		}
	})

	ignored := map[string]tgbotapi.Update{
		"empty":           {},
		"photo":           {Message: &tgbotapi.Message{Chat: chat, From: user}},
		"channel post":    {Message: &tgbotapi.Message{Chat: chat, Text: "hi"}},
		"inline callback": {CallbackQuery: &tgbotapi.CallbackQuery{ID: "x", From: user, InlineMessageID: "abc"}},
		"edited message":  {EditedMessage: &tgbotapi.Message{Chat: chat, From: user, Text: "/add X"}},
	}
	for name, u := range ignored {
		t.Run(name, func(t *testing.T) {
			if _, ok := ToEvent(u); ok {
				t.Errorf("expected update to be ignored")
			}
		})
	}
}

type parserFunc func(r *http.Request) (*tgbotapi.Update, error)

func (f parserFunc) HandleUpdate(r *http.Request) (*tgbotapi.Update, error) { return f(r) }

func jsonParser(r *http.Request) (*tgbotapi.Update, error) {
	var u tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		return nil, errors.New("bad json")
	}
	return &u, nil
}

func TestWebhookHandler_ForwardsEvent(t *testing.T) {
	events := make(chan bot.Event, 1)
	h := WebhookHandler(context.Background(), parserFunc(jsonParser), events)

	body := `{"update_id":1,"message":{"message_id":5,"chat":{"id":42},"from":{"id":111},"text":"/start"}}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	select {
	case ev := <-events:
		if ev.Message == nil || ev.Message.Text != "/start" || ev.Message.UserID != 111 {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestWebhookHandler_BadUpdate(t *testing.T) {
	events := make(chan bot.Event, 1)
	h := WebhookHandler(context.Background(), parserFunc(jsonParser), events)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{nope")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if len(events) != 0 {
		t.Errorf("expected no event")
	}
}

func TestWebhookHandler_IgnoredUpdateAcknowledged(t *testing.T) {
	events := make(chan bot.Event)
	h := WebhookHandler(context.Background(), parserFunc(jsonParser), events)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(`{"update_id":2}`)))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestWebhookHandler_ShuttingDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := WebhookHandler(ctx, parserFunc(jsonParser), make(chan bot.Event))

	body := `{"update_id":1,"message":{"message_id":5,"chat":{"id":42},"from":{"id":111},"text":"/start"}}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body)))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}
