package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rogerio-castellano/stock-bot/internal/bot"
)

type fakeAPI struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	err       error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	return tgbotapi.Message{MessageID: 500 + len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	if f.err != nil {
		return nil, f.err
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

var sampleKeyboard = bot.Keyboard{
	{{Text: "1", Data: "quick_add_PROD001_1"}, {Text: "5", Data: "quick_add_PROD001_5"}},
	{{Text: "🏠 Main Menu", Data: "main_menu"}},
}

func TestSend_BuildsMessage(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api)

	id, err := c.Send(context.Background(), 42, bot.Reply{Text: "*hi*", Markdown: true, Keyboard: sampleKeyboard})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 501 {
		t.Errorf("expected message id 501, got %d", id)
	}

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected MessageConfig, got %T", api.sent[0])
	}
	if msg.ChatID != 42 || msg.Text != "*hi*" || msg.ParseMode != tgbotapi.ModeMarkdown {
		t.Errorf("unexpected message %+v", msg)
	}
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("expected inline keyboard, got %T", msg.ReplyMarkup)
	}
	if len(markup.InlineKeyboard) != 2 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("unexpected layout %+v", markup.InlineKeyboard)
	}
	if data := markup.InlineKeyboard[0][1].CallbackData; data == nil || *data != "quick_add_PROD001_5" {
		t.Errorf("unexpected callback data %v", data)
	}
}

func TestSend_NoKeyboard(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api)

	if _, err := c.Send(context.Background(), 42, bot.Reply{Text: "plain"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := api.sent[0].(tgbotapi.MessageConfig)
	if msg.ReplyMarkup != nil || msg.ParseMode != "" {
		t.Errorf("expected no markup and no parse mode, got %+v", msg)
	}
}

func TestEdit_BuildsEdit(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api)

	if err := c.Edit(context.Background(), 42, 7, bot.Reply{Text: "menu", Keyboard: sampleKeyboard}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("expected EditMessageTextConfig, got %T", api.sent[0])
	}
	if edit.ChatID != 42 || edit.MessageID != 7 || edit.Text != "menu" {
		t.Errorf("unexpected edit %+v", edit)
	}
	if edit.ReplyMarkup == nil || len(edit.ReplyMarkup.InlineKeyboard) != 2 {
		t.Errorf("expected keyboard on edit, got %+v", edit.ReplyMarkup)
	}
}

func TestDeleteAndAnswer_UseRequest(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api)
	ctx := context.Background()

	if err := c.Delete(ctx, 42, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AnswerCallback(ctx, "cb-1", "nope"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if del, ok := api.requested[0].(tgbotapi.DeleteMessageConfig); !ok || del.MessageID != 7 || del.ChatID != 42 {
		t.Errorf("unexpected delete %+v", api.requested[0])
	}
	if cb, ok := api.requested[1].(tgbotapi.CallbackConfig); !ok || cb.CallbackQueryID != "cb-1" || cb.Text != "nope" {
		t.Errorf("unexpected callback answer %+v", api.requested[1])
	}
}

func TestErrors_AreTransportErrors(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantNotModified bool
	}{
		{
			name:            "api not modified",
			err:             &tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified: specified new message content and reply markup are exactly the same"},
			wantNotModified: true,
		},
		{name: "plain not modified", err: errors.New("Bad Request: message is not modified"), wantNotModified: true},
		{name: "other api error", err: &tgbotapi.Error{Code: 400, Message: "Bad Request: message to edit not found"}},
		{name: "network", err: errors.New("dial tcp: i/o timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(&fakeAPI{err: tt.err})

			err := c.Edit(context.Background(), 1, 2, bot.Reply{Text: "x"})

			var terr *bot.TransportError
			if !errors.As(err, &terr) || terr.Op != "edit" {
				t.Fatalf("expected TransportError for edit, got %v", err)
			}
			if got := errors.Is(err, bot.ErrMessageNotModified); got != tt.wantNotModified {
				t.Errorf("errors.Is(ErrMessageNotModified) = %v, want %v", got, tt.wantNotModified)
			}
		})
	}
}

func TestCanceledContextSkipsCall(t *testing.T) {
	api := &fakeAPI{}
	c := NewClient(api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Send(ctx, 1, bot.Reply{Text: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(api.sent) != 0 {
		t.Errorf("expected no API call")
	}
}
