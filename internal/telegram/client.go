// Package telegram adapts the Telegram Bot API to the bot package's
// Messenger and Event types.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rogerio-castellano/stock-bot/internal/bot"
)

// API is the subset of *tgbotapi.BotAPI the client uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client implements bot.Messenger.
type Client struct {
	api API
}

func NewClient(api API) *Client {
	return &Client{api: api}
}

func (c *Client) Send(ctx context.Context, chatID int64, r bot.Reply) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrap("send", err)
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if markup, ok := toMarkup(r.Keyboard); ok {
		msg.ReplyMarkup = markup
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, wrap("send", err)
	}
	return sent.MessageID, nil
}

func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, r bot.Reply) error {
	if err := ctx.Err(); err != nil {
		return wrap("edit", err)
	}
	var edit tgbotapi.EditMessageTextConfig
	if markup, ok := toMarkup(r.Keyboard); ok {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, r.Text, markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, r.Text)
	}
	if r.Markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := c.api.Send(edit); err != nil {
		return wrap("edit", err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return wrap("delete", err)
	}
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return wrap("delete", err)
	}
	return nil
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return wrap("answer callback", err)
	}
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return wrap("answer callback", err)
	}
	return nil
}

func toMarkup(kb bot.Keyboard) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(kb) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

const notModified = "message is not modified"

func wrap(op string, err error) error {
	if isNotModified(err) {
		err = fmt.Errorf("%w (%v)", bot.ErrMessageNotModified, err)
	}
	return &bot.TransportError{Op: op, Err: err}
}

func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Message, notModified)
	}
	return strings.Contains(err.Error(), notModified)
}
