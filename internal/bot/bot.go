// Package bot routes chat commands and inline-button presses to stock lookups
// and quantity changes, and renders the reply menus.
package bot

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/stock-bot/internal/models"
	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

// Inventory is the stock service the routers call into.
type Inventory interface {
	FindProduct(ctx context.Context, rawID string) (models.Product, error)
	ApplyDelta(ctx context.Context, rawID string, amount int, dir stock.Direction) (stock.Adjustment, error)
}

type Authorizer interface {
	IsAuthorized(userID int64) bool
}

// AccessObserver is told about every rejected interaction.
type AccessObserver interface {
	Denied(ctx context.Context, userID, chatID int64, action string)
}

// Message is an inbound text message.
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
}

// Callback is an inbound inline-button press.
type Callback struct {
	ID        string
	ChatID    int64
	UserID    int64
	MessageID int
	Data      string
}

// Event carries exactly one of Message or Callback.
type Event struct {
	Message  *Message
	Callback *Callback
}

type Deps struct {
	Inventory      Inventory
	Authorizer     Authorizer
	Messenger      Messenger
	Observer       AccessObserver
	ListingURLBase string
}

type Bot struct {
	inv            Inventory
	authz          Authorizer
	msg            Messenger
	observer       AccessObserver
	listingURLBase string
}

func New(d Deps) *Bot {
	return &Bot{
		inv:            d.Inventory,
		authz:          d.Authorizer,
		msg:            d.Messenger,
		observer:       d.Observer,
		listingURLBase: d.ListingURLBase,
	}
}

// ErrUpdatesClosed is returned by Run when the update source stops before ctx is done.
var ErrUpdatesClosed = errors.New("update stream closed")

// Run handles events one at a time until ctx is done or events is closed.
func (b *Bot) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrUpdatesClosed
			}
			b.Dispatch(ctx, ev)
		}
	}
}

// Dispatch handles a single event. Handler panics are logged, never propagated.
func (b *Bot) Dispatch(ctx context.Context, ev Event) {
	ctx = withTrace(ctx, uuid.NewString()[:8])
	defer func() {
		if r := recover(); r != nil {
			logf(ctx, "❌ handler panic: %v", r)
		}
	}()

	switch {
	case ev.Callback != nil:
		b.HandleCallback(ctx, *ev.Callback)
	case ev.Message != nil:
		b.HandleMessage(ctx, *ev.Message)
	}
}

func (b *Bot) authorized(ctx context.Context, userID, chatID int64, action string) bool {
	if b.authz != nil && b.authz.IsAuthorized(userID) {
		return true
	}
	logf(ctx, "⛔ unauthorized %s from user %d in chat %d", action, userID, chatID)
	if b.observer != nil {
		b.observer.Denied(ctx, userID, chatID, action)
	}
	return false
}

func (b *Bot) send(ctx context.Context, chatID int64, r Reply) {
	if _, err := b.msg.Send(ctx, chatID, r); err != nil {
		logf(ctx, "❌ failed to send message to chat %d: %v", chatID, err)
	}
}

// editOrSend edits a message in place. An unchanged-content rejection is
// ignored; any other failure falls back to a new message.
func (b *Bot) editOrSend(ctx context.Context, chatID int64, messageID int, r Reply) {
	err := b.msg.Edit(ctx, chatID, messageID, r)
	if err == nil || errors.Is(err, ErrMessageNotModified) {
		return
	}
	logf(ctx, "⚠️ failed to edit message %d in chat %d, sending a new one: %v", messageID, chatID, err)
	b.send(ctx, chatID, r)
}

type traceKey struct{}

func withTrace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func logf(ctx context.Context, format string, args ...any) {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		log.Printf("["+id+"] "+format, args...)
		return
	}
	log.Printf(format, args...)
}
