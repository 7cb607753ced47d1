package bot_test

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/stock-bot/internal/auth"
	"github.com/rogerio-castellano/stock-bot/internal/bot"
	"github.com/rogerio-castellano/stock-bot/internal/models"
	"github.com/rogerio-castellano/stock-bot/internal/repo"
	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

const (
	adminID    int64 = 111
	strangerID int64 = 999
	chatID     int64 = 42
)

type call struct {
	Op         string
	ChatID     int64
	MessageID  int
	CallbackID string
	Reply      bot.Reply
	Text       string
}

// recordingMessenger records every outbound call and can be told to fail.
type recordingMessenger struct {
	calls     []call
	nextID    int
	editErr   error
	sendErr   error
	deleteErr error
}

func (m *recordingMessenger) Send(_ context.Context, chatID int64, r bot.Reply) (int, error) {
	m.calls = append(m.calls, call{Op: "send", ChatID: chatID, Reply: r})
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.nextID++
	return m.nextID, nil
}

func (m *recordingMessenger) Edit(_ context.Context, chatID int64, messageID int, r bot.Reply) error {
	m.calls = append(m.calls, call{Op: "edit", ChatID: chatID, MessageID: messageID, Reply: r})
	return m.editErr
}

func (m *recordingMessenger) Delete(_ context.Context, chatID int64, messageID int) error {
	m.calls = append(m.calls, call{Op: "delete", ChatID: chatID, MessageID: messageID})
	return m.deleteErr
}

func (m *recordingMessenger) AnswerCallback(_ context.Context, callbackID, text string) error {
	m.calls = append(m.calls, call{Op: "answer", CallbackID: callbackID, Text: text})
	return nil
}

func (m *recordingMessenger) ops(op string) []call {
	var out []call
	for _, c := range m.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *recordingMessenger) last(t *testing.T, op string) call {
	t.Helper()
	calls := m.ops(op)
	if len(calls) == 0 {
		t.Fatalf("expected a %s call, got %+v", op, m.calls)
	}
	return calls[len(calls)-1]
}

// countingInventory counts every call that reaches the stock service.
type countingInventory struct {
	bot.Inventory
	calls int
}

func (c *countingInventory) FindProduct(ctx context.Context, rawID string) (models.Product, error) {
	c.calls++
	return c.Inventory.FindProduct(ctx, rawID)
}

func (c *countingInventory) ApplyDelta(ctx context.Context, rawID string, amount int, dir stock.Direction) (stock.Adjustment, error) {
	c.calls++
	return c.Inventory.ApplyDelta(ctx, rawID, amount, dir)
}

type deniedRecorder struct {
	actions []string
}

func (d *deniedRecorder) Denied(_ context.Context, _, _ int64, action string) {
	d.actions = append(d.actions, action)
}

type fixture struct {
	bot      *bot.Bot
	repo     *repo.InMemoryStockRepository
	msg      *recordingMessenger
	inv      *countingInventory
	observer *deniedRecorder
}

func newFixture(t *testing.T, products ...models.Product) *fixture {
	t.Helper()
	r := repo.NewInMemoryStockRepository()
	for _, p := range products {
		r.Put(p)
	}
	f := &fixture{
		repo:     r,
		msg:      &recordingMessenger{},
		inv:      &countingInventory{Inventory: stock.NewService(r)},
		observer: &deniedRecorder{},
	}
	f.bot = bot.New(bot.Deps{
		Inventory:      f.inv,
		Authorizer:     auth.ParseList("111,222"),
		Messenger:      f.msg,
		Observer:       f.observer,
		ListingURLBase: "https://shopier.com/",
	})
	return f
}

func (f *fixture) text(userID int64, text string) {
	f.bot.Dispatch(context.Background(), bot.Event{Message: &bot.Message{ChatID: chatID, UserID: userID, MessageID: 1, Text: text}})
}

func (f *fixture) press(userID int64, data string) {
	f.bot.Dispatch(context.Background(), bot.Event{Callback: &bot.Callback{ID: "cb-1", ChatID: chatID, UserID: userID, MessageID: 77, Data: data}})
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := f.repo.GetProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProduct(%s): %v", id, err)
	}
	return p.Quantity
}

func hasButton(kb bot.Keyboard, data string) bool {
	for _, row := range kb {
		for _, b := range row {
			if b.Data == data {
				return true
			}
		}
	}
	return false
}
