package bot

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

// HandleCallback routes an inline-button press and re-renders the menu in place.
func (b *Bot) HandleCallback(ctx context.Context, cb Callback) {
	if !b.authorized(ctx, cb.UserID, cb.ChatID, "callback") {
		b.answer(ctx, cb.ID, TextUnauthorized)
		return
	}

	p, err := DecodePayload(cb.Data)
	if err != nil {
		logf(ctx, "⚠️ callback from user %d: %v", cb.UserID, err)
		b.answer(ctx, cb.ID, textUnknownButton)
		return
	}
	b.answer(ctx, cb.ID, "")
	logf(ctx, "🔘 %q from user %d", cb.Data, cb.UserID)

	switch p.Action {
	case ActionMainMenu:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: textWelcome, Keyboard: MainMenu()})
	case ActionQuickActions:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: textQuickActionsPrompt, Markdown: true, Keyboard: BackToMainMenu()})
	case ActionCheckStock:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: textCheckStockPrompt, Markdown: true, Keyboard: BackToMainMenu()})
	case ActionAddStock:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: textAddStockPrompt, Markdown: true, Keyboard: BackToMainMenu()})
	case ActionSubtractStock:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: textSubtractStockPrompt, Markdown: true, Keyboard: BackToMainMenu()})
	case ActionPickAmount:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{
			Text:     amountPickerText(p.Direction, p.ProductID),
			Keyboard: AmountPicker(p.Direction, p.ProductID),
		})
	case ActionQuickUpdate:
		b.quickUpdate(ctx, cb, p)
	case ActionViewStock:
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, b.stockCard(ctx, p.ProductID))
	case ActionBackToStock:
		b.sendStockCard(ctx, cb.ChatID, p.ProductID)
		if err := b.msg.Delete(ctx, cb.ChatID, cb.MessageID); err != nil {
			logf(ctx, "⚠️ failed to delete message %d in chat %d: %v", cb.MessageID, cb.ChatID, err)
		}
	case ActionConfirm:
		b.confirmUpdate(ctx, cb, p)
	default:
		logf(ctx, "⚠️ no route for action %d (%q)", p.Action, cb.Data)
	}
}

// quickUpdate applies a one-tap change and offers to repeat it.
func (b *Bot) quickUpdate(ctx context.Context, cb Callback, p Payload) {
	adj, err := b.inv.ApplyDelta(ctx, p.ProductID, p.Amount, p.Direction)
	if err != nil {
		logf(ctx, "❌ quick %s %d of %s failed: %v", p.Direction, p.Amount, p.ProductID, err)
		kb := BackToMainMenu()
		var insufficient *stock.InsufficientStockError
		if errors.As(err, &insufficient) {
			kb = BackToStockMenu(p.ProductID)
		}
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: errorText(err, p.ProductID), Keyboard: kb})
		return
	}
	logf(ctx, "✅ %s: %d -> %d", adj.Product.ID, adj.Previous, adj.Quantity)
	b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: updatedText(adj), Keyboard: PostUpdateMenu(adj.Product.ID)})
}

func (b *Bot) confirmUpdate(ctx context.Context, cb Callback, p Payload) {
	adj, err := b.inv.ApplyDelta(ctx, p.ProductID, p.Amount, p.Direction)
	if err != nil {
		logf(ctx, "❌ confirmed %s %d of %s failed: %v", p.Direction, p.Amount, p.ProductID, err)
		b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: errorText(err, p.ProductID), Keyboard: BackToMainMenu()})
		return
	}
	logf(ctx, "✅ %s: %d -> %d", adj.Product.ID, adj.Previous, adj.Quantity)
	b.editOrSend(ctx, cb.ChatID, cb.MessageID, Reply{Text: updatedText(adj), Keyboard: BackToMainMenu()})
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	if err := b.msg.AnswerCallback(ctx, callbackID, text); err != nil {
		logf(ctx, "⚠️ failed to answer callback %s: %v", callbackID, err)
	}
}
