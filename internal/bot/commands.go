package bot

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

const (
	CommandStart = "/start"
	CommandHelp  = "/help"
	CommandStock = "/stock"
	CommandAdd   = "/add"
	CommandSub   = "/sub"
)

var productToken = regexp.MustCompile(`^[A-Za-z0-9\-_]+$`)

// HandleMessage routes a text message: slash commands, or a bare product id
// which opens the quick-action menu.
func (b *Bot) HandleMessage(ctx context.Context, m Message) {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return
	}
	if !b.authorized(ctx, m.UserID, m.ChatID, "message") {
		b.send(ctx, m.ChatID, Reply{Text: TextUnauthorized})
		return
	}

	if !strings.HasPrefix(text, "/") {
		token := strings.Fields(text)[0]
		if !productToken.MatchString(token) {
			return
		}
		if len(token) > MaxProductIDLength {
			b.send(ctx, m.ChatID, Reply{Text: textInvalidID})
			return
		}
		b.send(ctx, m.ChatID, Reply{Text: quickActionsText(token), Keyboard: QuickActionMenu(token)})
		return
	}

	cmd, args := parseCommand(text)
	logf(ctx, "💬 %s from user %d", cmd, m.UserID)

	switch cmd {
	case CommandStart:
		b.send(ctx, m.ChatID, Reply{Text: textWelcome, Keyboard: MainMenu()})
	case CommandHelp:
		b.send(ctx, m.ChatID, Reply{Text: textHelp, Markdown: true})
	case CommandStock:
		if len(args) == 0 {
			b.send(ctx, m.ChatID, Reply{Text: textInvalidID, Keyboard: BackToMainMenu()})
			return
		}
		b.sendStockCard(ctx, m.ChatID, strings.Join(args, " "))
	case CommandAdd:
		b.updateCommand(ctx, m.ChatID, args, stock.Add)
	case CommandSub:
		b.updateCommand(ctx, m.ChatID, args, stock.Subtract)
	default:
		b.send(ctx, m.ChatID, Reply{Text: textUnknownCommand})
	}
}

// updateCommand handles /add and /sub: <id> [amount], amount defaulting to 1.
func (b *Bot) updateCommand(ctx context.Context, chatID int64, args []string, dir stock.Direction) {
	if len(args) == 0 || len(args) > 2 {
		b.send(ctx, chatID, Reply{Text: textInvalidID, Keyboard: BackToMainMenu()})
		return
	}

	amount := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			b.send(ctx, chatID, Reply{Text: textInvalidAmount, Keyboard: BackToMainMenu()})
			return
		}
		amount = n
	}

	adj, err := b.inv.ApplyDelta(ctx, args[0], amount, dir)
	if err != nil {
		logf(ctx, "❌ %s %d of %s failed: %v", dir, amount, args[0], err)
		b.send(ctx, chatID, Reply{Text: errorText(err, args[0]), Keyboard: BackToMainMenu()})
		return
	}
	logf(ctx, "✅ %s: %d -> %d", adj.Product.ID, adj.Previous, adj.Quantity)
	b.send(ctx, chatID, Reply{Text: updatedText(adj), Keyboard: BackToMainMenu()})
}

// sendStockCard looks up rawID and sends its stock card as a new message.
func (b *Bot) sendStockCard(ctx context.Context, chatID int64, rawID string) {
	b.send(ctx, chatID, b.stockCard(ctx, rawID))
}

func (b *Bot) stockCard(ctx context.Context, rawID string) Reply {
	p, err := b.inv.FindProduct(ctx, rawID)
	if err != nil {
		logf(ctx, "❌ lookup of %q failed: %v", rawID, err)
		return Reply{Text: errorText(err, rawID), Keyboard: BackToMainMenu()}
	}
	return Reply{Text: stockCardText(p, b.listingURLBase), Keyboard: StockCardMenu(p.ID)}
}

// parseCommand splits "/cmd@botname a b" into "/cmd" and its arguments.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd, fields[1:]
}
