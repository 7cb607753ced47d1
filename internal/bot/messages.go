package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/stock-bot/internal/models"
	"github.com/rogerio-castellano/stock-bot/internal/repo"
	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

const (
	TextUnauthorized = "⛔ You are not authorized to use this bot."

	textWelcome        = "👋 Welcome to the Inventory Management Bot! Please choose an option:"
	textInvalidID      = "❌ Invalid product ID. Please enter a valid product ID."
	textInvalidAmount  = "❌ Invalid amount. Please enter a positive number."
	textDatabaseError  = "❌ A database error occurred. Please try again later."
	textUnknownCommand = "❓ Unknown command. Send /help to see what I can do."
	textUnknownButton  = "⚠️ This button is no longer supported."

	textHelp = "📋 *User Guide*\n\n" +
		"*Commands:*\n" +
		"• `/start` - show the main menu\n" +
		"• `/help` - show this help message\n" +
		"• `/stock <product_id>` - check stock level\n" +
		"• `/add <product_id> [amount]` - add stock (default: 1)\n" +
		"• `/sub <product_id> [amount]` - subtract stock (default: 1)\n\n" +
		"*Quick use:*\n" +
		"• Send just a product ID to get quick action buttons\n" +
		"• After checking stock, quick add/subtract buttons appear\n" +
		"• Use the menu for guided actions\n\n" +
		"*Supported formats:*\n" +
		"• `PRODUCTID`\n" +
		"• `AF-PRODUCTID-BTY`\n" +
		"• `PRODUCTID-G`"

	textCheckStockPrompt = "📊 *Check Stock*\n\nSend a product ID:\n\nExample: `PROD001` or `AF-PROD001-BTY`"
	textAddStockPrompt   = "➕ *Add Stock*\n\nSend `/add <product_id> [amount]` (1 is added when no amount is given):\n\n" +
		"Examples:\n• `/add PROD001` (adds 1)\n• `/add PROD001 10` (adds 10)"
	textSubtractStockPrompt = "➖ *Subtract Stock*\n\nSend `/sub <product_id> [amount]` (1 is subtracted when no amount is given):\n\n" +
		"Examples:\n• `/sub PROD001` (subtracts 1)\n• `/sub PROD001 5` (subtracts 5)"
	textQuickActionsPrompt = "⚡ *Quick Actions*\n\nSend a product ID and pick an action from the buttons that appear.\n\n" +
		"Example: `PROD001`"
)

func notFoundText(id string) string {
	return fmt.Sprintf("❌ Product %s was not found in inventory.", id)
}

func insufficientText(current int) string {
	return fmt.Sprintf("❌ Not enough stock. Current quantity: %d.", current)
}

func quickActionsText(id string) string {
	return fmt.Sprintf("⚡ Stock Actions - %s\n\nWhat would you like to do?", id)
}

func amountPickerText(dir stock.Direction, id string) string {
	if dir == stock.Subtract {
		return fmt.Sprintf("➖ Subtract Stock\n\nProduct ID: %s\n\nChoose an amount:", id)
	}
	return fmt.Sprintf("➕ Add Stock\n\nProduct ID: %s\n\nChoose an amount:", id)
}

func stockCardText(p models.Product, listingURLBase string) string {
	listing, url := "N/A", "N/A"
	if p.ListingID != nil && *p.ListingID != "" {
		listing = *p.ListingID
		url = strings.TrimSuffix(listingURLBase, "/") + "/" + *p.ListingID
	}
	return fmt.Sprintf("📊 Stock Information:\n\nProduct ID: %s\nListing ID: %s\nQuantity: %d\nListing URL: %s",
		p.ID, listing, p.Quantity, url)
}

func updatedText(adj stock.Adjustment) string {
	sign, verb := "+", "added"
	if adj.Direction == stock.Subtract {
		sign, verb = "-", "subtracted"
	}
	return fmt.Sprintf("✅ Stock updated successfully!\n\nProduct ID: %s\nProduct Name: %s\nChange: %s%d %s\nNew Quantity: %d",
		adj.Product.ID, adj.Product.DisplayName(), sign, adj.Amount, verb, adj.Quantity)
}

// errorText converts a handler error into the fixed user-visible message.
func errorText(err error, rawID string) string {
	var (
		insufficient *stock.InsufficientStockError
		validation   *stock.ValidationError
	)
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		return notFoundText(stock.Normalize(rawID))
	case errors.As(err, &insufficient):
		return insufficientText(insufficient.Current)
	case errors.As(err, &validation):
		if validation.Field == "amount" {
			return textInvalidAmount
		}
		return textInvalidID
	default:
		return textDatabaseError
	}
}
