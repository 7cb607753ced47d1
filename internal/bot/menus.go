package bot

import (
	"strconv"

	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

var quickAmounts = []int{1, 5, 10}

func btn(text string, p Payload) Button {
	return Button{Text: text, Data: p.String()}
}

var (
	mainMenuButton = btn("🏠 Main Menu", Payload{Action: ActionMainMenu})
	backToMainRow  = []Button{btn("🔙 Back to Main Menu", Payload{Action: ActionMainMenu})}
)

// MainMenu is the top-level menu shown by /start and main_menu.
func MainMenu() Keyboard {
	return Keyboard{
		{btn("📊 Check Stock", Payload{Action: ActionCheckStock})},
		{
			btn("➕ Add Stock", Payload{Action: ActionAddStock}),
			btn("➖ Subtract Stock", Payload{Action: ActionSubtractStock}),
		},
		{btn("⚡ Quick Actions", Payload{Action: ActionQuickActions})},
	}
}

func BackToMainMenu() Keyboard {
	return Keyboard{backToMainRow}
}

// StockCardMenu is shown under a stock card.
func StockCardMenu(id string) Keyboard {
	return Keyboard{
		{
			btn("➕ Add Stock", Payload{Action: ActionPickAmount, ProductID: id, Direction: stock.Add}),
			btn("➖ Subtract Stock", Payload{Action: ActionPickAmount, ProductID: id, Direction: stock.Subtract}),
		},
		backToMainRow,
	}
}

// AmountPicker offers fixed amounts for a quick update in one direction.
func AmountPicker(dir stock.Direction, id string) Keyboard {
	amounts := make([]Button, 0, len(quickAmounts))
	for _, n := range quickAmounts {
		amounts = append(amounts, btn(strconv.Itoa(n), Payload{Action: ActionQuickUpdate, ProductID: id, Amount: n, Direction: dir}))
	}
	return Keyboard{
		amounts,
		{btn("🔙 Back", Payload{Action: ActionBackToStock, ProductID: id}), mainMenuButton},
	}
}

// PostUpdateMenu offers to repeat an update after a quick change.
func PostUpdateMenu(id string) Keyboard {
	return Keyboard{
		{
			btn("➕ Add Again", Payload{Action: ActionPickAmount, ProductID: id, Direction: stock.Add}),
			btn("➖ Subtract Again", Payload{Action: ActionPickAmount, ProductID: id, Direction: stock.Subtract}),
		},
		{btn("📊 View Stock", Payload{Action: ActionBackToStock, ProductID: id}), mainMenuButton},
	}
}

// BackToStockMenu is shown when a quick update is rejected.
func BackToStockMenu(id string) Keyboard {
	return Keyboard{
		{btn("🔙 Back", Payload{Action: ActionBackToStock, ProductID: id}), mainMenuButton},
	}
}

// QuickActionMenu is shown when a bare product id is typed. Nothing is
// mutated until one of its buttons is pressed.
func QuickActionMenu(id string) Keyboard {
	kb := Keyboard{{btn("📊 View Stock", Payload{Action: ActionViewStock, ProductID: id})}}
	for _, dir := range []stock.Direction{stock.Add, stock.Subtract} {
		label := "➕ Add"
		if dir == stock.Subtract {
			label = "➖ Subtract"
		}
		row := make([]Button, 0, len(quickAmounts))
		for _, n := range quickAmounts {
			row = append(row, btn(label+" ("+strconv.Itoa(n)+")", Payload{Action: ActionQuickUpdate, ProductID: id, Amount: n, Direction: dir}))
		}
		kb = append(kb, row)
	}
	return append(kb, []Button{btn("🔙 Main Menu", Payload{Action: ActionMainMenu})})
}
