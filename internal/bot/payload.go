package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/stock-bot/internal/stock"
)

// Action is the tag of a decoded button payload.
type Action int

const (
	ActionUnknown Action = iota
	ActionMainMenu
	ActionQuickActions
	ActionCheckStock
	ActionAddStock
	ActionSubtractStock
	// ActionPickAmount shows the amount picker for Direction.
	ActionPickAmount
	// ActionQuickUpdate applies Amount in Direction without confirmation.
	ActionQuickUpdate
	ActionViewStock
	ActionBackToStock
	// ActionConfirm is the legacy two-step confirmation; it applies directly.
	ActionConfirm
)

const (
	dataMainMenu      = "main_menu"
	dataQuickActions  = "quick_actions"
	dataCheckStock    = "check_stock"
	dataAddStock      = "add_stock"
	dataSubtractStock = "subtract_stock"
)

// MaxProductIDLength keeps the longest menu payload, back_to_stock_<id>,
// within Telegram's 64-byte callback data limit.
const MaxProductIDLength = 64 - len(prefixBackToStock)

const prefixBackToStock = "back_to_stock_"

var (
	ErrUnknownPayload   = errors.New("unknown payload")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Payload is the typed form of an inline button's data string.
type Payload struct {
	Action    Action
	ProductID string
	Amount    int
	Direction stock.Direction
}

// DecodePayload parses button data. Structural segments are taken at fixed
// positions, so a product id containing "_" is truncated to its first segment.
func DecodePayload(data string) (Payload, error) {
	switch data {
	case dataMainMenu:
		return Payload{Action: ActionMainMenu}, nil
	case dataQuickActions:
		return Payload{Action: ActionQuickActions}, nil
	case dataCheckStock:
		return Payload{Action: ActionCheckStock}, nil
	case dataAddStock:
		return Payload{Action: ActionAddStock}, nil
	case dataSubtractStock:
		return Payload{Action: ActionSubtractStock}, nil
	}

	parts := strings.Split(data, "_")
	switch {
	case len(parts) >= 3 && parts[0] == "quick":
		dir, ok := quickDirection(parts[1])
		if !ok {
			break
		}
		p := Payload{Action: ActionPickAmount, ProductID: parts[2], Direction: dir}
		if len(parts) >= 4 {
			amount, err := parseAmount(parts[3])
			if err != nil {
				return Payload{}, fmt.Errorf("%w: %q: %v", ErrMalformedPayload, data, err)
			}
			p.Action = ActionQuickUpdate
			p.Amount = amount
		}
		return requireID(p, data)

	case len(parts) >= 3 && parts[0] == "view" && parts[1] == "stock":
		return requireID(Payload{Action: ActionViewStock, ProductID: parts[2]}, data)

	case len(parts) >= 4 && parts[0] == "back" && parts[1] == "to" && parts[2] == "stock":
		return requireID(Payload{Action: ActionBackToStock, ProductID: parts[3]}, data)

	case len(parts) >= 3 && parts[0] == "confirm":
		dir, ok := confirmDirection(parts[1])
		if !ok {
			break
		}
		p := Payload{Action: ActionConfirm, ProductID: parts[2], Amount: 1, Direction: dir}
		if len(parts) >= 4 {
			amount, err := parseAmount(parts[3])
			if err != nil {
				return Payload{}, fmt.Errorf("%w: %q: %v", ErrMalformedPayload, data, err)
			}
			p.Amount = amount
		}
		return requireID(p, data)
	}

	return Payload{}, fmt.Errorf("%w: %q", ErrUnknownPayload, data)
}

// String encodes the payload in the wire format DecodePayload accepts.
func (p Payload) String() string {
	switch p.Action {
	case ActionMainMenu:
		return dataMainMenu
	case ActionQuickActions:
		return dataQuickActions
	case ActionCheckStock:
		return dataCheckStock
	case ActionAddStock:
		return dataAddStock
	case ActionSubtractStock:
		return dataSubtractStock
	case ActionPickAmount:
		return "quick_" + quickVerb(p.Direction) + "_" + p.ProductID
	case ActionQuickUpdate:
		return "quick_" + quickVerb(p.Direction) + "_" + p.ProductID + "_" + strconv.Itoa(p.Amount)
	case ActionViewStock:
		return "view_stock_" + p.ProductID
	case ActionBackToStock:
		return prefixBackToStock + p.ProductID
	case ActionConfirm:
		return "confirm_" + p.Direction.String() + "_" + p.ProductID + "_" + strconv.Itoa(p.Amount)
	default:
		return ""
	}
}

func quickVerb(d stock.Direction) string {
	if d == stock.Subtract {
		return "sub"
	}
	return "add"
}

func quickDirection(verb string) (stock.Direction, bool) {
	switch verb {
	case "add":
		return stock.Add, true
	case "sub", "subtract":
		return stock.Subtract, true
	}
	return 0, false
}

func confirmDirection(verb string) (stock.Direction, bool) {
	switch verb {
	case "add":
		return stock.Add, true
	case "subtract":
		return stock.Subtract, true
	}
	return 0, false
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("amount %d is not positive", n)
	}
	return n, nil
}

func requireID(p Payload, data string) (Payload, error) {
	if p.ProductID == "" {
		return Payload{}, fmt.Errorf("%w: %q: missing product id", ErrMalformedPayload, data)
	}
	return p, nil
}
