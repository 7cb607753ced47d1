package repo

import (
	"context"

	"github.com/rogerio-castellano/stock-bot/internal/models"
)

// StockRepository defines point lookups and the single-field update the bot performs.
type StockRepository interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
	GetListingID(ctx context.Context, id string) (*string, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
}
