package stock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/rogerio-castellano/stock-bot/internal/models"
	"github.com/rogerio-castellano/stock-bot/internal/repo"
)

// Direction selects whether ApplyDelta adds to or subtracts from stock.
type Direction int

const (
	Add Direction = iota + 1
	Subtract
)

func (d Direction) String() string {
	switch d {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	default:
		return "unknown"
	}
}

// MaxQuantity is the largest quantity the stock table's INTEGER column holds.
const MaxQuantity = math.MaxInt32

// Adjustment describes a completed quantity change.
type Adjustment struct {
	Product   models.Product
	Previous  int
	Quantity  int
	Amount    int
	Direction Direction
}

// Service performs product lookups and quantity changes keyed by canonical id.
type Service struct {
	repo repo.StockRepository
}

func NewService(r repo.StockRepository) *Service {
	return &Service{repo: r}
}

// FindProduct normalizes rawID and looks it up, attaching the listing id when
// one exists. Listing lookups are for display only; their failures are logged.
func (s *Service) FindProduct(ctx context.Context, rawID string) (models.Product, error) {
	id, err := canonicalID(rawID)
	if err != nil {
		return models.Product{}, err
	}

	p, err := s.getProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	listingID, err := s.repo.GetListingID(ctx, p.ID)
	if err != nil {
		log.Printf("⚠️ listing lookup for %s failed: %v", p.ID, err)
		return p, nil
	}
	p.ListingID = listingID
	return p, nil
}

// ApplyDelta reads the current quantity, applies amount in the given
// direction and writes the result back. Read and write are separate round
// trips with no isolation, so concurrent callers may lose updates.
func (s *Service) ApplyDelta(ctx context.Context, rawID string, amount int, dir Direction) (Adjustment, error) {
	if amount <= 0 {
		return Adjustment{}, &ValidationError{Field: "amount", Reason: "must be a positive integer"}
	}
	if amount > MaxQuantity {
		return Adjustment{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("must not exceed %d", MaxQuantity)}
	}
	if dir != Add && dir != Subtract {
		return Adjustment{}, &ValidationError{Field: "direction", Reason: "must be add or subtract"}
	}
	id, err := canonicalID(rawID)
	if err != nil {
		return Adjustment{}, err
	}

	p, err := s.getProduct(ctx, id)
	if err != nil {
		return Adjustment{}, err
	}

	next := p.Quantity + amount
	if dir == Add && p.Quantity > MaxQuantity-amount {
		return Adjustment{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("quantity would exceed %d", MaxQuantity)}
	}
	if dir == Subtract {
		if p.Quantity < amount {
			return Adjustment{}, &InsufficientStockError{ProductID: p.ID, Current: p.Quantity, Requested: amount}
		}
		next = p.Quantity - amount
	}

	if err := s.repo.UpdateQuantity(ctx, p.ID, next); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return Adjustment{}, err
		}
		return Adjustment{}, &RepositoryError{Op: "update", Err: err}
	}

	adj := Adjustment{
		Product:   p,
		Previous:  p.Quantity,
		Quantity:  next,
		Amount:    amount,
		Direction: dir,
	}
	adj.Product.Quantity = next
	return adj, nil
}

func (s *Service) getProduct(ctx context.Context, id string) (models.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, &RepositoryError{Op: "select", Err: err}
	}
	return p, nil
}

func canonicalID(rawID string) (string, error) {
	id := Normalize(rawID)
	if id == "" {
		return "", &ValidationError{Field: "product id", Reason: "must not be empty"}
	}
	return id, nil
}
