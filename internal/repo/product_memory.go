package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/stock-bot/internal/models"
)

// InMemoryStockRepository is an in-memory implementation of StockRepository.
type InMemoryStockRepository struct {
	mu       sync.Mutex
	products map[string]models.Product
	listings map[string]string
}

// NewInMemoryStockRepository creates a new instance of InMemoryStockRepository.
func NewInMemoryStockRepository() *InMemoryStockRepository {
	return &InMemoryStockRepository{
		products: map[string]models.Product{},
		listings: map[string]string{},
	}
}

// Put inserts or replaces a product record.
func (r *InMemoryStockRepository) Put(p models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ListingID = nil
	r.products[p.ID] = p
}

// PutListing associates an external listing id with a product id.
func (r *InMemoryStockRepository) PutListing(id, listingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[id] = listingID
}

// GetProduct retrieves a product by its canonical id.
func (r *InMemoryStockRepository) GetProduct(_ context.Context, id string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

// GetListingID returns the listing id for a product, or nil when there is none.
func (r *InMemoryStockRepository) GetListingID(_ context.Context, id string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listingID, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	return &listingID, nil
}

// UpdateQuantity overwrites the quantity of an existing product.
func (r *InMemoryStockRepository) UpdateQuantity(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Quantity = quantity
	r.products[id] = p
	return nil
}

func (r *InMemoryStockRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = map[string]models.Product{}
	r.listings = map[string]string{}
}
