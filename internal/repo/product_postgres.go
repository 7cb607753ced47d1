package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rogerio-castellano/stock-bot/internal/models"
)

// Tables names the stock table and the related listing table.
type Tables struct {
	Stock         string
	Listing       string
	ListingColumn string
}

const queryTimeout = 3 * time.Second

type PostgresStockRepository struct {
	db *sql.DB

	getProductQuery string
	getListingQuery string
	updateQuery     string
}

func NewPostgresStockRepository(db *sql.DB, t Tables) *PostgresStockRepository {
	stock := pgx.Identifier{t.Stock}.Sanitize()
	listing := pgx.Identifier{t.Listing}.Sanitize()
	column := pgx.Identifier{t.ListingColumn}.Sanitize()

	return &PostgresStockRepository{
		db:              db,
		getProductQuery: fmt.Sprintf(`SELECT id, name, quantity FROM %s WHERE id = $1`, stock),
		getListingQuery: fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, column, listing),
		updateQuery:     fmt.Sprintf(`UPDATE %s SET quantity = $1 WHERE id = $2`, stock),
	}
}

func (r *PostgresStockRepository) GetProduct(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		p    models.Product
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, r.getProductQuery, id).Scan(&p.ID, &name, &p.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to select product %s: %w", id, err)
	}
	p.Name = name.String
	return p, nil
}

func (r *PostgresStockRepository) GetListingID(ctx context.Context, id string) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var listingID sql.NullString
	err := r.db.QueryRowContext(ctx, r.getListingQuery, id).Scan(&listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select listing for %s: %w", id, err)
	}
	if !listingID.Valid {
		return nil, nil
	}
	return &listingID.String, nil
}

func (r *PostgresStockRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.updateQuery, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update quantity for %s: %w", id, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
