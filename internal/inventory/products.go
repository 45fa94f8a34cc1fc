package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
)

// ProductLabel is the label-facing slice of a product: everything a
// printed price tag needs, with country and category already resolved to
// their display names.
type ProductLabel struct {
	Name     string
	Price    int
	OldPrice int
	RedPrice bool
	Country  string
	Category string
}

const labelQuery = `
	SELECT p.name, p.price, p.old_price, p.red_price, co.name, ca.name
	FROM products p
	JOIN countries co ON co.id = p.country_id
	JOIN categories ca ON ca.id = p.category_id
`

// LabelByBarcode looks up a product label by exact barcode match
func (s *Store) LabelByBarcode(ctx context.Context, barcode string) (*ProductLabel, error) {
	return s.scanLabel(ctx, labelQuery+` WHERE p.barcode = $1`, barcode)
}

// LabelByNameFold looks up a product label by case-insensitive exact name match
func (s *Store) LabelByNameFold(ctx context.Context, name string) (*ProductLabel, error) {
	return s.scanLabel(ctx, labelQuery+` WHERE LOWER(p.name) = LOWER($1)`, name)
}

func (s *Store) scanLabel(ctx context.Context, query string, arg string) (*ProductLabel, error) {
	var l ProductLabel
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&l.Name, &l.Price, &l.OldPrice, &l.RedPrice, &l.Country, &l.Category,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up product label: %w", err)
	}
	return &l, nil
}

// ProductByName looks up a product by exact name match (text update protocol)
func (s *Store) ProductByName(ctx context.Context, name string) (*database.Product, error) {
	return s.scanProduct(ctx, `WHERE name = $1`, name)
}

// ProductBySKU looks up a product by exact SKU match (file update protocol)
func (s *Store) ProductBySKU(ctx context.Context, sku string) (*database.Product, error) {
	return s.scanProduct(ctx, `WHERE sku = $1`, sku)
}

// ProductByBarcode looks up a product by exact barcode match
func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*database.Product, error) {
	return s.scanProduct(ctx, `WHERE barcode = $1`, barcode)
}

func (s *Store) scanProduct(ctx context.Context, where string, arg string) (*database.Product, error) {
	var p database.Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, sku, barcode, name, price, old_price, red_price, country_id, category_id, updated_at
		FROM products `+where+` LIMIT 1`, arg).Scan(
		&p.ID, &p.SKU, &p.Barcode, &p.Name, &p.Price, &p.OldPrice,
		&p.RedPrice, &p.CountryID, &p.CategoryID, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	return &p, nil
}

// ListProducts returns products newest-first (then barcode, sku — the
// back-office list ordering)
func (s *Store) ListProducts(ctx context.Context, limit, offset int) ([]database.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sku, barcode, name, price, old_price, red_price, country_id, category_id, updated_at
		FROM products
		ORDER BY updated_at DESC, barcode, sku
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []database.Product
	for rows.Next() {
		var p database.Product
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Barcode, &p.Name, &p.Price, &p.OldPrice,
			&p.RedPrice, &p.CountryID, &p.CategoryID, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a single product (manual back-office entry)
func (s *Store) CreateProduct(ctx context.Context, p *database.Product) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (sku, barcode, name, price, old_price, red_price, country_id, category_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id`,
		p.SKU, p.Barcode, p.Name, p.Price, p.OldPrice, p.RedPrice, p.CountryID, p.CategoryID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("barcode %s: %w", p.Barcode, ErrDuplicateKey)
		}
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

// BulkCreateProducts inserts a batch of products in one transaction.
// Any uniqueness violation rolls back the whole batch.
func (s *Store) BulkCreateProducts(ctx context.Context, products []database.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range products {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (sku, barcode, name, price, old_price, red_price, country_id, category_id, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
			p.SKU, p.Barcode, p.Name, p.Price, p.OldPrice, p.RedPrice, p.CountryID, p.CategoryID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("barcode %s: %w", p.Barcode, ErrDuplicateKey)
			}
			return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

// ApplyResult reports the outcome of a confirmed bulk price update
type ApplyResult struct {
	Applied int      `json:"applied"`
	Skipped []string `json:"skipped"` // names that no longer matched a product
}

// ApplyUpdates applies confirmed candidates to their products by name and
// clears the session's candidate set, all in one transaction. A candidate
// whose product vanished between matching and confirmation is skipped with
// a warning; the rest of the batch still lands.
func (s *Store) ApplyUpdates(ctx context.Context, sessionID string, candidates []database.UpdateCandidate) (*ApplyResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result := &ApplyResult{Skipped: []string{}}
	for _, c := range candidates {
		res, err := tx.Exec(ctx, `
			UPDATE products
			SET price = $1, old_price = $2, red_price = $3, updated_at = $4
			WHERE name = $5`,
			c.Price, c.OldPrice, c.RedPrice, c.UpdateAt, c.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to update product %q: %w", c.Name, err)
		}
		if res.RowsAffected() == 0 {
			log.Warn().Str("name", c.Name).Err(ErrStaleReference).Msg("Skipping confirmed update")
			result.Skipped = append(result.Skipped, c.Name)
			continue
		}
		result.Applied++
	}

	if _, err := tx.Exec(ctx, `DELETE FROM update_candidates WHERE session_id = $1`, sessionID); err != nil {
		return nil, fmt.Errorf("failed to clear update candidates: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update transaction: %w", err)
	}
	return result, nil
}
