package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/priceapp/backoffice/internal/database"
)

// EnsureCountry returns the ID for a country name, creating it if needed
func (s *Store) EnsureCountry(ctx context.Context, name string) (int64, error) {
	return s.ensureNamed(ctx, "countries", name)
}

// EnsureCategory returns the ID for a category name, creating it if needed
func (s *Store) EnsureCategory(ctx context.Context, name string) (int64, error) {
	return s.ensureNamed(ctx, "categories", name)
}

func (s *Store) ensureNamed(ctx context.Context, table, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, table), name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up %s: %w", table, err)
	}

	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, table), name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s entry %q: %w", table, name, err)
	}
	return id, nil
}

// ListCountries returns all countries ordered by name
func (s *Store) ListCountries(ctx context.Context) ([]database.Country, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	var countries []database.Country
	for rows.Next() {
		var c database.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

// ListCategories returns all categories ordered by name
func (s *Store) ListCategories(ctx context.Context) ([]database.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []database.Category
	for rows.Next() {
		var c database.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
