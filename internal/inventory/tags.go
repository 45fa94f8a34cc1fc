package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/priceapp/backoffice/internal/database"
)

// TagBySizeDiscount resolves a tag template from the fixed catalog.
// The catalog is finite and seeded once, so a miss is a deployment error,
// not a user error.
func (s *Store) TagBySizeDiscount(ctx context.Context, size string, isDiscount bool) (*database.TagTemplate, error) {
	var t database.TagTemplate
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, width, height, size, is_discount
		FROM tag_templates
		WHERE size = $1 AND is_discount = $2`, size, isDiscount).Scan(
		&t.ID, &t.Name, &t.Width, &t.Height, &t.Size, &t.IsDiscount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no template for size=%s discount=%v: %w", size, isDiscount, ErrTagCatalog)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag template: %w", err)
	}
	return &t, nil
}

// TagByID resolves a tag template by primary key (manual entry form)
func (s *Store) TagByID(ctx context.Context, id int64) (*database.TagTemplate, error) {
	var t database.TagTemplate
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, width, height, size, is_discount
		FROM tag_templates
		WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.Width, &t.Height, &t.Size, &t.IsDiscount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tag template %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag template: %w", err)
	}
	return &t, nil
}

// ListTags returns the full catalog, discount templates last
func (s *Store) ListTags(ctx context.Context) ([]database.TagTemplate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, width, height, size, is_discount
		FROM tag_templates
		ORDER BY is_discount, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tag templates: %w", err)
	}
	defer rows.Close()

	var tags []database.TagTemplate
	for rows.Next() {
		var t database.TagTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Width, &t.Height, &t.Size, &t.IsDiscount); err != nil {
			return nil, fmt.Errorf("failed to scan tag template: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SeedTags installs the fixed four-template catalog. Dimensions are in
// the same length units as the 180x290 printable sheet area.
func (s *Store) SeedTags(ctx context.Context) error {
	templates := []database.TagTemplate{
		{Name: "Большой", Width: 90, Height: 60, Size: database.TagSizeBig, IsDiscount: false},
		{Name: "Большой уценка", Width: 90, Height: 60, Size: database.TagSizeBig, IsDiscount: true},
		{Name: "Малый", Width: 60, Height: 30, Size: database.TagSizeSmall, IsDiscount: false},
		{Name: "Малый уценка", Width: 60, Height: 30, Size: database.TagSizeSmall, IsDiscount: true},
	}

	for _, t := range templates {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO tag_templates (name, width, height, size, is_discount)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (size, is_discount) DO NOTHING`,
			t.Name, t.Width, t.Height, t.Size, t.IsDiscount)
		if err != nil {
			return fmt.Errorf("failed to seed tag template %q: %w", t.Name, err)
		}
	}
	return nil
}
