package inventory

import (
	"context"
	"fmt"

	"github.com/priceapp/backoffice/internal/database"
)

// AddSheetEntry appends one queued price tag for the session
func (s *Store) AddSheetEntry(ctx context.Context, e *database.SheetEntry) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sheet_entries (session_id, discount_type, name, price, old_price, red_price, country, category, tag_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, printed_at`,
		e.SessionID, e.DiscountType, e.Name, e.Price, e.OldPrice, e.RedPrice,
		e.Country, e.Category, e.TagID,
	).Scan(&e.ID, &e.PrintedAt)
	if err != nil {
		return fmt.Errorf("failed to add sheet entry: %w", err)
	}
	return nil
}

// ListSheetEntries returns the session's print queue in creation order,
// with template dimensions joined in. Entries whose template was deleted
// keep their row but carry zero dimensions.
func (s *Store) ListSheetEntries(ctx context.Context, sessionID string) ([]database.SheetEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT e.id, e.session_id, e.printed_at, e.discount_type, e.name,
		       e.price, e.old_price, e.red_price, e.country, e.category, e.tag_id,
		       COALESCE(t.width, 0), COALESCE(t.height, 0), COALESCE(t.size, '')
		FROM sheet_entries e
		LEFT JOIN tag_templates t ON t.id = e.tag_id
		WHERE e.session_id = $1
		ORDER BY e.printed_at, e.id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheet entries: %w", err)
	}
	defer rows.Close()

	var entries []database.SheetEntry
	for rows.Next() {
		var e database.SheetEntry
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.PrintedAt, &e.DiscountType, &e.Name,
			&e.Price, &e.OldPrice, &e.RedPrice, &e.Country, &e.Category, &e.TagID,
			&e.TagWidth, &e.TagHeight, &e.TagSize,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sheet entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ResetSession clears all three staging sets for the session atomically.
// A new scan or update session always begins from empty staging state.
func (s *Store) ResetSession(ctx context.Context, sessionID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin session reset: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"sheet_entries", "update_candidates", "missing_candidates"} {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, table), sessionID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit session reset: %w", err)
	}
	return nil
}

// ClearCandidates clears the update and missing candidate sets for the
// session (start of a fresh update batch; the print queue is untouched)
func (s *Store) ClearCandidates(ctx context.Context, sessionID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin candidate reset: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"update_candidates", "missing_candidates"} {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, table), sessionID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit candidate reset: %w", err)
	}
	return nil
}

// UpsertUpdateCandidate creates or replaces a candidate keyed by
// (session, name); re-ingesting the same record wins over the old values
func (s *Store) UpsertUpdateCandidate(ctx context.Context, c *database.UpdateCandidate) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO update_candidates (session_id, name, price, old_price, red_price, update_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (session_id, name) DO UPDATE SET
			price = EXCLUDED.price,
			old_price = EXCLUDED.old_price,
			red_price = EXCLUDED.red_price,
			update_at = NOW()`,
		c.SessionID, c.Name, c.Price, c.OldPrice, c.RedPrice)
	if err != nil {
		return fmt.Errorf("failed to upsert update candidate %q: %w", c.Name, err)
	}
	return nil
}

// UpsertMissingByName creates or replaces a missing candidate keyed by
// the external record's name (text protocol)
func (s *Store) UpsertMissingByName(ctx context.Context, sessionID, name string, price, oldPrice int) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE missing_candidates
		SET price = $1, old_price = $2, updated_at = NOW()
		WHERE session_id = $3 AND name = $4`,
		price, oldPrice, sessionID, name)
	if err != nil {
		return fmt.Errorf("failed to update missing candidate %q: %w", name, err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO missing_candidates (session_id, name, price, old_price)
		VALUES ($1, $2, $3, $4)`,
		sessionID, name, price, oldPrice)
	if err != nil {
		return fmt.Errorf("failed to insert missing candidate %q: %w", name, err)
	}
	return nil
}

// UpsertMissingBySKU creates or replaces a missing candidate keyed by the
// external record's SKU (file protocol)
func (s *Store) UpsertMissingBySKU(ctx context.Context, sessionID, sku string, price, oldPrice int) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE missing_candidates
		SET price = $1, old_price = $2, updated_at = NOW()
		WHERE session_id = $3 AND sku = $4`,
		price, oldPrice, sessionID, sku)
	if err != nil {
		return fmt.Errorf("failed to update missing candidate %q: %w", sku, err)
	}
	if res.RowsAffected() > 0 {
		return nil
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO missing_candidates (session_id, sku, price, old_price)
		VALUES ($1, $2, $3, $4)`,
		sessionID, sku, price, oldPrice)
	if err != nil {
		return fmt.Errorf("failed to insert missing candidate %q: %w", sku, err)
	}
	return nil
}

// ListUpdateCandidates returns the session's matched update set in
// ingestion order
func (s *Store) ListUpdateCandidates(ctx context.Context, sessionID string) ([]database.UpdateCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, name, price, old_price, red_price, update_at
		FROM update_candidates
		WHERE session_id = $1
		ORDER BY update_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list update candidates: %w", err)
	}
	defer rows.Close()

	var candidates []database.UpdateCandidate
	for rows.Next() {
		var c database.UpdateCandidate
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Name, &c.Price, &c.OldPrice, &c.RedPrice, &c.UpdateAt); err != nil {
			return nil, fmt.Errorf("failed to scan update candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// ListMissingCandidates returns the session's unmatched set
func (s *Store) ListMissingCandidates(ctx context.Context, sessionID string) ([]database.MissingCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, sku, name, old_price, price, red_price, updated_at
		FROM missing_candidates
		WHERE session_id = $1
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missing candidates: %w", err)
	}
	defer rows.Close()

	var candidates []database.MissingCandidate
	for rows.Next() {
		var c database.MissingCandidate
		if err := rows.Scan(
			&c.ID, &c.SessionID, &c.SKU, &c.Name,
			&c.OldPrice, &c.Price, &c.RedPrice, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan missing candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// CountCandidates returns how many update and missing candidates the
// session currently holds (used for routing after ingestion)
func (s *Store) CountCandidates(ctx context.Context, sessionID string) (updates, missing int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM update_candidates WHERE session_id = $1),
			(SELECT COUNT(*) FROM missing_candidates WHERE session_id = $1)`,
		sessionID).Scan(&updates, &missing)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return updates, missing, nil
}

// ResolveMissing bulk-inserts completed missing candidates as products and
// deletes the session's missing set, all in one transaction. A duplicate
// barcode rejects the whole batch so the operator can correct and resubmit.
func (s *Store) ResolveMissing(ctx context.Context, sessionID string, products []database.Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin missing resolution: %w", err)
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

	if _, err := tx.Exec(ctx, `DELETE FROM missing_candidates WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to clear missing candidates: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit missing resolution: %w", err)
	}
	return nil
}
