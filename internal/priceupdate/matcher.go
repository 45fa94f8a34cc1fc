package priceupdate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
)

// Inventory is the slice of the product store the matcher needs.
type Inventory interface {
	ProductByName(ctx context.Context, name string) (*database.Product, error)
	ProductBySKU(ctx context.Context, sku string) (*database.Product, error)
	ClearCandidates(ctx context.Context, sessionID string) error
	UpsertUpdateCandidate(ctx context.Context, c *database.UpdateCandidate) error
	UpsertMissingByName(ctx context.Context, sessionID, name string, price, oldPrice int) error
	UpsertMissingBySKU(ctx context.Context, sessionID, sku string, price, oldPrice int) error
	CountCandidates(ctx context.Context, sessionID string) (updates, missing int, err error)
}

// Result summarizes one ingestion: how many records parsed and how the
// session's staging sets look afterwards.
type Result struct {
	Parsed  int `json:"parsed"`
	Updates int `json:"updates"`
	Missing int `json:"missing"`
}

// Matcher splits incoming price records into update candidates (the
// product exists) and missing candidates (it does not).
type Matcher struct {
	inv Inventory
}

func NewMatcher(inv Inventory) *Matcher {
	return &Matcher{inv: inv}
}

// MatchText ingests a pasted-text price list. Records are keyed by exact
// product name. Each ingestion replaces the session's previous batch.
func (m *Matcher) MatchText(ctx context.Context, sessionID, text string) (*Result, error) {
	lines := ParseText(text)

	if err := m.inv.ClearCandidates(ctx, sessionID); err != nil {
		return nil, err
	}

	for _, line := range lines {
		product, err := m.inv.ProductByName(ctx, line.Name)
		if errors.Is(err, inventory.ErrNotFound) {
			if err := m.inv.UpsertMissingByName(ctx, sessionID, line.Name, line.Price, line.OldPrice); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to match %q: %w", line.Name, err)
		}

		candidate := &database.UpdateCandidate{
			SessionID: sessionID,
			Name:      product.Name,
			Price:     line.Price,
			OldPrice:  line.OldPrice,
			RedPrice:  product.RedPrice,
		}
		if err := m.inv.UpsertUpdateCandidate(ctx, candidate); err != nil {
			return nil, err
		}
	}

	return m.finish(ctx, sessionID, len(lines))
}

// MatchFile ingests an uploaded price export keyed by SKU. When several
// rows resolve to the same product, the first one wins and the rest are
// dropped as export noise.
func (m *Matcher) MatchFile(ctx context.Context, sessionID, filename string, content []byte) (*Result, error) {
	rows, err := ParseFile(filename, content)
	if err != nil {
		return nil, err
	}

	if err := m.inv.ClearCandidates(ctx, sessionID); err != nil {
		return nil, err
	}

	staged := make(map[string]bool, len(rows))
	for _, row := range rows {
		product, err := m.inv.ProductBySKU(ctx, row.SKU)
		if errors.Is(err, inventory.ErrNotFound) {
			if err := m.inv.UpsertMissingBySKU(ctx, sessionID, row.SKU, row.Price, row.OldPrice); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to match sku %q: %w", row.SKU, err)
		}

		if staged[product.Name] {
			log.Debug().Str("sku", row.SKU).Str("name", product.Name).
				Msg("duplicate product in price file, keeping first row")
			continue
		}
		staged[product.Name] = true

		candidate := &database.UpdateCandidate{
			SessionID: sessionID,
			Name:      product.Name,
			Price:     row.Price,
			OldPrice:  row.OldPrice,
			RedPrice:  product.RedPrice,
		}
		if err := m.inv.UpsertUpdateCandidate(ctx, candidate); err != nil {
			return nil, err
		}
	}

	return m.finish(ctx, sessionID, len(rows))
}

func (m *Matcher) finish(ctx context.Context, sessionID string, parsed int) (*Result, error) {
	updates, missing, err := m.inv.CountCandidates(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("session_id", sessionID).
		Int("parsed", parsed).Int("updates", updates).Int("missing", missing).
		Msg("price list ingested")

	return &Result{Parsed: parsed, Updates: updates, Missing: missing}, nil
}
