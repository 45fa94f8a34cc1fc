package priceupdate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
)

type fakeInventory struct {
	byName map[string]*database.Product
	bySKU  map[string]*database.Product

	updates map[string]*database.UpdateCandidate
	missing map[string]Line
	clears  int
}

func newFakeInventory(products ...*database.Product) *fakeInventory {
	inv := &fakeInventory{
		byName:  make(map[string]*database.Product),
		bySKU:   make(map[string]*database.Product),
		updates: make(map[string]*database.UpdateCandidate),
		missing: make(map[string]Line),
	}
	for _, p := range products {
		inv.byName[p.Name] = p
		if p.SKU != nil {
			inv.bySKU[*p.SKU] = p
		}
	}
	return inv
}

func (f *fakeInventory) ProductByName(_ context.Context, name string) (*database.Product, error) {
	if p, ok := f.byName[name]; ok {
		return p, nil
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeInventory) ProductBySKU(_ context.Context, sku string) (*database.Product, error) {
	if p, ok := f.bySKU[sku]; ok {
		return p, nil
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeInventory) ClearCandidates(_ context.Context, _ string) error {
	f.clears++
	f.updates = make(map[string]*database.UpdateCandidate)
	f.missing = make(map[string]Line)
	return nil
}

func (f *fakeInventory) UpsertUpdateCandidate(_ context.Context, c *database.UpdateCandidate) error {
	f.updates[c.Name] = c
	return nil
}

func (f *fakeInventory) UpsertMissingByName(_ context.Context, _, name string, price, oldPrice int) error {
	f.missing[name] = Line{Name: name, Price: price, OldPrice: oldPrice}
	return nil
}

func (f *fakeInventory) UpsertMissingBySKU(_ context.Context, _, sku string, price, oldPrice int) error {
	f.missing[sku] = Line{Name: sku, Price: price, OldPrice: oldPrice}
	return nil
}

func (f *fakeInventory) CountCandidates(_ context.Context, _ string) (int, int, error) {
	return len(f.updates), len(f.missing), nil
}

func strPtr(s string) *string { return &s }

func TestMatchTextSplitsFoundAndMissing(t *testing.T) {
	inv := newFakeInventory(
		&database.Product{Name: "Молоко", Price: 80, RedPrice: true},
	)
	m := NewMatcher(inv)

	result, err := m.MatchText(context.Background(), "s1", "Молоко - 100\nНеизвестный товар - 50\n")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Parsed)
	assert.Equal(t, 1, result.Updates)
	assert.Equal(t, 1, result.Missing)

	candidate := inv.updates["Молоко"]
	require.NotNil(t, candidate)
	assert.Equal(t, 100, candidate.Price)
	assert.Equal(t, 0, candidate.OldPrice)
	assert.True(t, candidate.RedPrice, "red flag comes from the inventory record")

	_, staged := inv.missing["Неизвестный товар"]
	assert.True(t, staged)
}

func TestMatchTextReplacesPreviousBatch(t *testing.T) {
	inv := newFakeInventory(&database.Product{Name: "Молоко"})
	m := NewMatcher(inv)

	_, err := m.MatchText(context.Background(), "s1", "Молоко - 100")
	require.NoError(t, err)

	result, err := m.MatchText(context.Background(), "s1", "Молоко - 90")
	require.NoError(t, err)

	assert.Equal(t, 2, inv.clears)
	assert.Equal(t, 1, result.Updates)
	assert.Equal(t, 90, inv.updates["Молоко"].Price, "re-ingesting the same record wins")
}

func TestMatchFileFirstRowWinsPerProduct(t *testing.T) {
	inv := newFakeInventory(
		&database.Product{Name: "Молоко", SKU: strPtr("M-1")},
	)
	m := NewMatcher(inv)

	content := []byte("sku;price;old_price\nM-1;100;120\nM-1;90;120\nX-9;50;60\n")
	result, err := m.MatchFile(context.Background(), "s1", "export.csv", content)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Parsed)
	assert.Equal(t, 1, result.Updates)
	assert.Equal(t, 1, result.Missing)
	assert.Equal(t, 100, inv.updates["Молоко"].Price, "first row for a product wins within one file")

	_, staged := inv.missing["X-9"]
	assert.True(t, staged, "unmatched sku is staged as missing")
}

func TestMatchFileOldPriceFromThirdColumn(t *testing.T) {
	inv := newFakeInventory(&database.Product{Name: "Сыр", SKU: strPtr("S-2")})
	m := NewMatcher(inv)

	_, err := m.MatchFile(context.Background(), "s1", "export.csv",
		[]byte("sku;price;old_price\nS-2;199;250\n"))
	require.NoError(t, err)

	candidate := inv.updates["Сыр"]
	require.NotNil(t, candidate)
	assert.Equal(t, 199, candidate.Price)
	assert.Equal(t, 250, candidate.OldPrice)
}
