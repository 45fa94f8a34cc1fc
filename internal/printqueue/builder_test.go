package printqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/session"
)

type fakeInventory struct {
	byBarcode map[string]*inventory.ProductLabel
	byName    map[string]*inventory.ProductLabel
	tags      []database.TagTemplate

	entries []database.SheetEntry
	resets  int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		byBarcode: map[string]*inventory.ProductLabel{
			"4548736081680": {Name: "IER-M7", Price: 1000, RedPrice: false, Country: "Вьетнам", Category: "наушники"},
		},
		byName: map[string]*inventory.ProductLabel{
			"ier-m7": {Name: "IER-M7", Price: 1000, RedPrice: false, Country: "Вьетнам", Category: "наушники"},
		},
		tags: []database.TagTemplate{
			{ID: 1, Name: "Большой", Width: 90, Height: 60, Size: database.TagSizeBig},
			{ID: 2, Name: "Большой уценка", Width: 90, Height: 60, Size: database.TagSizeBig, IsDiscount: true},
			{ID: 3, Name: "Малый", Width: 60, Height: 30, Size: database.TagSizeSmall},
			{ID: 4, Name: "Малый уценка", Width: 60, Height: 30, Size: database.TagSizeSmall, IsDiscount: true},
		},
	}
}

func (f *fakeInventory) LabelByBarcode(_ context.Context, barcode string) (*inventory.ProductLabel, error) {
	if l, ok := f.byBarcode[barcode]; ok {
		return l, nil
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeInventory) LabelByNameFold(_ context.Context, name string) (*inventory.ProductLabel, error) {
	for key, l := range f.byName {
		if key == name || l.Name == name {
			return l, nil
		}
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeInventory) TagBySizeDiscount(_ context.Context, size string, isDiscount bool) (*database.TagTemplate, error) {
	for i := range f.tags {
		if f.tags[i].Size == size && f.tags[i].IsDiscount == isDiscount {
			return &f.tags[i], nil
		}
	}
	return nil, inventory.ErrTagCatalog
}

func (f *fakeInventory) TagByID(_ context.Context, id int64) (*database.TagTemplate, error) {
	for i := range f.tags {
		if f.tags[i].ID == id {
			return &f.tags[i], nil
		}
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeInventory) AddSheetEntry(_ context.Context, e *database.SheetEntry) error {
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeInventory) ResetSession(_ context.Context, _ string) error {
	f.resets++
	return nil
}

func newBuilder(inv *fakeInventory) (*Builder, string) {
	sessions := session.NewManager()
	id, _ := sessions.Ensure("")
	return NewBuilder(inv, sessions), id
}

func TestScanByBarcode(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	entry, err := b.Scan(context.Background(), sid, ScanRequest{
		Input: "4548736081680",
		Size:  database.TagSizeBig,
	})
	require.NoError(t, err)

	assert.Equal(t, "IER-M7", entry.Name)
	assert.Equal(t, DefaultDiscountReason, entry.DiscountType)
	assert.Equal(t, "Вьетнам", entry.Country)
	assert.Equal(t, "наушники", entry.Category)
	require.NotNil(t, entry.TagID)
	assert.Equal(t, int64(1), *entry.TagID, "big non-discount template")
	require.Len(t, inv.entries, 1)

	scan := b.LastScan(sid)
	assert.Equal(t, "IER-M7", scan.Product)
	assert.Equal(t, database.TagSizeBig, scan.TagSize)
}

func TestScanByNameCaseInsensitive(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	entry, err := b.Scan(context.Background(), sid, ScanRequest{
		Input: "ier-m7",
		Size:  database.TagSizeBig,
	})
	require.NoError(t, err)
	assert.Equal(t, "IER-M7", entry.Name, "queued entry carries the canonical name")
}

func TestScanUnknownCodeCreatesNothing(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	_, err := b.Scan(context.Background(), sid, ScanRequest{
		Input: "000",
		Size:  database.TagSizeBig,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrNotFound))
	assert.Empty(t, inv.entries)

	// The chosen tag is still remembered for the next attempt.
	assert.Equal(t, database.TagSizeBig, b.LastScan(sid).TagSize)
}

func TestScanMissingTemplateIsFatal(t *testing.T) {
	inv := newFakeInventory()
	inv.tags = nil
	b, sid := newBuilder(inv)

	_, err := b.Scan(context.Background(), sid, ScanRequest{
		Input: "4548736081680",
		Size:  database.TagSizeBig,
	})
	assert.True(t, errors.Is(err, inventory.ErrTagCatalog))
	assert.Empty(t, inv.entries)
}

func TestAddManualSmallTagAppendsReason(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	entry, err := b.AddManual(context.Background(), sid, ManualRequest{
		Name:           "IER-M7",
		TagID:          4, // small discount
		Price:          700,
		OldPrice:       1000,
		RedPrice:       true,
		DiscountReason: "Уценка",
	})
	require.NoError(t, err)

	assert.Equal(t, "IER-M7 Уценка", entry.Name)
	assert.Equal(t, "Уценка", entry.DiscountType)
	assert.Equal(t, 700, entry.Price, "operator pricing overrides the product")
	assert.Equal(t, 1000, entry.OldPrice)
	assert.True(t, entry.RedPrice)
}

func TestAddManualBigTagKeepsName(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	entry, err := b.AddManual(context.Background(), sid, ManualRequest{
		Name:  "ier-m7",
		TagID: 2, // big discount
		Price: 700,
	})
	require.NoError(t, err)

	assert.Equal(t, "IER-M7", entry.Name)
	assert.Equal(t, DefaultDiscountReason, entry.DiscountType, "reason defaults when omitted")
}

func TestAddManualUnknownProduct(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	_, err := b.AddManual(context.Background(), sid, ManualRequest{Name: "нет такого", TagID: 1})
	assert.True(t, errors.Is(err, inventory.ErrNotFound))
	assert.Empty(t, inv.entries)
}

func TestResetClearsStagingAndEcho(t *testing.T) {
	inv := newFakeInventory()
	b, sid := newBuilder(inv)

	_, err := b.Scan(context.Background(), sid, ScanRequest{Input: "4548736081680", Size: database.TagSizeBig})
	require.NoError(t, err)

	require.NoError(t, b.Reset(context.Background(), sid))
	assert.Equal(t, 1, inv.resets)
	assert.Equal(t, session.DefaultLastScan(), b.LastScan(sid))
}
