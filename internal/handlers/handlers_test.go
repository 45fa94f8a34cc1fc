package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/middleware"
	"github.com/priceapp/backoffice/internal/printqueue"
	"github.com/priceapp/backoffice/internal/priceupdate"
	"github.com/priceapp/backoffice/internal/session"
)

// fakeStore backs the handler tests in memory. It covers the store
// surface the handlers, the queue builder and the matcher consume.
type fakeStore struct {
	labels   map[string]*inventory.ProductLabel // by barcode
	products map[string]*database.Product       // by name
	tags     []database.TagTemplate

	entries []database.SheetEntry
	updates map[string]*database.UpdateCandidate
	missing map[string]bool
	resets  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		labels: map[string]*inventory.ProductLabel{
			"4548736081680": {Name: "IER-M7", Price: 1000, Country: "Вьетнам", Category: "наушники"},
		},
		products: map[string]*database.Product{
			"IER-M7": {ID: 1, Name: "IER-M7", Barcode: "4548736081680", Price: 1000},
		},
		tags: []database.TagTemplate{
			{ID: 1, Name: "Большой", Width: 90, Height: 60, Size: database.TagSizeBig},
			{ID: 3, Name: "Малый", Width: 60, Height: 30, Size: database.TagSizeSmall},
		},
		updates: make(map[string]*database.UpdateCandidate),
		missing: make(map[string]bool),
	}
}

func (f *fakeStore) LabelByBarcode(_ context.Context, barcode string) (*inventory.ProductLabel, error) {
	if l, ok := f.labels[barcode]; ok {
		return l, nil
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeStore) LabelByNameFold(_ context.Context, name string) (*inventory.ProductLabel, error) {
	for _, l := range f.labels {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeStore) TagBySizeDiscount(_ context.Context, size string, isDiscount bool) (*database.TagTemplate, error) {
	for i := range f.tags {
		if f.tags[i].Size == size && f.tags[i].IsDiscount == isDiscount {
			return &f.tags[i], nil
		}
	}
	return nil, inventory.ErrTagCatalog
}

func (f *fakeStore) TagByID(_ context.Context, id int64) (*database.TagTemplate, error) {
	for i := range f.tags {
		if f.tags[i].ID == id {
			return &f.tags[i], nil
		}
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeStore) AddSheetEntry(_ context.Context, e *database.SheetEntry) error {
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeStore) ResetSession(_ context.Context, _ string) error {
	f.resets++
	f.entries = nil
	f.updates = make(map[string]*database.UpdateCandidate)
	f.missing = make(map[string]bool)
	return nil
}

func (f *fakeStore) ProductByName(_ context.Context, name string) (*database.Product, error) {
	if p, ok := f.products[name]; ok {
		return p, nil
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeStore) ProductBySKU(_ context.Context, sku string) (*database.Product, error) {
	for _, p := range f.products {
		if p.SKU != nil && *p.SKU == sku {
			return p, nil
		}
	}
	return nil, inventory.ErrNotFound
}

func (f *fakeStore) ClearCandidates(_ context.Context, _ string) error {
	f.updates = make(map[string]*database.UpdateCandidate)
	f.missing = make(map[string]bool)
	return nil
}

func (f *fakeStore) UpsertUpdateCandidate(_ context.Context, c *database.UpdateCandidate) error {
	f.updates[c.Name] = c
	return nil
}

func (f *fakeStore) UpsertMissingByName(_ context.Context, _, name string, _, _ int) error {
	f.missing[name] = true
	return nil
}

func (f *fakeStore) UpsertMissingBySKU(_ context.Context, _, sku string, _, _ int) error {
	f.missing[sku] = true
	return nil
}

func (f *fakeStore) CountCandidates(_ context.Context, _ string) (int, int, error) {
	return len(f.updates), len(f.missing), nil
}

func (f *fakeStore) ListSheetEntries(_ context.Context, _ string) ([]database.SheetEntry, error) {
	return f.entries, nil
}

func (f *fakeStore) ListUpdateCandidates(_ context.Context, _ string) ([]database.UpdateCandidate, error) {
	out := make([]database.UpdateCandidate, 0, len(f.updates))
	for _, c := range f.updates {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) ListMissingCandidates(_ context.Context, _ string) ([]database.MissingCandidate, error) {
	return nil, nil
}

func (f *fakeStore) ApplyUpdates(_ context.Context, _ string, candidates []database.UpdateCandidate) (*inventory.ApplyResult, error) {
	result := &inventory.ApplyResult{Skipped: []string{}}
	for _, c := range candidates {
		p, ok := f.products[c.Name]
		if !ok {
			result.Skipped = append(result.Skipped, c.Name)
			continue
		}
		p.Price = c.Price
		p.OldPrice = c.OldPrice
		p.RedPrice = c.RedPrice
		p.UpdatedAt = c.UpdateAt
		result.Applied++
	}
	f.updates = make(map[string]*database.UpdateCandidate)
	return result, nil
}

func (f *fakeStore) ResolveMissing(_ context.Context, _ string, products []database.Product) error {
	for i := range products {
		p := products[i]
		f.products[p.Name] = &p
	}
	f.missing = make(map[string]bool)
	return nil
}

func (f *fakeStore) ListProducts(_ context.Context, _, _ int) ([]database.Product, error) {
	out := make([]database.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p *database.Product) (int64, error) {
	for _, existing := range f.products {
		if existing.Barcode == p.Barcode {
			return 0, inventory.ErrDuplicateKey
		}
	}
	p.ID = int64(len(f.products) + 1)
	f.products[p.Name] = p
	return p.ID, nil
}

func (f *fakeStore) ListTags(_ context.Context) ([]database.TagTemplate, error) {
	return f.tags, nil
}

func (f *fakeStore) ListCountries(_ context.Context) ([]database.Country, error) {
	return []database.Country{{ID: 1, Name: "Вьетнам"}}, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]database.Category, error) {
	return []database.Category{{ID: 1, Name: "наушники"}}, nil
}

func setupRouter(f *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager()
	Init(f, printqueue.NewBuilder(f, sessions), priceupdate.NewMatcher(f), sessions)

	router := gin.New()
	router.Use(middleware.SessionMiddleware(sessions, "test_session", time.Hour))
	router.POST("/queue/scan", ScanTag)
	router.POST("/queue/manual", ManualTag)
	router.GET("/queue", GetQueue)
	router.POST("/queue/reset", ResetQueue)
	router.GET("/sheets", GetSheets)
	router.POST("/updates/text", UpdateText)
	router.POST("/updates/confirm", ConfirmUpdates)
	router.POST("/products", CreateProduct)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScanEndpointQueuesEntry(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	w := doJSON(t, router, "POST", "/queue/scan", printqueue.ScanRequest{
		Input: "4548736081680",
		Size:  database.TagSizeBig,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	entry := response["entry"].(map[string]interface{})
	assert.Equal(t, "IER-M7", entry["name"])
	require.Len(t, f.entries, 1)
}

func TestScanEndpointUnknownCode(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	w := doJSON(t, router, "POST", "/queue/scan", printqueue.ScanRequest{
		Input: "000",
		Size:  database.TagSizeBig,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.entries, "no entry is created for an unknown code")
}

func TestUpdateTextEndpointRouting(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	w := doJSON(t, router, "POST", "/updates/text", UpdateTextRequest{
		Text: "IER-M7 - 900\nНеизвестный товар - 50",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["updateCount"])
	assert.Equal(t, float64(1), response["missingCount"])
	assert.Equal(t, "confirm", response["next"], "matched updates route to confirmation first")
}

func TestConfirmUpdatesEndpoint(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	w := doJSON(t, router, "POST", "/updates/confirm", ConfirmUpdatesRequest{
		Items: []ConfirmUpdateItem{
			{Name: "IER-M7", Price: 900, OldPrice: 1000},
			{Name: "исчезнувший", Price: 10},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["applied"])
	assert.Equal(t, "queue", response["next"])
	assert.Equal(t, 900, f.products["IER-M7"].Price)

	skipped := response["skipped"].([]interface{})
	require.Len(t, skipped, 1, "vanished product is skipped, not fatal")
}

func TestSheetsEndpointPaginates(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	for i := 0; i < 3; i++ {
		w := doJSON(t, router, "POST", "/queue/scan", printqueue.ScanRequest{
			Input: "4548736081680",
			Size:  database.TagSizeBig,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// The fake does not join template dimensions, so patch them in the
	// way ListSheetEntries would.
	for i := range f.entries {
		f.entries[i].TagSize = database.TagSizeBig
		f.entries[i].TagWidth = 90
		f.entries[i].TagHeight = 60
	}

	w := doJSON(t, router, "GET", "/sheets", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["pageCount"])
}

func TestResetEndpoint(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	w := doJSON(t, router, "POST", "/queue/reset", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.resets)
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f)

	w := doJSON(t, router, "POST", "/products", CreateProductRequest{
		Barcode:    "4548736081680",
		Name:       "копия",
		CountryID:  1,
		CategoryID: 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
