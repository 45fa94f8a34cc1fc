// Package handlers exposes the back-office workflows over HTTP.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/printqueue"
	"github.com/priceapp/backoffice/internal/priceupdate"
	"github.com/priceapp/backoffice/internal/session"
)

// Inventory is the slice of the store the HTTP layer reads and mutates
// directly. Workflow writes go through the builder and matcher instead.
type Inventory interface {
	ListSheetEntries(ctx context.Context, sessionID string) ([]database.SheetEntry, error)
	ListUpdateCandidates(ctx context.Context, sessionID string) ([]database.UpdateCandidate, error)
	ListMissingCandidates(ctx context.Context, sessionID string) ([]database.MissingCandidate, error)
	CountCandidates(ctx context.Context, sessionID string) (updates, missing int, err error)
	ApplyUpdates(ctx context.Context, sessionID string, candidates []database.UpdateCandidate) (*inventory.ApplyResult, error)
	ResolveMissing(ctx context.Context, sessionID string, products []database.Product) error
	ListProducts(ctx context.Context, limit, offset int) ([]database.Product, error)
	CreateProduct(ctx context.Context, p *database.Product) (int64, error)
	ListTags(ctx context.Context) ([]database.TagTemplate, error)
	ListCountries(ctx context.Context) ([]database.Country, error)
	ListCategories(ctx context.Context) ([]database.Category, error)
}

// Application dependencies (initialized by the server at startup)
var (
	store    Inventory
	queue    *printqueue.Builder
	matcher  *priceupdate.Matcher
	sessions *session.Manager
)

// Init wires the handler package to its dependencies
func Init(inv Inventory, builder *printqueue.Builder, m *priceupdate.Matcher, sm *session.Manager) {
	store = inv
	queue = builder
	matcher = m
	sessions = sm
}

// respondStoreError maps store errors onto HTTP statuses
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrTagCatalog):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tag catalog is misconfigured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
