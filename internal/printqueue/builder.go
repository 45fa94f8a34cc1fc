// Package printqueue builds the per-session queue of price tags waiting
// to be laid out on print sheets.
package printqueue

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/session"
)

// DefaultDiscountReason is printed on discount tags when the operator
// does not give a reason.
const DefaultDiscountReason = "Акция !!!"

// Inventory is the slice of the product store the builder needs.
type Inventory interface {
	LabelByBarcode(ctx context.Context, barcode string) (*inventory.ProductLabel, error)
	LabelByNameFold(ctx context.Context, name string) (*inventory.ProductLabel, error)
	TagBySizeDiscount(ctx context.Context, size string, isDiscount bool) (*database.TagTemplate, error)
	TagByID(ctx context.Context, id int64) (*database.TagTemplate, error)
	AddSheetEntry(ctx context.Context, e *database.SheetEntry) error
	ResetSession(ctx context.Context, sessionID string) error
}

// ScanRequest is one pass of the barcode scanner (or a typed lookup).
type ScanRequest struct {
	Input      string `json:"input" binding:"required"`
	Size       string `json:"size" binding:"required"`
	IsDiscount bool   `json:"isDiscount"`
}

// ManualRequest queues a tag for a discounted item with operator-set
// pricing, bypassing the product's stored prices.
type ManualRequest struct {
	Name           string `json:"name" binding:"required"`
	TagID          int64  `json:"tagId" binding:"required"`
	Price          int    `json:"price"`
	OldPrice       int    `json:"oldPrice"`
	RedPrice       bool   `json:"redPrice"`
	DiscountReason string `json:"discountReason"`
}

// Builder queues sheet entries for an operator session.
type Builder struct {
	inv      Inventory
	sessions *session.Manager
}

func NewBuilder(inv Inventory, sessions *session.Manager) *Builder {
	return &Builder{inv: inv, sessions: sessions}
}

// Scan resolves a scanned or typed identifier and queues one tag for it.
// A numeric identifier is a barcode; anything else is a case-insensitive
// product name. No entry is created when the product is not found.
func (b *Builder) Scan(ctx context.Context, sessionID string, req ScanRequest) (*database.SheetEntry, error) {
	tag, err := b.inv.TagBySizeDiscount(ctx, req.Size, req.IsDiscount)
	if err != nil {
		return nil, err
	}

	// The chosen tag stays preselected on the scan form even when the
	// product lookup fails.
	b.rememberTag(sessionID, tag)

	var label *inventory.ProductLabel
	if isNumeric(req.Input) {
		label, err = b.inv.LabelByBarcode(ctx, req.Input)
	} else {
		label, err = b.inv.LabelByNameFold(ctx, req.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", req.Input, err)
	}

	entry := &database.SheetEntry{
		SessionID:    sessionID,
		DiscountType: DefaultDiscountReason,
		Name:         label.Name,
		Price:        label.Price,
		OldPrice:     label.OldPrice,
		RedPrice:     label.RedPrice,
		Country:      label.Country,
		Category:     label.Category,
		TagID:        &tag.ID,
	}
	if err := b.inv.AddSheetEntry(ctx, entry); err != nil {
		return nil, err
	}

	b.sessions.SetLastScan(sessionID, session.LastScan{
		TagSize:       tag.Size,
		TagIsDiscount: tag.IsDiscount,
		Product:       entry.Name,
	})
	return entry, nil
}

// AddManual queues a tag for a discounted item. The product must exist by
// name; prices and the red flag come from the operator, not the product.
// On small tags the discount reason is appended to the printed name, the
// only place the reason fits on that layout.
func (b *Builder) AddManual(ctx context.Context, sessionID string, req ManualRequest) (*database.SheetEntry, error) {
	tag, err := b.inv.TagByID(ctx, req.TagID)
	if err != nil {
		return nil, err
	}

	label, err := b.inv.LabelByNameFold(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", req.Name, err)
	}

	reason := req.DiscountReason
	if reason == "" {
		reason = DefaultDiscountReason
	}

	name := label.Name
	if tag.Size == database.TagSizeSmall {
		name = name + " " + reason
	}

	entry := &database.SheetEntry{
		SessionID:    sessionID,
		DiscountType: reason,
		Name:         name,
		Price:        req.Price,
		OldPrice:     req.OldPrice,
		RedPrice:     req.RedPrice,
		Country:      label.Country,
		Category:     label.Category,
		TagID:        &tag.ID,
	}
	if err := b.inv.AddSheetEntry(ctx, entry); err != nil {
		return nil, err
	}

	b.sessions.SetLastScan(sessionID, session.LastScan{
		TagSize:       tag.Size,
		TagIsDiscount: tag.IsDiscount,
		Product:       entry.Name,
	})
	return entry, nil
}

// Reset clears the session's staging sets and restores the default scan
// echo. A new print session always starts empty.
func (b *Builder) Reset(ctx context.Context, sessionID string) error {
	if err := b.inv.ResetSession(ctx, sessionID); err != nil {
		return err
	}
	b.sessions.ResetLastScan(sessionID)

	log.Info().Str("session_id", sessionID).Msg("print queue reset")
	return nil
}

// LastScan returns the session's scan echo for the scan form.
func (b *Builder) LastScan(sessionID string) session.LastScan {
	return b.sessions.LastScan(sessionID)
}

func (b *Builder) rememberTag(sessionID string, tag *database.TagTemplate) {
	scan := b.sessions.LastScan(sessionID)
	scan.TagSize = tag.Size
	scan.TagIsDiscount = tag.IsDiscount
	b.sessions.SetLastScan(sessionID, scan)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0
}
