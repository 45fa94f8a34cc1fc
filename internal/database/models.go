package database

import (
	"time"
)

// Tag size classes. The printable catalog is fixed: one template per
// (size, is_discount) pair.
const (
	TagSizeBig   = "big"
	TagSizeSmall = "small"
)

// Country is a reference entity for where a product is made
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"` // "Вьетнам"
}

// Category is a reference entity for product grouping
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"` // "наушники"
}

// Product is an inventory record. Barcode is unique across all products.
// Prices are whole currency units (no minor units on shelf labels).
type Product struct {
	ID         int64     `json:"id"`
	SKU        *string   `json:"sku"`      // internal stock code, e.g. "IERM7.WW2"
	Barcode    string    `json:"barcode"`  // EAN-13, e.g. "4548736081680"
	Name       string    `json:"name"`     // "IER-M7"
	Price      int       `json:"price"`
	OldPrice   int       `json:"oldPrice"`
	RedPrice   bool      `json:"redPrice"` // promotional/clearance styling
	CountryID  int64     `json:"countryId"`
	CategoryID int64     `json:"categoryId"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TagTemplate describes one printable price-tag layout from the fixed catalog
type TagTemplate struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       string `json:"size"`       // 'big' | 'small'
	IsDiscount bool   `json:"isDiscount"` // double tag showing the old price
}

// SheetEntry is one queued price tag waiting to be packed onto a print
// sheet. Country and category are snapshotted as plain text so the printed
// label survives later reference renames. Rows are transient and scoped to
// an operator session.
type SheetEntry struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"sessionId"`
	PrintedAt    time.Time `json:"printedAt"`
	DiscountType string    `json:"discountType"` // reason text, default "Акция !!!"
	Name         string    `json:"name"`
	Price        int       `json:"price"`
	OldPrice     int       `json:"oldPrice"`
	RedPrice     bool      `json:"redPrice"`
	Country      string    `json:"country"`  // text snapshot
	Category     string    `json:"category"` // text snapshot
	TagID        *int64    `json:"tagId"`    // null if the template was deleted
	TagWidth     int       `json:"tagWidth"`
	TagHeight    int       `json:"tagHeight"`
	TagSize      string    `json:"tagSize"`
}

// UpdateCandidate is a matched external price record awaiting operator
// confirmation. Unique per (session, name); re-ingesting the same name
// replaces the previous values.
type UpdateCandidate struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	OldPrice  int       `json:"oldPrice"`
	RedPrice  bool      `json:"redPrice"`
	UpdateAt  time.Time `json:"updateAt"`
}

// MissingCandidate is an external price record that matched nothing in
// inventory. It holds only what the protocol carried; the operator submits
// completed rows which become new products directly.
type MissingCandidate struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	SKU       *string   `json:"sku"`
	Name      *string   `json:"name"`
	OldPrice  int       `json:"oldPrice"`
	Price     int       `json:"price"`
	RedPrice  bool      `json:"redPrice"`
	UpdatedAt time.Time `json:"updatedAt"`
}
