package inventory

import "errors"

var (
	// ErrNotFound is returned when no inventory record matches a lookup.
	ErrNotFound = errors.New("no matching inventory record")
	// ErrDuplicateKey is returned when a bulk insert violates barcode uniqueness; the whole batch is rolled back.
	ErrDuplicateKey = errors.New("duplicate barcode in batch")
	// ErrStaleReference is returned when a confirmed update names a product that no longer exists.
	ErrStaleReference = errors.New("update references a deleted product")
	// ErrTagCatalog is returned when the fixed tag-template catalog has no template for a (size, discount) pair.
	// The catalog is seeded at deploy time, so this means broken deployment data.
	ErrTagCatalog = errors.New("tag template catalog is incomplete")
)
