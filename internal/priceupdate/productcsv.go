package priceupdate

import (
	"fmt"
	"strings"
)

// ProductRow is one record from a bulk product import file.
type ProductRow struct {
	SKU      string
	Barcode  string
	Name     string
	Price    int
	OldPrice int
	RedPrice bool
	Country  string
	Category string
}

// ParseProductCSV parses the bulk import format: semicolon-delimited with
// a header line, columns sku;barcode;name;price;old_price;red_price;country;category.
// Unlike the price protocols this format is operator-prepared, so a
// malformed row is an error rather than noise.
func ParseProductCSV(content []byte) ([]ProductRow, error) {
	lines := splitLines(decodeToUTF8(content))
	if len(lines) == 0 {
		return nil, nil
	}

	var rows []ProductRow
	for i, line := range lines[1:] {
		fields := splitDelimited(line, ';', '"')
		if len(fields) < 8 {
			return nil, fmt.Errorf("line %d: expected 8 columns, got %d", i+2, len(fields))
		}

		price, ok := parsePrice(fields[3])
		if !ok {
			return nil, fmt.Errorf("line %d: bad price %q", i+2, fields[3])
		}
		oldPrice, ok := parsePrice(fields[4])
		if !ok {
			return nil, fmt.Errorf("line %d: bad old price %q", i+2, fields[4])
		}

		row := ProductRow{
			SKU:      strings.TrimSpace(fields[0]),
			Barcode:  strings.TrimSpace(fields[1]),
			Name:     strings.TrimSpace(fields[2]),
			Price:    price,
			OldPrice: oldPrice,
			RedPrice: strings.EqualFold(strings.TrimSpace(fields[5]), "true"),
			Country:  strings.TrimSpace(fields[6]),
			Category: strings.TrimSpace(fields[7]),
		}
		if row.Barcode == "" || row.Name == "" {
			return nil, fmt.Errorf("line %d: barcode and name are required", i+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
