package priceupdate

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Row is one record from the file protocol: an export keyed by SKU with
// the new price and the price it replaces.
type Row struct {
	SKU      string
	Price    int
	OldPrice int
}

// ParseFile parses an uploaded price export, choosing the format by file
// extension. Everything that is not a spreadsheet is treated as CSV.
func ParseFile(filename string, content []byte) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ParseXLSX(content)
	}
	return ParseCSV(content), nil
}

// ParseCSV parses the semicolon-delimited export format. The first line
// is a header and is dropped; rows that do not yield a SKU and two
// parseable prices are skipped.
func ParseCSV(content []byte) []Row {
	lines := splitLines(decodeToUTF8(content))
	if len(lines) == 0 {
		return nil
	}

	var rows []Row
	for _, line := range lines[1:] {
		fields := splitDelimited(line, ';', '"')
		if row, ok := rowFromFields(fields); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// ParseXLSX parses the first sheet of a spreadsheet export with the same
// column layout as the CSV format, header row included.
func ParseXLSX(content []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	var rows []Row
	for _, fields := range cells[1:] {
		if row, ok := rowFromFields(fields); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func rowFromFields(fields []string) (Row, bool) {
	if len(fields) < 3 {
		return Row{}, false
	}
	sku := strings.TrimSpace(fields[0])
	if sku == "" {
		return Row{}, false
	}
	price, okPrice := parsePrice(fields[1])
	oldPrice, okOld := parsePrice(fields[2])
	if !okPrice || !okOld {
		return Row{}, false
	}
	return Row{SKU: sku, Price: price, OldPrice: oldPrice}, true
}

// splitDelimited splits one line on the delimiter, honoring quoted
// fields with doubled-quote escapes.
func splitDelimited(line string, delimiter, quote rune) []string {
	fields := make([]string, 0, 4)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		r, width := utf8.DecodeRuneInString(line[i:])
		i += width

		if inQuotes {
			if r == quote {
				if next, nw := utf8.DecodeRuneInString(line[i:]); next == quote && nw > 0 {
					current.WriteRune(quote)
					i += nw
					continue
				}
				inQuotes = false
				continue
			}
			current.WriteRune(r)
			continue
		}

		switch r {
		case quote:
			inQuotes = true
		case delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	fields = append(fields, current.String())
	return fields
}
