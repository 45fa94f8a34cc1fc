// Package priceupdate ingests external price lists, matches them against
// the product inventory and stages the result for operator review.
package priceupdate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Line is one parsed record from an incoming price list, either protocol.
type Line struct {
	Name     string
	Price    int
	OldPrice int
}

// decodeToUTF8 returns the payload as UTF-8 text. Supplier exports are
// either UTF-8 or Windows-1251; anything that fails UTF-8 validation is
// treated as the latter.
func decodeToUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// splitLines splits text into lines, tolerating CRLF and bare LF endings
// and dropping blank lines.
func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(normalized, "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parsePrice parses a whole-currency-unit price field.
func parsePrice(field string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
