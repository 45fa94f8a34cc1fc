package priceupdate

import (
	"regexp"
	"strings"
)

// Records arrive as "name - price" or "name - old price - new price",
// pasted from chat messages with sloppy whitespace around the dashes.
// One or two spaces, one to three dashes, up to two trailing spaces.
var fieldSeparator = regexp.MustCompile(`\s{1,2}\-{1,3}\s{0,2}`)

// ParseText parses the pasted-text protocol. Lines that do not split
// into two or three fields, or whose price fields do not parse, are
// surrounding noise (greetings, dates) and are dropped.
func ParseText(text string) []Line {
	var lines []Line
	for _, raw := range splitLines(text) {
		fields := fieldSeparator.Split(raw, -1)
		// The separator swallows at most two spaces on either side; extra
		// padding stays attached to the fields, so strip every field before
		// the name reaches the exact-match lookup.
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		switch len(fields) {
		case 2:
			price, ok := parsePrice(fields[1])
			if !ok {
				continue
			}
			lines = append(lines, Line{Name: fields[0], Price: price})
		case 3:
			oldPrice, okOld := parsePrice(fields[1])
			price, okNew := parsePrice(fields[2])
			if !okOld || !okNew {
				continue
			}
			lines = append(lines, Line{Name: fields[0], Price: price, OldPrice: oldPrice})
		}
	}
	return lines
}
