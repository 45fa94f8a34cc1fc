// Package sheet packs queued price tags onto fixed-size printable pages.
package sheet

import (
	"github.com/priceapp/backoffice/internal/database"
)

// Printable page dimensions, in the same length units as the tag-template
// catalog (an A4 sheet with printer margins).
const (
	MaxHeight = 290
	MaxWidth  = 180
)

// Page is one printable sheet worth of tags, in layout order
type Page []database.SheetEntry

// Paginate packs queued entries into pages. All big tags are laid out
// before all small tags, each group in creation order; entries are never
// dropped or reordered beyond that grouping. An empty queue yields one
// empty page.
//
// The fill is greedy with no backtracking and reproduces the layout the
// print templates were built against, quirks included:
//   - a row only closes when the accumulated width hits MaxWidth exactly,
//     so mixed widths that overshoot the limit keep extending the row;
//   - each entry is placed before the page-overflow check runs, so the
//     entry that triggers a page break stays on the page it overflowed.
//
// Entries whose template was deleted carry no size class and are not
// printable; they are skipped here.
func Paginate(entries []database.SheetEntry) []Page {
	pages := []Page{{}}
	height := 0
	width := 0

	for _, size := range []string{database.TagSizeBig, database.TagSizeSmall} {
		for _, entry := range entries {
			if entry.TagSize != size {
				continue
			}

			pages[len(pages)-1] = append(pages[len(pages)-1], entry)
			width += entry.TagWidth
			if width == MaxWidth {
				height += entry.TagHeight
				width = 0
			}
			if height+entry.TagHeight > MaxHeight {
				pages = append(pages, Page{})
				height = 0
			}
		}
	}

	return pages
}
