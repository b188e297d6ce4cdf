package validation

import (
	"fmt"

	"github.com/jonathan/workready/internal/types"
)

// CheckPageCount reports a page_overflow violation when pages exceeds maxPages
func CheckPageCount(pages, maxPages int) *types.Violation {
	if maxPages <= 0 || pages <= maxPages {
		return nil
	}
	return &types.Violation{
		Type:     "page_overflow",
		Severity: types.SeverityWarning,
		Details:  fmt.Sprintf("document has %d pages, maximum is %d", pages, maxPages),
		Pages:    &pages,
	}
}
