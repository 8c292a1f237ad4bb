package reporting

import (
	"strconv"
	"strings"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// Template placeholders replaced with run statistics
const (
	PlaceholderPassRate = "PERCENTAGE"
	PlaceholderPassed   = "%PASSED%"
	PlaceholderTotal    = "%TOTAL%"

	// RowsMarker is the tag the rendered rows are inserted in front of.
	// Only its first occurrence is used.
	RowsMarker = "</tbody>"
)

// Substitute fills the template: every statistics placeholder is replaced,
// then body is inserted immediately before the first RowsMarker. Later
// markers are left untouched. The second return value reports whether the
// marker was found.
func Substitute(tmpl string, summary types.RunSummary, body string) (string, bool) {
	out := strings.NewReplacer(
		PlaceholderPassRate, strconv.Itoa(summary.PassRate()),
		PlaceholderPassed, strconv.Itoa(summary.Passed),
		PlaceholderTotal, strconv.Itoa(summary.Total()),
	).Replace(tmpl)
	return InsertBeforeFirst(out, RowsMarker, body)
}

// InsertBeforeFirst inserts text in front of the first occurrence of marker
func InsertBeforeFirst(s, marker, text string) (string, bool) {
	idx := strings.Index(s, marker)
	if idx < 0 {
		return s, false
	}
	return s[:idx] + text + s[idx:], true
}
