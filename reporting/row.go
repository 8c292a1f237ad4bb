package reporting

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

const (
	// rowTemplate renders one outcome: class, suite, context, test, status, duration, log link, message
	rowTemplate = `<tr class="%s"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td><a href="%s">Log</a></td><td>%s</td></tr>`

	notApplicable = "N/A"
)

// Row status labels and the CSS classes they map to
const (
	StatusLabelFailed  = "FAILED"
	StatusLabelPassed  = "PASSED"
	StatusLabelSkipped = "SKIPPED"

	ClassDanger  = "danger"
	ClassSuccess = "success"
	ClassWarning = "warning"
)

// ReportRow is one HTML table row of the report
type ReportRow struct {
	Class    string
	Suite    string
	Context  string
	Test     string
	Status   string
	Duration string
	LogLink  string
	Message  string
}

// ToRow maps an outcome to its report row. Outcomes with a status other than
// pass, fail or skip have no row and return false.
func ToRow(suite, context string, outcome types.TestOutcome) (ReportRow, bool) {
	row := ReportRow{
		Suite:   suite,
		Context: context,
		Test:    outcome.Name,
		LogLink: outcome.Identity().LogLink(),
	}

	switch outcome.Status {
	case types.TestStatusFail:
		row.Class = ClassDanger
		row.Status = StatusLabelFailed
		row.Duration = notApplicable
		row.Message = outcome.Message
	case types.TestStatusPass:
		row.Class = ClassSuccess
		row.Status = StatusLabelPassed
		row.Duration = strconv.FormatInt(max(outcome.Duration().Milliseconds(), 0), 10)
	case types.TestStatusSkip:
		row.Class = ClassWarning
		row.Status = StatusLabelSkipped
		row.Duration = notApplicable
		row.Message = outcome.Message
	default:
		return ReportRow{}, false
	}
	return row, true
}

// FormatRow renders the row as a <tr> element with every field HTML-escaped
func FormatRow(row ReportRow) string {
	esc := template.HTMLEscapeString
	return fmt.Sprintf(rowTemplate,
		esc(row.Class),
		esc(row.Suite),
		esc(row.Context),
		esc(row.Test),
		esc(row.Status),
		esc(row.Duration),
		esc(row.LogLink),
		esc(row.Message),
	)
}

// ResultRow renders an outcome directly, returning an empty string for
// outcomes that have no row.
func ResultRow(suite, context string, outcome types.TestOutcome) string {
	row, ok := ToRow(suite, context, outcome)
	if !ok {
		return ""
	}
	return FormatRow(row)
}
