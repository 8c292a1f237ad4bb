package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// SummaryTable formats per-suite and per-context counts as an ASCII table
type SummaryTable struct {
	title        string
	showContexts bool
}

// NewSummaryTable creates a new summary table formatter
func NewSummaryTable(title string, showContexts bool) *SummaryTable {
	return &SummaryTable{
		title:        title,
		showContexts: showContexts,
	}
}

// Format renders the table for the given suites
func (s *SummaryTable) Format(suites []types.SuiteResult) string {
	t := table.NewWriter()
	t.SetTitle(s.title)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Type", "ID", "Tests", "Passed", "Failed", "Skipped", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	var total types.RunSummary
	for _, suite := range suites {
		suiteSummary := suite.Summary()
		total = total.Add(suiteSummary)
		t.AppendRow(summaryRow("Suite", suite.Name, suiteSummary))

		if !s.showContexts {
			continue
		}
		for i, testCtx := range suite.Contexts {
			prefix := "├─"
			if i == len(suite.Contexts)-1 {
				prefix = "└─"
			}
			t.AppendRow(summaryRow("", fmt.Sprintf("%s %s", prefix, testCtx.Name), testCtx.Summary()))
		}
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("pass rate %d%%", total.PassRate()),
		total.Total() + total.Skipped,
		total.Passed,
		total.Failed,
		total.Skipped,
		statusText(total),
	})
	return t.Render()
}

// Print writes the table followed by a newline
func (s *SummaryTable) Print(w io.Writer, suites []types.SuiteResult) error {
	_, err := fmt.Fprintln(w, s.Format(suites))
	return err
}

func summaryRow(kind, id string, summary types.RunSummary) table.Row {
	return table.Row{
		kind,
		id,
		summary.Total() + summary.Skipped,
		summary.Passed,
		summary.Failed,
		summary.Skipped,
		statusText(summary),
	}
}

func statusText(summary types.RunSummary) string {
	switch {
	case summary.Failed > 0:
		return "✗ fail"
	case summary.Passed > 0:
		return "✓ pass"
	case summary.Skipped > 0:
		return "- skip"
	default:
		return "-"
	}
}
