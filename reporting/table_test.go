package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

func TestSummaryTable_Format(t *testing.T) {
	out := NewSummaryTable("Test Report", true).Format(smokeSuites())

	assert.Contains(t, out, "Test Report")
	assert.Contains(t, out, "Smoke")
	assert.Contains(t, out, "└─ LoginTests")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "pass rate 50%")
	assert.Contains(t, out, "✗ fail")
	assert.NotContains(t, out, "PASS RATE", "footer keeps its case")
}

func TestSummaryTable_HidesContexts(t *testing.T) {
	out := NewSummaryTable("Test Report", false).Format(smokeSuites())
	assert.NotContains(t, out, "LoginTests")
	assert.Contains(t, out, "Smoke")
}

func TestSummaryTable_ContextPrefixes(t *testing.T) {
	suite := types.SuiteResult{Name: "Regression"}
	suite.Context("Checkout").Add(types.TestOutcome{Name: "a", Status: types.TestStatusPass})
	suite.Context("Search").Add(types.TestOutcome{Name: "b", Status: types.TestStatusSkip})

	out := NewSummaryTable("", true).Format([]types.SuiteResult{suite})
	assert.Contains(t, out, "├─ Checkout")
	assert.Contains(t, out, "└─ Search")
	assert.Contains(t, out, "✓ pass")
	assert.Contains(t, out, "- skip")
}

func TestSummaryTable_Print(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryTable("Empty", true).Print(&buf, nil))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "pass rate 0%")
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "✗ fail", statusText(types.RunSummary{Passed: 3, Failed: 1}))
	assert.Equal(t, "✓ pass", statusText(types.RunSummary{Passed: 3, Skipped: 1}))
	assert.Equal(t, "- skip", statusText(types.RunSummary{Skipped: 1}))
	assert.Equal(t, "-", statusText(types.RunSummary{}))
}
