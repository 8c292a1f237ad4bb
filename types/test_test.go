package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestContextResult_Add(t *testing.T) {
	var ctx TestContextResult
	ctx.Add(TestOutcome{Name: "a", Status: TestStatusPass})
	ctx.Add(TestOutcome{Name: "b", Status: TestStatusFail})
	ctx.Add(TestOutcome{Name: "c", Status: TestStatusSkip})
	ctx.Add(TestOutcome{Name: "d", Status: TestStatusError})

	require.Len(t, ctx.Passed, 1)
	require.Len(t, ctx.Failed, 2)
	require.Len(t, ctx.Skipped, 1)
	assert.Equal(t, 4, ctx.Len())

	names := make([]string, 0, 4)
	for _, o := range ctx.Outcomes() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, names, "outcomes are ordered failed, passed, skipped")

	assert.Equal(t, RunSummary{Passed: 1, Failed: 2, Skipped: 1}, ctx.Summary())
}

func TestSuiteResult_Context(t *testing.T) {
	suite := SuiteResult{Name: "Smoke"}
	suite.Context("LoginTests").Add(TestOutcome{Name: "testLogin", Status: TestStatusPass})
	suite.Context("CartTests").Add(TestOutcome{Name: "testAdd", Status: TestStatusFail})
	suite.Context("LoginTests").Add(TestOutcome{Name: "testLogout", Status: TestStatusFail})

	require.Len(t, suite.Contexts, 2)
	assert.Equal(t, "LoginTests", suite.Contexts[0].Name)
	assert.Equal(t, "CartTests", suite.Contexts[1].Name)
	assert.Equal(t, 2, suite.Contexts[0].Len())
	assert.Equal(t, RunSummary{Passed: 1, Failed: 2}, suite.Summary())
}

func TestTestOutcome_Duration(t *testing.T) {
	o := TestOutcome{Start: time.UnixMilli(0), End: time.UnixMilli(250)}
	assert.Equal(t, 250*time.Millisecond, o.Duration())
	assert.Equal(t, TestIdentity{Method: o.Name}, o.Identity())
}
