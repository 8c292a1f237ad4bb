// Package types contains the result model shared by the op-testreport packages
package types

import (
	"time"
)

// TestStatus represents the possible states of a test execution
type TestStatus string

const (
	TestStatusPass  TestStatus = "pass"
	TestStatusFail  TestStatus = "fail"
	TestStatusSkip  TestStatus = "skip"
	TestStatusError TestStatus = "error"
)

// TestOutcome captures the recorded result of one executed test
type TestOutcome struct {
	Name    string // Test method name, also the base of its log file name
	Class   string // Declaring class or package, may be empty
	Status  TestStatus
	Start   time.Time
	End     time.Time
	Message string   // Failure or skip message
	Output  []string // Captured log lines, replayed into the per-test log file

	// QualifiedLog is set by QualifyCollidingLogs when Name alone does not
	// identify the log file
	QualifiedLog bool
}

// Duration returns the elapsed time between start and end
func (o TestOutcome) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

// Identity returns the identity used to name the outcome's log file
func (o TestOutcome) Identity() TestIdentity {
	return TestIdentity{Class: o.Class, Method: o.Name, Qualified: o.QualifiedLog}
}

// TestContextResult groups the outcomes of one named test context (a test class,
// a Go package) into three disjoint sets.
type TestContextResult struct {
	Name    string
	Failed  []TestOutcome
	Passed  []TestOutcome
	Skipped []TestOutcome
}

// Add files the outcome into exactly one of the three sets based on its status.
// Errored outcomes are counted as failures.
func (c *TestContextResult) Add(o TestOutcome) {
	switch o.Status {
	case TestStatusPass:
		c.Passed = append(c.Passed, o)
	case TestStatusSkip:
		c.Skipped = append(c.Skipped, o)
	default:
		c.Failed = append(c.Failed, o)
	}
}

// Len returns the number of outcomes across all three sets
func (c TestContextResult) Len() int {
	return len(c.Failed) + len(c.Passed) + len(c.Skipped)
}

// Outcomes returns all outcomes in failed, passed, skipped order
func (c TestContextResult) Outcomes() []TestOutcome {
	all := make([]TestOutcome, 0, c.Len())
	all = append(all, c.Failed...)
	all = append(all, c.Passed...)
	all = append(all, c.Skipped...)
	return all
}

// Summary counts the context's outcomes by set
func (c TestContextResult) Summary() RunSummary {
	return RunSummary{
		Passed:  len(c.Passed),
		Failed:  len(c.Failed),
		Skipped: len(c.Skipped),
	}
}

// SuiteResult is a named grouping of test contexts executed together
type SuiteResult struct {
	Name     string
	Contexts []TestContextResult
}

// Context returns the named context, creating it at the end of the list when missing
func (s *SuiteResult) Context(name string) *TestContextResult {
	for i := range s.Contexts {
		if s.Contexts[i].Name == name {
			return &s.Contexts[i]
		}
	}
	s.Contexts = append(s.Contexts, TestContextResult{Name: name})
	return &s.Contexts[len(s.Contexts)-1]
}

// Summary aggregates the counts of every context in the suite
func (s SuiteResult) Summary() RunSummary {
	var sum RunSummary
	for _, c := range s.Contexts {
		sum = sum.Add(c.Summary())
	}
	return sum
}
