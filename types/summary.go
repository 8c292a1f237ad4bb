package types

// RunSummary holds pass/fail/skip totals for one report generation.
// Skipped outcomes are tracked but never enter the pass-rate denominator.
type RunSummary struct {
	Passed  int
	Failed  int
	Skipped int
}

// Total returns the number of outcomes counted towards the pass rate
func (s RunSummary) Total() int {
	return s.Passed + s.Failed
}

// PassRate returns the truncated integer percentage of passed over passed+failed.
// A run with nothing passed or failed has a pass rate of 0.
func (s RunSummary) PassRate() int {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return s.Passed * 100 / total
}

// Add returns the element-wise sum of two summaries
func (s RunSummary) Add(other RunSummary) RunSummary {
	return RunSummary{
		Passed:  s.Passed + other.Passed,
		Failed:  s.Failed + other.Failed,
		Skipped: s.Skipped + other.Skipped,
	}
}

// SummarizeSuites aggregates the counts of all suites
func SummarizeSuites(suites []SuiteResult) RunSummary {
	var sum RunSummary
	for _, s := range suites {
		sum = sum.Add(s.Summary())
	}
	return sum
}
