package types

import (
	"path"
	"strings"
)

// LogDirName is the directory, relative to the report, that holds per-test logs
const LogDirName = "logs"

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// TestIdentity names one test method and its declaring class (or Go package)
type TestIdentity struct {
	Class  string
	Method string

	// Qualified places the log in a directory named after Class, for
	// methods whose name alone is shared by several tests of the run
	Qualified bool
}

// String returns the qualified Class.Method name
func (id TestIdentity) String() string {
	if id.Class == "" {
		return id.Method
	}
	return id.Class + "." + id.Method
}

// LogFileName returns the per-test log file path, relative to the log root,
// in slash-separated form
func (id TestIdentity) LogFileName() string {
	if id.Qualified && id.Class != "" {
		return path.Join(LogFileName(id.Class), LogFileName(id.Method))
	}
	return LogFileName(id.Method)
}

// LogLink returns the report-relative link to this identity's log file
func (id TestIdentity) LogLink() string {
	return path.Join(LogDirName, id.LogFileName())
}

// LogFileName converts a test name to the file name its log is written to.
// Both the per-test logger and the report links go through this function.
func LogFileName(testName string) string {
	name := unsafeFilenameChars.Replace(testName)
	name = strings.ReplaceAll(name, "...", "")
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}

// LogLink returns the report-relative link to a test's log file
func LogLink(testName string) string {
	return path.Join(LogDirName, LogFileName(testName))
}

// QualifyCollidingLogs marks every outcome whose bare log file name is shared
// with another outcome of the run, so its log is written below a directory
// named after its class. Outcomes without a class stay unqualified. Returns
// the number of outcomes marked.
func QualifyCollidingLogs(suites []SuiteResult) int {
	counts := make(map[string]int)
	forEachOutcome(suites, func(o *TestOutcome) {
		counts[LogFileName(o.Name)]++
	})

	qualified := 0
	forEachOutcome(suites, func(o *TestOutcome) {
		if counts[LogFileName(o.Name)] > 1 && o.Class != "" {
			o.QualifiedLog = true
			qualified++
		}
	})
	return qualified
}

func forEachOutcome(suites []SuiteResult, fn func(*TestOutcome)) {
	for s := range suites {
		for c := range suites[s].Contexts {
			testCtx := &suites[s].Contexts[c]
			for _, set := range [][]TestOutcome{testCtx.Failed, testCtx.Passed, testCtx.Skipped} {
				for i := range set {
					fn(&set[i])
				}
			}
		}
	}
}
