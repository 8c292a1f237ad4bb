package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// Actions emitted by test2json
const (
	ActionStart  = "start"
	ActionRun    = "run"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"
	ActionOutput = "output"
)

const maxEventSize = 4 * 1024 * 1024

// framingPrefixes are test2json output lines that describe test flow rather
// than what the test reported
var framingPrefixes = []string{
	"=== RUN", "=== PAUSE", "=== CONT", "=== NAME",
	"--- PASS:", "--- FAIL:", "--- SKIP:",
	"FAIL\t", "ok  \t", "?   \t",
}

// TestEvent is a single line of `go test -json` output
type TestEvent struct {
	Time    time.Time
	Action  string
	Package string
	Test    string
	Output  string
	Elapsed float64
}

type goTest struct {
	name     string
	start    time.Time
	end      time.Time
	lastSeen time.Time
	status   types.TestStatus
	output   []string
}

type goPackage struct {
	name   string
	tests  []*goTest
	byName map[string]*goTest
	output []string
	failed bool
	end    time.Time
}

func (p *goPackage) test(name string) *goTest {
	if t, ok := p.byName[name]; ok {
		return t
	}
	t := &goTest{name: name}
	p.byName[name] = t
	p.tests = append(p.tests, t)
	return t
}

// ParseGoTest reads a `go test -json` stream into a single suite. Every
// package becomes a test context and every top-level test an outcome; subtest
// output is attributed to the test that owns it.
func ParseGoTest(r io.Reader, suite string) ([]types.SuiteResult, error) {
	var packages []*goPackage
	byName := make(map[string]*goPackage)
	events := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		event, err := parseTestEvent(scanner.Bytes())
		if err != nil || event.Package == "" {
			continue
		}
		events++

		pkg, ok := byName[event.Package]
		if !ok {
			pkg = &goPackage{name: event.Package, byName: make(map[string]*goTest)}
			byName[event.Package] = pkg
			packages = append(packages, pkg)
		}

		if event.Test == "" {
			processPackageEvent(pkg, event)
			continue
		}
		root, _, isSubTest := strings.Cut(event.Test, "/")
		processTestEvent(pkg.test(root), event, isSubTest)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read go test output: %w", err)
	}
	if events == 0 {
		return nil, ErrNoEvents
	}

	result := types.SuiteResult{Name: suite}
	for _, pkg := range packages {
		addPackageOutcomes(&result, pkg)
	}
	return []types.SuiteResult{result}, nil
}

func parseTestEvent(line []byte) (TestEvent, error) {
	var event TestEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return event, err
	}
	return event, nil
}

func processPackageEvent(pkg *goPackage, event TestEvent) {
	switch event.Action {
	case ActionPass, ActionSkip:
		pkg.end = event.Time
	case ActionFail:
		pkg.end = event.Time
		pkg.failed = true
	case ActionOutput:
		pkg.output = append(pkg.output, strings.TrimRight(event.Output, "\n"))
	}
}

func processTestEvent(t *goTest, event TestEvent, isSubTest bool) {
	t.lastSeen = event.Time
	if event.Action == ActionOutput {
		t.output = append(t.output, strings.TrimRight(event.Output, "\n"))
		return
	}
	// Subtest results roll up into their parent's terminal event
	if isSubTest {
		return
	}

	switch event.Action {
	case ActionRun, ActionStart:
		t.start = event.Time
	case ActionPass:
		t.finish(types.TestStatusPass, event)
	case ActionFail:
		t.finish(types.TestStatusFail, event)
	case ActionSkip:
		t.finish(types.TestStatusSkip, event)
	}
}

func (t *goTest) finish(status types.TestStatus, event TestEvent) {
	t.status = status
	t.end = event.Time
	if t.start.IsZero() && event.Elapsed > 0 {
		t.start = t.end.Add(-time.Duration(event.Elapsed * float64(time.Second)))
	}
}

func addPackageOutcomes(suite *types.SuiteResult, pkg *goPackage) {
	anyFailed := false
	for _, t := range pkg.tests {
		outcome := types.TestOutcome{
			Name:   t.name,
			Class:  pkg.name,
			Status: t.status,
			Start:  t.start,
			End:    t.end,
			Output: t.output,
		}

		switch t.status {
		case types.TestStatusFail:
			outcome.Message = messageFrom(t.output, "test failed")
		case types.TestStatusSkip:
			outcome.Message = messageFrom(t.output, "test skipped")
		case "":
			// The binary died before the test reported a result
			outcome.Status = types.TestStatusFail
			outcome.End = t.lastSeen
			if !pkg.end.IsZero() {
				outcome.End = pkg.end
			}
			outcome.Message = messageFrom(t.output, "test did not complete")
		}
		if outcome.Status == types.TestStatusFail {
			anyFailed = true
		}
		suite.Context(pkg.name).Add(outcome)
	}

	if pkg.failed && !anyFailed {
		suite.Context(pkg.name).Add(types.TestOutcome{
			Name:    path.Base(pkg.name) + " (package)",
			Class:   pkg.name,
			Status:  types.TestStatusFail,
			Start:   pkg.end,
			End:     pkg.end,
			Message: messageFrom(pkg.output, "package failed"),
			Output:  pkg.output,
		})
	}
}

// messageFrom keeps the lines a test reported itself, dropping test2json
// framing
func messageFrom(output []string, fallback string) string {
	var msg []string
	for _, line := range output {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isFramingLine(trimmed) {
			continue
		}
		msg = append(msg, trimmed)
	}
	if len(msg) == 0 {
		return fallback
	}
	return strings.Join(msg, "\n")
}

func isFramingLine(line string) bool {
	if line == "PASS" || line == "FAIL" {
		return true
	}
	for _, prefix := range framingPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
