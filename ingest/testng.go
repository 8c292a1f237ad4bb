package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// Layouts TestNG has used for started-at across releases
var testNGTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05 MST",
	"2006-01-02T15:04:05Z",
}

type testNGResults struct {
	XMLName xml.Name      `xml:"testng-results"`
	Suites  []testNGSuite `xml:"suite"`
}

type testNGSuite struct {
	Name  string       `xml:"name,attr"`
	Tests []testNGTest `xml:"test"`
}

type testNGTest struct {
	Name    string        `xml:"name,attr"`
	Classes []testNGClass `xml:"class"`
}

type testNGClass struct {
	Name    string         `xml:"name,attr"`
	Methods []testNGMethod `xml:"test-method"`
}

type testNGMethod struct {
	Name       string           `xml:"name,attr"`
	Status     string           `xml:"status,attr"`
	DurationMS string           `xml:"duration-ms,attr"`
	StartedAt  string           `xml:"started-at,attr"`
	IsConfig   bool             `xml:"is-config,attr"`
	Exception  *testNGException `xml:"exception"`
	Output     []string         `xml:"reporter-output>line"`
}

type testNGException struct {
	Class           string `xml:"class,attr"`
	Message         string `xml:"message"`
	ShortStacktrace string `xml:"short-stacktrace"`
}

// ParseTestNG reads a testng-results.xml document. Each <suite> becomes a
// suite, each <test> a test context, and each non-configuration test method an
// outcome.
func ParseTestNG(r io.Reader) ([]types.SuiteResult, error) {
	var doc testNGResults
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode testng results: %w", err)
	}

	suites := make([]types.SuiteResult, 0, len(doc.Suites))
	for _, s := range doc.Suites {
		suite := types.SuiteResult{Name: s.Name}
		for _, test := range s.Tests {
			testCtx := suite.Context(test.Name)
			for _, class := range test.Classes {
				for _, method := range class.Methods {
					if method.IsConfig {
						continue
					}
					testCtx.Add(method.outcome(class.Name))
				}
			}
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

func (m testNGMethod) outcome(class string) types.TestOutcome {
	start := parseTestNGTime(m.StartedAt)
	ms, _ := strconv.ParseInt(strings.TrimSpace(m.DurationMS), 10, 64)

	output := make([]string, 0, len(m.Output))
	for _, line := range m.Output {
		output = append(output, strings.TrimSpace(line))
	}

	return types.TestOutcome{
		Name:    m.Name,
		Class:   class,
		Status:  testNGStatus(m.Status),
		Start:   start,
		End:     start.Add(time.Duration(ms) * time.Millisecond),
		Message: m.message(),
		Output:  output,
	}
}

func (m testNGMethod) message() string {
	if m.Exception == nil {
		return ""
	}
	if msg := strings.TrimSpace(m.Exception.Message); msg != "" {
		return msg
	}
	if m.Exception.Class != "" {
		return m.Exception.Class
	}
	return strings.TrimSpace(m.Exception.ShortStacktrace)
}

func testNGStatus(status string) types.TestStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PASS":
		return types.TestStatusPass
	case "FAIL":
		return types.TestStatusFail
	case "SKIP":
		return types.TestStatusSkip
	default:
		return types.TestStatusError
	}
}

func parseTestNGTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range testNGTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
