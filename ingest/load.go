package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// Format names an input format
type Format string

const (
	FormatAuto     Format = "auto"
	FormatGoTest   Format = "gotest"
	FormatTestNG   Format = "testng"
	FormatDocument Format = "document"
)

// StdinPath selects standard input as the result source
const StdinPath = "-"

// ErrNoEvents is returned when the input holds no results at all
var ErrNoEvents = errors.New("no test results found in input")

// Formats lists the formats accepted on the command line
func Formats() []Format {
	return []Format{FormatAuto, FormatGoTest, FormatTestNG, FormatDocument}
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FormatAuto, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown input format %q", name)
}

// DetectFormat picks a format from the input path's extension. Go test
// streams have no conventional extension, so they are the fallback.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatTestNG
	case ".yaml", ".yml", ".json":
		return FormatDocument
	default:
		return FormatGoTest
	}
}

// Load reads results from path ("-" for stdin) in the given format. suite
// names the suite for formats that carry none.
func Load(path string, format Format, suite string) ([]types.SuiteResult, error) {
	var r io.Reader
	if path == StdinPath {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open results %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}
	suites, err := Parse(r, format, suite)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s results from %s: %w", format, path, err)
	}
	return suites, nil
}

// Parse reads results from r in an explicit format. Tests whose names collide
// across classes or packages get class-qualified log files.
func Parse(r io.Reader, format Format, suite string) ([]types.SuiteResult, error) {
	var suites []types.SuiteResult
	var err error
	switch format {
	case FormatGoTest:
		suites, err = ParseGoTest(r, suite)
	case FormatTestNG:
		suites, err = ParseTestNG(r)
	case FormatDocument:
		suites, err = ParseDocument(r)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}
	types.QualifyCollidingLogs(suites)
	return suites, nil
}
