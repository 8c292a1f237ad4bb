package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// Document is the native result format: suites of contexts of tests, written
// as YAML or JSON
type Document struct {
	Suites []SuiteDocument `yaml:"suites"`
}

type SuiteDocument struct {
	Name     string            `yaml:"name"`
	Contexts []ContextDocument `yaml:"contexts"`
}

type ContextDocument struct {
	Name  string         `yaml:"name"`
	Tests []TestDocument `yaml:"tests"`
}

// TestDocument describes one test. End takes precedence over Duration.
type TestDocument struct {
	Name     string        `yaml:"name"`
	Class    string        `yaml:"class,omitempty"`
	Status   string        `yaml:"status"`
	Start    string        `yaml:"start,omitempty"`
	End      string        `yaml:"end,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
	Message  string        `yaml:"message,omitempty"`
	Output   []string      `yaml:"output,omitempty"`
}

// ParseDocument reads a YAML or JSON result document
func ParseDocument(r io.Reader) ([]types.SuiteResult, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoEvents
		}
		return nil, fmt.Errorf("parsing result document: %w", err)
	}
	return doc.SuiteResults()
}

// SuiteResults converts the document into the result model
func (d Document) SuiteResults() ([]types.SuiteResult, error) {
	suites := make([]types.SuiteResult, 0, len(d.Suites))
	for _, s := range d.Suites {
		suite := types.SuiteResult{Name: s.Name}
		for _, c := range s.Contexts {
			testCtx := suite.Context(c.Name)
			for _, t := range c.Tests {
				outcome, err := t.outcome()
				if err != nil {
					return nil, fmt.Errorf("suite %q context %q: %w", s.Name, c.Name, err)
				}
				testCtx.Add(outcome)
			}
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

func (t TestDocument) outcome() (types.TestOutcome, error) {
	if t.Name == "" {
		return types.TestOutcome{}, fmt.Errorf("test has no name")
	}
	if t.Status == "" {
		return types.TestOutcome{}, fmt.Errorf("test %q has no status", t.Name)
	}

	start, err := parseDocumentTime(t.Start)
	if err != nil {
		return types.TestOutcome{}, fmt.Errorf("test %q start: %w", t.Name, err)
	}
	end, err := parseDocumentTime(t.End)
	if err != nil {
		return types.TestOutcome{}, fmt.Errorf("test %q end: %w", t.Name, err)
	}
	if t.End == "" {
		end = start.Add(t.Duration)
	}

	return types.TestOutcome{
		Name:    t.Name,
		Class:   t.Class,
		Status:  types.TestStatus(strings.ToLower(strings.TrimSpace(t.Status))),
		Start:   start,
		End:     end,
		Message: t.Message,
		Output:  t.Output,
	}, nil
}

func parseDocumentTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
