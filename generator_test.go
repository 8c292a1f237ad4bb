package testreport

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-testreport/ingest"
	"github.com/ethereum-optimism/infra/op-testreport/reporting"
	"github.com/ethereum-optimism/infra/op-testreport/types"
)

const smokeDocument = `
suites:
  - name: Smoke
    contexts:
      - name: LoginTests
        tests:
          - name: testLogin
            status: pass
            start: "2024-01-01T12:00:00Z"
            duration: 250ms
            output:
              - "\u001b[32mINFO\u001b[0m logged in"
          - name: testLogout
            status: fail
            message: assertion failed
`

func newTestConfig(t *testing.T, document string) (*Config, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "results.yaml")
	require.NoError(t, os.WriteFile(input, []byte(document), 0644))

	var out bytes.Buffer
	return &Config{
		Input:       input,
		Format:      ingest.FormatAuto,
		Suite:       "Tests",
		OutputDir:   filepath.Join(dir, "target"),
		Concurrency: 2,
		StripANSI:   true,
		Out:         &out,
		Log:         log.NewLogger(log.DiscardHandler()),
	}, &out
}

func TestGenerator_Run(t *testing.T) {
	cfg, out := newTestConfig(t, smokeDocument)
	cfg.MetricsFile = filepath.Join(cfg.OutputDir, "testreport.prom")

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, gen.RunID())

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.RunSummary{Passed: 1, Failed: 1}, summary)

	report, err := os.ReadFile(gen.ReportPath())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(report), "<tr class="))
	assert.Contains(t, string(report), `<a href="logs/testLogin">Log</a>`)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, reporting.StylesheetFile))

	// Every row link resolves to a log file next to the report
	loginLog, err := os.ReadFile(filepath.Join(cfg.OutputDir, "logs", "testLogin"))
	require.NoError(t, err)
	assert.Equal(t, "INFO logged in\n", string(loginLog))
	logoutLog, err := os.ReadFile(filepath.Join(cfg.OutputDir, "logs", "testLogout"))
	require.NoError(t, err)
	assert.Equal(t, "assertion failed\n", string(logoutLog))

	assert.Contains(t, out.String(), gen.RunID())
	assert.Contains(t, out.String(), "pass rate 50%")

	metricsOut, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metricsOut), gen.RunID())
}

func TestGenerator_FailOnFailures(t *testing.T) {
	cfg, _ := newTestConfig(t, smokeDocument)
	cfg.FailOnFailures = true

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	summary, err := gen.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Equal(t, 1, summary.Failed)
	assert.FileExists(t, gen.ReportPath(), "the report is written before failing")
}

func TestGenerator_MissingInput(t *testing.T) {
	cfg, _ := newTestConfig(t, smokeDocument)
	cfg.Input = filepath.Join(t.TempDir(), "missing.yaml")

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	_, err = gen.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.NoFileExists(t, gen.ReportPath())
}

func TestGenerator_MissingTemplate(t *testing.T) {
	cfg, _ := newTestConfig(t, smokeDocument)
	cfg.TemplatePath = filepath.Join(t.TempDir(), "missing.html")

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	_, err = gen.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.True(t, reporting.IsResourceLoadError(err))
	assert.NoFileExists(t, gen.ReportPath())
}

func TestGenerator_ReportWriteFailureIsNotFatal(t *testing.T) {
	cfg, _ := newTestConfig(t, smokeDocument)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))
	cfg.OutputDir = filepath.Join(blocker, "target")

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.RunSummary{Passed: 1, Failed: 1}, summary)
}

func TestGenerator_Cancelled(t *testing.T) {
	cfg, _ := newTestConfig(t, smokeDocument)
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gen.Run(ctx)
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGenerator_NilConfig(t *testing.T) {
	_, err := NewGenerator(nil)
	require.Error(t, err)
}

func TestGenerator_SharedTestNamesKeepSeparateLogs(t *testing.T) {
	stream := `{"Time":"2024-01-01T12:00:00Z","Action":"run","Package":"example.com/a","Test":"TestConfig"}
{"Time":"2024-01-01T12:00:00Z","Action":"output","Package":"example.com/a","Test":"TestConfig","Output":"    a_test.go:9: boom in package a\n"}
{"Time":"2024-01-01T12:00:01Z","Action":"fail","Package":"example.com/a","Test":"TestConfig","Elapsed":1}
{"Time":"2024-01-01T12:00:01Z","Action":"fail","Package":"example.com/a","Elapsed":1}
{"Time":"2024-01-01T12:00:00Z","Action":"run","Package":"example.com/b","Test":"TestConfig"}
{"Time":"2024-01-01T12:00:00Z","Action":"output","Package":"example.com/b","Test":"TestConfig","Output":"    b_test.go:9: fine in package b\n"}
{"Time":"2024-01-01T12:00:01Z","Action":"pass","Package":"example.com/b","Test":"TestConfig","Elapsed":1}
{"Time":"2024-01-01T12:00:01Z","Action":"pass","Package":"example.com/b","Elapsed":1}
`
	cfg, _ := newTestConfig(t, "")
	cfg.Input = filepath.Join(t.TempDir(), "go-test.log")
	cfg.Format = ingest.FormatGoTest
	require.NoError(t, os.WriteFile(cfg.Input, []byte(stream), 0644))

	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.RunSummary{Passed: 1, Failed: 1}, summary)

	report, err := os.ReadFile(gen.ReportPath())
	require.NoError(t, err)
	assert.Contains(t, string(report), `<tr class="danger"><td>Tests</td><td>example.com/a</td><td>TestConfig</td><td>FAILED</td><td>N/A</td><td><a href="logs/example.com_a/TestConfig">Log</a></td>`)
	assert.Contains(t, string(report), `<tr class="success"><td>Tests</td><td>example.com/b</td><td>TestConfig</td><td>PASSED</td><td>1000</td><td><a href="logs/example.com_b/TestConfig">Log</a></td>`)

	aLog, err := os.ReadFile(filepath.Join(cfg.OutputDir, "logs", "example.com_a", "TestConfig"))
	require.NoError(t, err)
	assert.Equal(t, "    a_test.go:9: boom in package a\n", string(aLog))
	bLog, err := os.ReadFile(filepath.Join(cfg.OutputDir, "logs", "example.com_b", "TestConfig"))
	require.NoError(t, err)
	assert.Equal(t, "    b_test.go:9: fine in package b\n", string(bLog))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "logs", "TestConfig"))
}
