package testreport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ethereum-optimism/infra/op-testreport/ingest"
	"github.com/ethereum-optimism/infra/op-testreport/logging"
	"github.com/ethereum-optimism/infra/op-testreport/metrics"
	"github.com/ethereum-optimism/infra/op-testreport/reporting"
	"github.com/ethereum-optimism/infra/op-testreport/types"
	"github.com/ethereum/go-ethereum/log"
)

// Generator turns the results of one finished test run into the HTML report,
// the per-test logs it links to and a console summary
type Generator struct {
	config   *Config
	runID    string
	log      log.Logger
	out      io.Writer
	renderer *reporting.Renderer
	logger   *logging.PerTestLogger
}

// NewGenerator creates a generator for a single run
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Log == nil {
		config.Log = log.New()
		config.Log.Error("No logger provided, using default")
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	runID := uuid.New().String()
	lgr := config.Log.New("run_id", runID)

	assets := reporting.DefaultAssets()
	assets.TemplatePath = config.TemplatePath
	assets.StylesheetPath = config.StylesheetPath

	renderer, err := reporting.NewRenderer(reporting.RendererConfig{
		OutputDir: config.OutputDir,
		Assets:    assets,
		Log:       lgr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	logger, err := logging.NewPerTestLogger(
		filepath.Join(config.OutputDir, types.LogDirName),
		logging.WithStripANSI(config.StripANSI),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create per-test logger: %w", err)
	}

	return &Generator{
		config:   config,
		runID:    runID,
		log:      lgr,
		out:      out,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// RunID returns the identifier attached to this run's logs and metrics
func (g *Generator) RunID() string {
	return g.runID
}

// ReportPath returns where the HTML report is written
func (g *Generator) ReportPath() string {
	return g.renderer.ReportPath()
}

// Run loads the results, writes the per-test logs, renders the report and
// prints the summary table. Unreadable results or a missing template return a
// RuntimeError. Log and report write failures are logged and do not fail the
// run.
func (g *Generator) Run(ctx context.Context) (types.RunSummary, error) {
	start := time.Now()
	g.log.Info("Generating test report", "input", g.config.Input, "format", g.config.Format, "outputDir", g.config.OutputDir)

	suites, err := ingest.Load(g.config.Input, g.config.Format, g.config.Suite)
	if err != nil {
		metrics.RecordErrorDetails("load", err)
		return types.RunSummary{}, NewRuntimeError(err)
	}

	g.writeLogs(ctx, suites)
	if ctx.Err() != nil {
		return types.RunSummary{}, NewRuntimeError(fmt.Errorf("report generation interrupted: %w", ctx.Err()))
	}

	summary, err := g.renderer.GenerateReport(suites)
	switch {
	case reporting.IsResourceLoadError(err):
		metrics.RecordErrorDetails("template", err)
		return summary, NewRuntimeError(err)
	case err != nil:
		// The renderer already logged it; the summary is still valid
		metrics.RecordErrorDetails("report", err)
	}

	table := reporting.NewSummaryTable(fmt.Sprintf("Test Report (run %s)", g.runID), true)
	if err := table.Print(g.out, suites); err != nil {
		g.log.Warn("Problem printing summary table", "err", err)
	}

	metrics.RecordOutcomes(g.runID, suites)
	metrics.RecordReport(g.runID, resultOf(summary), summary, time.Since(start))
	g.writeMetrics()

	g.log.Info("Test report completed",
		"report", g.renderer.ReportPath(),
		"passRate", summary.PassRate(),
		"passed", summary.Passed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", time.Since(start))

	if g.config.FailOnFailures && summary.Failed > 0 {
		return summary, NewTestFailureError(fmt.Sprintf("%d of %d tests failed", summary.Failed, summary.Total()))
	}
	return summary, nil
}

func (g *Generator) writeLogs(ctx context.Context, suites []types.SuiteResult) {
	replayer := logging.NewReplayer(g.logger, g.config.Concurrency, g.log)
	written, err := replayer.Replay(ctx, suites)
	metrics.RecordLogsWritten(g.runID, written)
	if err != nil {
		g.log.Warn("Some per-test logs could not be written", "written", written, "err", err)
		metrics.RecordErrorDetails("logs", err)
	}
}

func (g *Generator) writeMetrics() {
	if g.config.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(g.config.MetricsFile); err != nil {
		g.log.Warn("Problem writing metrics file", "err", err)
		return
	}
	g.log.Debug("Metrics written", "path", g.config.MetricsFile)
}

func resultOf(summary types.RunSummary) types.TestStatus {
	switch {
	case summary.Failed > 0:
		return types.TestStatusFail
	case summary.Passed > 0:
		return types.TestStatusPass
	default:
		return types.TestStatusSkip
	}
}
