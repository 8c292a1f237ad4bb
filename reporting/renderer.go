package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// RendererConfig holds configuration for creating a Renderer
type RendererConfig struct {
	OutputDir string  // Directory receiving custom-report.html and circle.css
	Assets    *Assets // Template and stylesheet source, defaults to the packaged assets
	Log       log.Logger
}

// Renderer turns the results of a finished run into a single HTML report
type Renderer struct {
	outputDir string
	assets    *Assets
	log       log.Logger
}

// NewRenderer creates a new report renderer
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if cfg.Assets == nil {
		cfg.Assets = DefaultAssets()
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	return &Renderer{
		outputDir: cfg.OutputDir,
		assets:    cfg.Assets,
		log:       cfg.Log.New("component", "renderer"),
	}, nil
}

// ReportPath returns the path of the generated HTML report
func (r *Renderer) ReportPath() string {
	return filepath.Join(r.outputDir, ReportFile)
}

// StylesheetPath returns the path the stylesheet is copied to
func (r *Renderer) StylesheetPath() string {
	return filepath.Join(r.outputDir, StylesheetFile)
}

// GenerateReport renders the report for all suites and writes it to the output
// directory. It is meant to be called once, after every test has finished.
//
// The returned summary is computed from scratch on every call. A missing
// template returns a *ResourceLoadError and writes nothing; a stylesheet that
// cannot be copied is logged and skipped; a report that cannot be written is
// logged and returned as a *WriteError alongside the summary.
func (r *Renderer) GenerateReport(suites []types.SuiteResult) (types.RunSummary, error) {
	r.prepareStylesheet()

	tmpl, err := r.assets.Template()
	if err != nil {
		r.log.Error("Problem loading report template", "err", err)
		return types.RunSummary{}, err
	}

	body, summary := BuildRows(suites)

	report, found := Substitute(tmpl, summary, body)
	if !found {
		r.log.Warn("Report template has no rows marker, rows were not inserted", "marker", RowsMarker)
	}

	if err := r.saveReport(report); err != nil {
		r.log.Error("Problem saving report", "path", r.ReportPath(), "err", err)
		return summary, err
	}

	r.log.Info("Report generated",
		"path", r.ReportPath(),
		"passed", summary.Passed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"passRate", summary.PassRate())
	return summary, nil
}

// BuildRows renders every outcome in suite, context, then failed/passed/skipped
// order and counts the outcomes of each set. Rows are never sorted.
func BuildRows(suites []types.SuiteResult) (string, types.RunSummary) {
	var body strings.Builder
	var summary types.RunSummary

	for _, suite := range suites {
		for _, testCtx := range suite.Contexts {
			summary = summary.Add(testCtx.Summary())
			for _, outcome := range testCtx.Outcomes() {
				body.WriteString(ResultRow(suite.Name, testCtx.Name, outcome))
			}
		}
	}
	return body.String(), summary
}

// prepareStylesheet copies the stylesheet next to the report, overwriting any
// previous copy. Failures only cost the report its styling.
func (r *Renderer) prepareStylesheet() {
	css, err := r.assets.Stylesheet()
	if err != nil {
		r.log.Warn("Problem loading stylesheet, report will be unstyled", "err", err)
		return
	}
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		r.log.Warn("Problem creating output directory for stylesheet", "dir", r.outputDir, "err", err)
		return
	}
	if err := os.WriteFile(r.StylesheetPath(), css, 0644); err != nil {
		r.log.Warn("Problem copying stylesheet", "path", r.StylesheetPath(), "err", err)
		return
	}
	r.log.Debug("Stylesheet copied", "path", r.StylesheetPath())
}

func (r *Renderer) saveReport(report string) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return &WriteError{Path: r.ReportPath(), Err: fmt.Errorf("failed to create output directory %s: %w", r.outputDir, err)}
	}
	if err := os.WriteFile(r.ReportPath(), []byte(report), 0644); err != nil {
		return &WriteError{Path: r.ReportPath(), Err: err}
	}
	return nil
}
