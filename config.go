package testreport

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-testreport/flags"
	"github.com/ethereum-optimism/infra/op-testreport/ingest"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the application configuration
type Config struct {
	Input          string        // Results file, or "-" for stdin
	Format         ingest.Format // Input format, FormatAuto to detect from the extension
	Suite          string        // Suite name for formats that carry none
	OutputDir      string        // Directory receiving the report, stylesheet and logs/
	TemplatePath   string        // Optional template override
	StylesheetPath string        // Optional stylesheet override
	Concurrency    int           // Number of per-test log writers
	StripANSI      bool          // Strip ANSI escape sequences from per-test logs
	MetricsFile    string        // Optional Prometheus textfile destination
	FailOnFailures bool          // Treat failed tests as a test failure exit
	Out            io.Writer     // Destination of the summary table
	Log            log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	input := ctx.String(flags.Input.Name)
	if input == "" {
		return nil, errors.New("input is required")
	}
	if input != ingest.StdinPath {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for input '%s': %w", input, err)
		}
		input = abs
	}

	format, err := ingest.ParseFormat(ctx.String(flags.Format.Name))
	if err != nil {
		return nil, err
	}

	// Get output directory, default to "target" if not specified
	outputDir := ctx.String(flags.OutputDir.Name)
	if outputDir == "" {
		outputDir = "target"
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for output directory '%s': %w", outputDir, err)
	}

	templatePath, err := optionalAbs(ctx.String(flags.Template.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for template: %w", err)
	}
	stylesheetPath, err := optionalAbs(ctx.String(flags.Stylesheet.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for stylesheet: %w", err)
	}

	concurrency := ctx.Int(flags.Concurrency.Name)
	if concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", concurrency)
	}
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
	}

	return &Config{
		Input:          input,
		Format:         format,
		Suite:          ctx.String(flags.Suite.Name),
		OutputDir:      outputDir,
		TemplatePath:   templatePath,
		StylesheetPath: stylesheetPath,
		Concurrency:    concurrency,
		StripANSI:      ctx.Bool(flags.StripANSI.Name),
		MetricsFile:    ctx.String(flags.MetricsFile.Name),
		FailOnFailures: ctx.Bool(flags.FailOnFailures.Name),
		Out:            ctx.App.Writer,
		Log:            log,
	}, nil
}

func optionalAbs(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}
