package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"

	"github.com/ethereum-optimism/infra/op-testreport/ingest"
)

const EnvVarPrefix = "OP_TESTREPORT"

var (
	Input = &cli.StringFlag{
		Name:     "input",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "INPUT"),
		Usage:    "Path to the test results ('go test -json' output, testng-results.xml or a YAML/JSON result document). Use '-' for stdin",
	}
	Format = &cli.StringFlag{
		Name:    "format",
		Value:   string(ingest.FormatAuto),
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FORMAT"),
		Usage:   fmt.Sprintf("Input format. Must be one of: %v. 'auto' picks the format from the file extension", ingest.Formats()),
		Action: func(ctx *cli.Context, value string) error {
			_, err := ingest.ParseFormat(value)
			return err
		},
	}
	Suite = &cli.StringFlag{
		Name:    "suite",
		Value:   "Tests",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SUITE"),
		Usage:   "Suite name for input formats that do not carry one (go test streams)",
	}
	OutputDir = &cli.StringFlag{
		Name:    "output-dir",
		Value:   "target",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT_DIR"),
		Usage:   "Directory receiving custom-report.html, circle.css and the per-test logs/ directory",
	}
	Template = &cli.StringFlag{
		Name:    "template",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TEMPLATE"),
		Usage:   "Optional HTML template replacing the built-in report template",
	}
	Stylesheet = &cli.StringFlag{
		Name:    "stylesheet",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "STYLESHEET"),
		Usage:   "Optional stylesheet replacing the built-in circle.css",
	}
	Concurrency = &cli.IntFlag{
		Name:    "concurrency",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONCURRENCY"),
		Usage:   "Number of workers writing per-test logs (0 = number of CPUs)",
	}
	StripANSI = &cli.BoolFlag{
		Name:    "strip-ansi",
		Value:   true,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "STRIP_ANSI"),
		Usage:   "Strip ANSI escape sequences from per-test logs",
	}
	MetricsFile = &cli.StringFlag{
		Name:    "metrics-file",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "METRICS_FILE"),
		Usage:   "Optional path to write Prometheus metrics to in the text exposition format",
	}
	FailOnFailures = &cli.BoolFlag{
		Name:    "fail-on-failures",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FAIL_ON_FAILURES"),
		Usage:   "Exit with code 1 when the results contain failed tests",
	}
)

var requiredFlags = []cli.Flag{
	Input,
}

var optionalFlags = []cli.Flag{
	Format,
	Suite,
	OutputDir,
	Template,
	Stylesheet,
	Concurrency,
	StripANSI,
	MetricsFile,
	FailOnFailures,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
