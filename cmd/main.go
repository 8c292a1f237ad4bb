package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	testreport "github.com/ethereum-optimism/infra/op-testreport"
	"github.com/ethereum-optimism/infra/op-testreport/exitcodes"
	"github.com/ethereum-optimism/infra/op-testreport/flags"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := newApp()

	ctx := ctxinterrupt.WithSignalWaiterMain(context.Background())
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-testreport"
	app.Usage = "Test Result HTML Report Generator"
	app.Description = "op-testreport renders the results of a finished test run into an HTML report with per-test logs"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Action = run
	app.ExitErrHandler = exitErrHandler
	return app
}

func exitErrHandler(c *cli.Context, err error) {
	cli.HandleExitCoder(exitCoder(err))
}

// exitCoder maps typed errors onto exit codes
func exitCoder(err error) cli.ExitCoder {
	if err == nil {
		return nil
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if testreport.IsRuntimeError(err) {
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}
	if testreport.IsTestFailureError(err) {
		return cli.Exit(err.Error(), exitcodes.TestFailure)
	}
	return cli.Exit(err.Error(), exitcodes.TestFailure)
}

func run(ctx *cli.Context) error {
	logCfg := oplog.ReadCLIConfig(ctx)
	log := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(log.Handler())
	oplog.SetupDefaults()

	cfg, err := testreport.NewConfig(ctx, log)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return testreport.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}
	cfg.Log.Debug("Config", "config", cfg)

	gen, err := testreport.NewGenerator(cfg)
	if err != nil {
		return testreport.NewRuntimeError(fmt.Errorf("failed to create generator: %w", err))
	}

	_, err = gen.Run(ctx.Context)
	return err
}
