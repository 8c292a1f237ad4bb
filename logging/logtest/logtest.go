// Package logtest binds per-test log files to running Go tests
package logtest

import (
	"testing"

	"github.com/ethereum-optimism/infra/op-testreport/logging"
	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// ForTest opens the log file for the running Go test and releases it when the
// test (and its subtests) complete. Failing to open the log fails the test.
func ForTest(tb testing.TB, root string) *logging.LogHandle {
	tb.Helper()

	logger, err := logging.NewPerTestLogger(root, logging.WithStripANSI(true))
	if err != nil {
		tb.Fatalf("failed to create per-test logger: %v", err)
	}

	handle, err := logger.Open(types.TestIdentity{Method: tb.Name()})
	if err != nil {
		tb.Fatalf("failed to open test log: %v", err)
	}
	tb.Cleanup(func() {
		_ = handle.Close()
	})
	return handle
}
