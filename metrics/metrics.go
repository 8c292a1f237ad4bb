package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

const (
	MetricsNamespace = "testreport"
)

var (
	Debug                bool = true
	validResults              = []types.TestStatus{types.TestStatusPass, types.TestStatusFail, types.TestStatusSkip}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "outcomes_total",
		Help:      "Count of rendered test outcomes",
	}, []string{
		"run_id",
		"suite",
		"context",
		"result",
	})

	reportResult = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_result",
		Help:      "Overall result of the reported run",
	}, []string{
		"run_id",
		"result",
	})

	reportTests = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_tests",
		Help:      "Number of reported tests by result",
	}, []string{
		"run_id",
		"result",
	})

	reportPassRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_pass_rate",
		Help:      "Pass rate of the reported run as an integer percentage",
	}, []string{
		"run_id",
	})

	reportDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "report_generation_duration_seconds",
		Help:      "Time taken to load results, write logs and render the report",
	}, []string{
		"run_id",
	})

	logsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_logs_written_total",
		Help:      "Count of per-test log files written",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordOutcome counts one outcome. Errored outcomes count as failures, the
// same set they are filed in.
func RecordOutcome(runID string, suite string, context string, result types.TestStatus) {
	if result == types.TestStatusError {
		result = types.TestStatusFail
	}
	if !isValidResult(result) {
		log.Debug("RecordOutcome - skipping unknown result", "result", result)
		return
	}
	outcomesTotal.WithLabelValues(runID, suite, context, string(result)).Inc()
}

// RecordOutcomes records every outcome of every suite
func RecordOutcomes(runID string, suites []types.SuiteResult) {
	for _, suite := range suites {
		for _, testCtx := range suite.Contexts {
			for _, outcome := range testCtx.Outcomes() {
				RecordOutcome(runID, suite.Name, testCtx.Name, outcome.Status)
			}
		}
	}
}

func RecordReport(runID string, result types.TestStatus, summary types.RunSummary, duration time.Duration) {
	if Debug {
		log.Debug("metric set",
			"m", "report_result",
			"run_id", runID,
			"result", result,
			"passed", summary.Passed,
			"failed", summary.Failed,
			"skipped", summary.Skipped)
	}
	reportResult.WithLabelValues(runID, string(result)).Set(1)
	reportTests.WithLabelValues(runID, string(types.TestStatusPass)).Set(float64(summary.Passed))
	reportTests.WithLabelValues(runID, string(types.TestStatusFail)).Set(float64(summary.Failed))
	reportTests.WithLabelValues(runID, string(types.TestStatusSkip)).Set(float64(summary.Skipped))
	reportPassRate.WithLabelValues(runID).Set(float64(summary.PassRate()))
	reportDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func RecordLogsWritten(runID string, count int) {
	logsWrittenTotal.WithLabelValues(runID).Add(float64(count))
}

// WriteTextfile exports every registered metric in the text exposition
// format, for collection by a node exporter textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func isValidResult(result types.TestStatus) bool {
	return slices.Contains(validResults, result)
}
