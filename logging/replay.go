package logging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

// replayWork is one outcome whose captured output should be written to its log file
type replayWork struct {
	Suite   string
	Context string
	Outcome types.TestOutcome
}

// Replayer writes the captured output of finished tests into their per-test
// log files using a fixed pool of workers. Each worker owns the handle of the
// outcome it is processing, so no two workers ever share a file.
type Replayer struct {
	logger      *PerTestLogger
	concurrency int
	log         log.Logger
}

// NewReplayer creates a replayer; a concurrency below one runs a single worker
func NewReplayer(logger *PerTestLogger, concurrency int, lgr log.Logger) *Replayer {
	if logger == nil {
		panic("per-test logger cannot be nil")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if lgr == nil {
		lgr = log.New()
	}
	return &Replayer{
		logger:      logger,
		concurrency: concurrency,
		log:         lgr.New("component", "log-replayer"),
	}
}

// Replay writes one log file per outcome and returns the number of files written.
// Outcomes without captured output get their message, if any, as the only line.
func (r *Replayer) Replay(ctx context.Context, suites []types.SuiteResult) (int, error) {
	workItems := r.collect(suites)
	if len(workItems) == 0 {
		r.log.Debug("No test logs to replay")
		return 0, nil
	}

	r.log.Info("Writing per-test logs", "tests", len(workItems), "concurrency", r.concurrency, "dir", r.logger.Root())

	bufferSize := min(r.concurrency*2, 100)
	workChan := make(chan replayWork, bufferSize)
	errChan := make(chan error, bufferSize)

	var written atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go r.worker(&wg, workChan, errChan, &written)
	}

	go func() {
		defer close(workChan)
		for _, work := range workItems {
			select {
			case workChan <- work:
			case <-ctx.Done():
				r.log.Debug("Context cancelled while sending replay work")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	if len(errs) > 0 {
		return int(written.Load()), fmt.Errorf("failed to write %d of %d test logs: %w", len(workItems)-int(written.Load()), len(workItems), errors.Join(errs...))
	}
	return int(written.Load()), nil
}

// collect flattens the suites into work items, keeping only the last outcome
// for each log file name.
func (r *Replayer) collect(suites []types.SuiteResult) []replayWork {
	var items []replayWork
	byFile := make(map[string]int)

	for _, suite := range suites {
		for _, testCtx := range suite.Contexts {
			for _, outcome := range testCtx.Outcomes() {
				work := replayWork{Suite: suite.Name, Context: testCtx.Name, Outcome: outcome}
				name := outcome.Identity().LogFileName()
				if idx, exists := byFile[name]; exists {
					prev := items[idx]
					r.log.Warn("Tests share a log file, keeping the last one",
						"file", name,
						"previous", prev.Suite+"/"+prev.Context+"/"+prev.Outcome.Name,
						"current", suite.Name+"/"+testCtx.Name+"/"+outcome.Name)
					items[idx] = work
					continue
				}
				byFile[name] = len(items)
				items = append(items, work)
			}
		}
	}
	return items
}

func (r *Replayer) worker(wg *sync.WaitGroup, workChan <-chan replayWork, errChan chan<- error, written *atomic.Int64) {
	defer wg.Done()
	for work := range workChan {
		if err := r.replayOne(work); err != nil {
			r.log.Error("Failed to write test log", "test", work.Outcome.Name, "err", err)
			errChan <- err
			continue
		}
		written.Add(1)
	}
}

func (r *Replayer) replayOne(work replayWork) (err error) {
	handle, err := r.logger.Open(work.Outcome.Identity())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := handle.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close log file %s: %w", handle.Path(), closeErr)
		}
	}()

	lines := work.Outcome.Output
	if len(lines) == 0 && work.Outcome.Message != "" {
		lines = []string{work.Outcome.Message}
	}
	for _, line := range lines {
		if err := handle.Log(line); err != nil {
			return err
		}
	}
	return nil
}
