// Package estimator runs Monte Carlo batches of simulated Yahtzee turns and
// aggregates the outcomes into an empirical per-turn success probability.
package estimator

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/yahtzeeodds/internal/dice"
	"github.com/lox/yahtzeeodds/internal/randutil"
	"github.com/lox/yahtzeeodds/internal/statistics"
	"github.com/lox/yahtzeeodds/internal/turn"
)

// ErrInvalidTrials is returned before any simulation runs when the
// requested trial count is not positive.
var ErrInvalidTrials = errors.New("trials must be a positive integer")

// cancelCheckInterval is how many trials a worker runs between context
// checks. Checking every trial would dominate the inner loop.
const cancelCheckInterval = 1024

// Config holds configuration for running an estimation batch
type Config struct {
	Trials  int   // Number of turns to simulate
	Seed    int64 // Base seed; worker streams derive from it
	Workers int   // 0 means one per CPU, capped at maxWorkers

	// OnProgress, if set, is called periodically with the number of
	// completed trials. Called from worker goroutines, so it must be
	// safe for concurrent use.
	OnProgress func(completed int64)

	// SourceFactory returns the random source for a worker. Defaults to
	// randutil.Stream(Seed, worker); tests substitute rigged sources.
	SourceFactory func(worker int) dice.Source

	Logger *log.Logger
}

// maxWorkers caps fan-out; past this the reduction overhead outweighs the
// extra cores.
const maxWorkers = 8

// Estimator runs Monte Carlo Yahtzee turn simulations
type Estimator struct {
	config Config
}

// New creates a new estimator with the given configuration
func New(config Config) *Estimator {
	return &Estimator{config: config}
}

// Run executes the batch and returns the aggregated statistics.
//
// Trials are independent and share no mutable state, so they fan out across
// workers, each with its own non-overlapping random stream; the per-worker
// statistics merge in a final reduction. Cancelling the context stops the
// batch early and returns the statistics accumulated so far: callers detect
// a partial batch by comparing stats.Trials against the requested count.
//
// The standard error of the estimate scales as O(1/sqrt(trials)); for k
// decimal digits of precision run roughly 10^(2k) trials.
func (e *Estimator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if e.config.Trials <= 0 {
		return nil, ErrInvalidTrials
	}

	workers := e.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > maxWorkers {
			workers = maxWorkers
		}
	}
	if workers > e.config.Trials {
		workers = e.config.Trials
	}

	if e.config.Logger != nil {
		e.config.Logger.Debug("starting batch",
			"trials", e.config.Trials, "seed", e.config.Seed, "workers", workers)
	}

	var stats *statistics.Statistics
	if workers == 1 {
		stats = e.runSequential(ctx)
	} else {
		stats = e.runParallel(ctx, workers)
	}

	if err := stats.Validate(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (e *Estimator) source(worker int) dice.Source {
	if e.config.SourceFactory != nil {
		return e.config.SourceFactory(worker)
	}
	return randutil.Stream(e.config.Seed, worker)
}

func (e *Estimator) runSequential(ctx context.Context) *statistics.Statistics {
	rng := e.source(0)
	sim := turn.New()
	stats := &statistics.Statistics{}

	var completed int64
	for i := 0; i < e.config.Trials; i++ {
		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			break
		}
		stats.Add(sim.Simulate(rng))
		completed++
		if e.config.OnProgress != nil && completed%cancelCheckInterval == 0 {
			e.config.OnProgress(completed)
		}
	}
	if e.config.OnProgress != nil {
		e.config.OnProgress(completed)
	}
	return stats
}

func (e *Estimator) runParallel(ctx context.Context, workers int) *statistics.Statistics {
	trialsPerWorker := e.config.Trials / workers
	remainder := e.config.Trials % workers

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan *statistics.Statistics, workers)
	var completed atomic.Int64

	for w := 0; w < workers; w++ {
		workerTrials := trialsPerWorker
		if w < remainder {
			workerTrials++
		}
		worker := w

		g.Go(func() error {
			rng := e.source(worker)
			sim := turn.New()
			stats := &statistics.Statistics{}

			for i := 0; i < workerTrials; i++ {
				if i%cancelCheckInterval == 0 && ctx.Err() != nil {
					break
				}
				stats.Add(sim.Simulate(rng))
				if total := completed.Add(1); e.config.OnProgress != nil && total%cancelCheckInterval == 0 {
					e.config.OnProgress(total)
				}
			}

			results <- stats
			return nil
		})
	}

	// Workers never return errors; they drain on cancellation and report
	// what they finished.
	g.Wait()
	close(results)

	merged := &statistics.Statistics{}
	for stats := range results {
		merged.Merge(stats)
	}
	if e.config.OnProgress != nil {
		e.config.OnProgress(int64(merged.Trials))
	}
	return merged
}

// Estimate is a convenience wrapper that runs trials turns with the given
// seed and returns the empirical success probability alongside the expected
// number of turns until the first Yahtzee. The expected-turns error is
// statistics.ErrNoSuccesses when no trial succeeded.
func Estimate(ctx context.Context, trials int, seed int64) (pHat float64, expectedTurns float64, err error) {
	stats, err := New(Config{Trials: trials, Seed: seed}).Run(ctx)
	if err != nil {
		return 0, 0, err
	}
	expectedTurns, err = stats.ExpectedTurns()
	if err != nil {
		return stats.PHat(), 0, err
	}
	return stats.PHat(), expectedTurns, nil
}
