package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// DotProgressReporter prints a dot per chunk of completed turns, with a
// running count at the end of each line. Safe for concurrent OnProgress
// calls from estimator workers.
type DotProgressReporter struct {
	mu          sync.Mutex
	out         io.Writer
	clock       quartz.Clock
	total       int
	dotInterval int
	dotsPerLine int
	dotsPrinted int
	start       time.Time
}

// NewDotProgressReporter creates a reporter for a batch of total turns.
func NewDotProgressReporter(total int, clock quartz.Clock) *DotProgressReporter {
	dotInterval := total / 100
	if dotInterval < 1 {
		dotInterval = 1
	}
	return &DotProgressReporter{
		out:         os.Stderr,
		clock:       clock,
		total:       total,
		dotInterval: dotInterval,
		dotsPerLine: 50,
		start:       clock.Now(),
	}
}

// OnProgress prints any dots earned since the last call.
func (r *DotProgressReporter) OnProgress(completed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	targetDots := int(completed) / r.dotInterval
	for r.dotsPrinted < targetDots {
		fmt.Fprint(r.out, ".")
		r.dotsPrinted++
		if r.dotsPrinted%r.dotsPerLine == 0 {
			done := r.dotsPrinted * r.dotInterval
			pct := float64(done) * 100 / float64(r.total)
			fmt.Fprintf(r.out, " %d/%d (%.0f%%)\n", done, r.total, pct)
		}
	}
}

// Finish prints the closing summary line.
func (r *DotProgressReporter) Finish(completed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dotsPrinted%r.dotsPerLine != 0 {
		fmt.Fprintln(r.out)
	}

	elapsed := r.clock.Since(r.start)
	rate := float64(completed) / elapsed.Seconds()
	fmt.Fprintf(r.out, "completed %d turns in %.1fs (%.0f turns/sec)\n",
		completed, elapsed.Seconds(), rate)
}
