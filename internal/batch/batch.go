// Package batch runs scoring across every URL and strategy combination,
// pacing calls and reporting progress.
// Implements: prd003-batch (R1-R5);
//
//	docs/ARCHITECTURE § Batch.
package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// Scorer is the one call the runner needs from the scoring client.
// *psi.Client satisfies it; tests substitute stubs.
type Scorer interface {
	Score(ctx context.Context, rawURL string, strategy types.Strategy) types.ScoringResult
}

// Summary holds the outcome of one batch run.
type Summary struct {
	Scored  int
	Failed  int
	Elapsed time.Duration
}

// Total returns the number of scoring calls made.
func (s Summary) Total() int {
	return s.Scored + s.Failed
}

// HasFailures reports whether any call failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Runner drives one batch. URLs form the outer loop: every requested
// strategy for URL[i] completes before URL[i+1] starts (R1.3), and a
// pacing delay follows every call, the last one included (R5.1).
type Runner struct {
	Scorer Scorer

	// Delay is the pause after each scoring call. Zero disables pacing.
	Delay time.Duration
}

// Run scores every URL under every strategy, printing per-call status to
// w. Individual failures are recorded in the store and never stop the run
// (R3.1); only empty input or a canceled context aborts it. On
// cancellation the store still holds whatever completed.
func (r *Runner) Run(ctx context.Context, urls []string, strategies []types.Strategy, w io.Writer) (*Store, Summary, error) {
	if len(urls) == 0 {
		return nil, Summary{}, fmt.Errorf("no URLs to process")
	}
	if len(strategies) == 0 {
		return nil, Summary{}, fmt.Errorf("no strategies selected")
	}

	store := NewStore(urls)

	// Burst 1 with the initial token drained: each Wait below then blocks
	// for a full interval, which preserves the pause after the final call.
	limiter := rate.NewLimiter(rate.Every(r.Delay), 1)
	limiter.Allow()

	total := len(urls) * len(strategies)
	progress := NewProgress(total)
	var summary Summary

	fmt.Fprintf(w, "Found %d URLs to process using the '%s' strategy...\n", len(urls), strategyName(strategies))

	for i, u := range urls {
		for _, strategy := range strategies {
			select {
			case <-ctx.Done():
				summary.Elapsed = progress.Elapsed()
				return store, summary, ctx.Err()
			default:
			}

			fmt.Fprintf(w, "scoring %d/%d: %s (%s)\n", progress.Completed+1, total, u, strategy)

			result := r.Scorer.Score(ctx, u, strategy)
			store.Put(i, strategy, result)
			progress.Advance()

			if result.Failed() {
				summary.Failed++
				fmt.Fprintf(w, "failed:  %s (%s)\n", u, result.Failure.Message)
			} else {
				summary.Scored++
				fmt.Fprintf(w, "scored:  %s (%s)\n", u, result.Score)
			}
			fmt.Fprintf(w, "  estimated time remaining: %s\n", progress.ETA())

			if err := limiter.Wait(ctx); err != nil {
				summary.Elapsed = progress.Elapsed()
				return store, summary, err
			}
		}
	}

	summary.Elapsed = progress.Elapsed()
	fmt.Fprintf(w, "\nBatch summary: %d scored, %d failed (total: %d) in %s\n",
		summary.Scored, summary.Failed, summary.Total(), summary.Elapsed.Round(time.Millisecond))
	return store, summary, nil
}

// strategyName is the selection as the user named it: a single strategy's
// own name, or "both".
func strategyName(strategies []types.Strategy) string {
	if len(strategies) == 1 {
		return string(strategies[0])
	}
	return "both"
}
