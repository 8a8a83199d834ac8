// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// recordingScorer logs every call and fails the URLs listed in failures.
type recordingScorer struct {
	calls    []string
	failures map[string]bool
	onCall   func(n int)
}

func (s *recordingScorer) Score(_ context.Context, rawURL string, strategy types.Strategy) types.ScoringResult {
	s.calls = append(s.calls, rawURL+"|"+string(strategy))
	if s.onCall != nil {
		s.onCall(len(s.calls))
	}
	if s.failures[rawURL] {
		return types.ScoringResult{Failure: types.NetworkFailure(errors.New("connection reset"))}
	}
	return types.ScoringResult{Score: "90%"}
}

func TestRunVisitsEveryCombination(t *testing.T) {
	scorer := &recordingScorer{}
	runner := &Runner{Scorer: scorer}

	urls := []string{"https://a.example", "https://b.example"}
	strategies := []types.Strategy{types.StrategyDesktop, types.StrategyMobile}

	store, summary, err := runner.Run(context.Background(), urls, strategies, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both strategies for URL[i] complete before URL[i+1] starts.
	want := []string{
		"https://a.example|desktop",
		"https://a.example|mobile",
		"https://b.example|desktop",
		"https://b.example|mobile",
	}
	if len(scorer.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", scorer.calls, want)
	}
	for i := range want {
		if scorer.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, scorer.calls[i], want[i])
		}
	}

	if summary.Scored != 4 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 4 scored, 0 failed", summary)
	}
	if store.Len() != 4 {
		t.Errorf("store.Len() = %d, want 4", store.Len())
	}
	for i := range urls {
		for _, strategy := range strategies {
			if _, ok := store.Get(i, strategy); !ok {
				t.Errorf("store missing result for url %d strategy %s", i, strategy)
			}
		}
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	scorer := &recordingScorer{failures: map[string]bool{"https://b.example": true}}
	runner := &Runner{Scorer: scorer}

	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	store, summary, err := runner.Run(context.Background(),
		urls, []types.Strategy{types.StrategyDesktop}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(scorer.calls) != 3 {
		t.Fatalf("calls = %d, want 3 (run must continue past the failure)", len(scorer.calls))
	}
	if summary.Scored != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 scored, 1 failed", summary)
	}
	if !summary.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}

	// The failure is recorded as a result, not dropped.
	r, ok := store.Get(1, types.StrategyDesktop)
	if !ok {
		t.Fatal("store missing result for failed URL")
	}
	if !r.Failed() {
		t.Errorf("result for failed URL = %+v, want failure variant", r)
	}
	if !strings.Contains(r.Failure.Message, "Network Issue") {
		t.Errorf("Failure.Message = %q, want network-issue text", r.Failure.Message)
	}
}

func TestRunEmptyInput(t *testing.T) {
	runner := &Runner{Scorer: &recordingScorer{}}

	if _, _, err := runner.Run(context.Background(), nil,
		[]types.Strategy{types.StrategyDesktop}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty URL list")
	}
	if _, _, err := runner.Run(context.Background(),
		[]string{"https://a.example"}, nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty strategy list")
	}
}

func TestRunCanceledContextKeepsPartialStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scorer := &recordingScorer{}
	scorer.onCall = func(n int) {
		if n == 1 {
			cancel()
		}
	}
	runner := &Runner{Scorer: scorer}

	store, summary, err := runner.Run(ctx,
		[]string{"https://a.example", "https://b.example"},
		[]types.Strategy{types.StrategyDesktop}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	// The call that finished before cancellation is kept.
	if store == nil || store.Len() != 1 {
		t.Fatalf("store.Len() = %v, want 1 completed result", store.Len())
	}
	if summary.Total() != 1 {
		t.Errorf("summary.Total() = %d, want 1", summary.Total())
	}
	if len(scorer.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(scorer.calls))
	}
}

func TestRunStatusOutput(t *testing.T) {
	scorer := &recordingScorer{failures: map[string]bool{"https://b.example": true}}
	runner := &Runner{Scorer: scorer}

	var buf bytes.Buffer
	_, _, err := runner.Run(context.Background(),
		[]string{"https://a.example", "https://b.example"},
		[]types.Strategy{types.StrategyDesktop}, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Found 2 URLs to process using the 'desktop' strategy...",
		"scoring 1/2: https://a.example (desktop)",
		"scored:  https://a.example (90%)",
		"failed:  https://b.example (Error: Network Issue (connection reset))",
		"estimated time remaining:",
		"Batch summary: 1 scored, 1 failed (total: 2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestRunBannerNamesSelection(t *testing.T) {
	var buf bytes.Buffer
	runner := &Runner{Scorer: &recordingScorer{}}

	_, _, err := runner.Run(context.Background(), []string{"https://a.example"},
		[]types.Strategy{types.StrategyDesktop, types.StrategyMobile}, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(buf.String(), "Found 1 URLs to process using the 'both' strategy...") {
		t.Errorf("banner should name the combined selection\noutput:\n%s", buf.String())
	}
	if strings.Count(buf.String(), "Found") != 1 {
		t.Error("banner should print once per run")
	}
}

func TestRunPacesEveryCall(t *testing.T) {
	const delay = 25 * time.Millisecond
	runner := &Runner{Scorer: &recordingScorer{}, Delay: delay}

	start := time.Now()
	_, _, err := runner.Run(context.Background(),
		[]string{"https://a.example", "https://b.example"},
		[]types.Strategy{types.StrategyDesktop}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Two calls, each followed by a delay: the one after the final call
	// counts too.
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Errorf("elapsed = %v, want at least %v", elapsed, 2*delay)
	}
}
