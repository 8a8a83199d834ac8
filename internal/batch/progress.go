// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"time"
)

// timeNow is stubbed in tests to make the ETA math deterministic.
var timeNow = time.Now

// Progress tracks completions across a run and estimates remaining time
// from the average duration of the calls finished so far (R2.3).
type Progress struct {
	Total     int
	Completed int

	start time.Time
}

// NewProgress starts the clock for a run of total calls.
func NewProgress(total int) *Progress {
	return &Progress{Total: total, start: timeNow()}
}

// Advance records one finished call.
func (p *Progress) Advance() {
	p.Completed++
}

// Elapsed returns the time since the run started.
func (p *Progress) Elapsed() time.Duration {
	return timeNow().Sub(p.start)
}

// Remaining estimates the time left: remaining calls times the average
// duration of completed ones. Zero before the first completion, since
// there is no average to project from.
func (p *Progress) Remaining() time.Duration {
	if p.Completed == 0 {
		return 0
	}
	avg := p.Elapsed() / time.Duration(p.Completed)
	return time.Duration(p.Total-p.Completed) * avg
}

// ETA formats Remaining as zero-padded MM:SS.
func (p *Progress) ETA() string {
	secs := int(p.Remaining().Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
