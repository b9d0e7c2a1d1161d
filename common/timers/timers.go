// Package timers mirrors the section timers of the reference benchmarks:
// a small fixed set of stopwatches addressed by index, plus the
// timer.flag convention that enables the fine-grained breakdown.
package timers

import (
	"os"
	"time"
)

// FlagFile is the sentinel whose presence in the working directory turns
// on section timing. It is only ever read, never written.
const FlagFile = "timer.flag"

// FlagPresent reports whether the timer.flag sentinel exists. A missing
// file silently disables section timing.
func FlagPresent() bool {
	_, err := os.Stat(FlagFile)
	return err == nil
}

// Set is a group of accumulating stopwatches.
type Set struct {
	start   []time.Time
	elapsed []time.Duration
}

// NewSet returns a Set with n cleared timers.
func NewSet(n int) *Set {
	return &Set{
		start:   make([]time.Time, n),
		elapsed: make([]time.Duration, n),
	}
}

// Clear resets timer i to zero accumulated time.
func (s *Set) Clear(i int) {
	s.elapsed[i] = 0
}

// Start begins an interval on timer i.
func (s *Set) Start(i int) {
	s.start[i] = time.Now()
}

// Stop ends the current interval on timer i and adds it to the
// accumulated total.
func (s *Set) Stop(i int) {
	s.elapsed[i] += time.Since(s.start[i])
}

// Read returns the accumulated time of timer i in seconds.
func (s *Set) Read(i int) float64 {
	return s.elapsed[i].Seconds()
}
