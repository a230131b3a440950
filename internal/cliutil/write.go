// Package cliutil provides small helpers shared by the oasmerge command.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Stopwatch measures the phases of a single run.
type Stopwatch struct {
	now   func() time.Time
	start time.Time
	last  time.Time
}

// NewStopwatch starts a stopwatch at the current time.
func NewStopwatch() *Stopwatch {
	return newStopwatch(time.Now)
}

func newStopwatch(now func() time.Time) *Stopwatch {
	t := now()
	return &Stopwatch{now: now, start: t, last: t}
}

// Lap returns the time since the previous Lap (or since the start) and
// begins a new lap.
func (s *Stopwatch) Lap() time.Duration {
	t := s.now()
	d := t.Sub(s.last)
	s.last = t
	return d
}

// Total returns the time since the stopwatch was started.
func (s *Stopwatch) Total() time.Duration {
	return s.now().Sub(s.start)
}
