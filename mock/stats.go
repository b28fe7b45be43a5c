// Package mock has Statter and Logger implementations which record what they
// are given, for use in tests.
package mock

import (
	"fmt"
	"sync"
	"time"
)

// RecordingStatter keeps the running total of every counter and the last
// value of every timing.
type RecordingStatter struct {
	mu      sync.Mutex
	Counts  map[string]int64
	Timings map[string]time.Duration
}

func (r *RecordingStatter) Count(name string, value int64, rate float64, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Counts == nil {
		r.Counts = make(map[string]int64)
	}
	r.Counts[name] += value
}

func (r *RecordingStatter) Gauge(name string, value float64, rate float64, tags ...string) {}

func (r *RecordingStatter) Histogram(name string, value float64, rate float64, tags ...string) {}

func (r *RecordingStatter) Set(name string, value string, rate float64, tags ...string) {}

func (r *RecordingStatter) Timing(name string, value time.Duration, rate float64, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Timings == nil {
		r.Timings = make(map[string]time.Duration)
	}
	r.Timings[name] = value
}

// RecordingLogger keeps every formatted line. Debug lines are prefixed with
// "DEBUG ".
type RecordingLogger struct {
	mu    sync.Mutex
	Lines []string
}

func (r *RecordingLogger) Printf(format string, v ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, fmt.Sprintf(format, v...))
}

func (r *RecordingLogger) Debugf(format string, v ...interface{}) {
	r.Printf("DEBUG "+format, v...)
}
