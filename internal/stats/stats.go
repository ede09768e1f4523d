package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Outcome classifies a single probe request.
type Outcome int

const (
	// Success is a 200 carrying the expected body.
	Success Outcome = iota
	// Mismatch is a completed exchange with the wrong status or body.
	Mismatch
	// Fail is a transport-level error.
	Fail
)

// Stats aggregates probe results. Safe for concurrent use.
type Stats struct {
	Requests uint64
	Success  uint64
	Mismatch uint64
	Fail     uint64
	Bytes    uint64

	// Latency of successful requests.
	ServiceTime *Histogram

	errMu  sync.Mutex
	errors map[string]int
}

func New() *Stats {
	return &Stats{
		ServiceTime: NewHistogram(),
		errors:      make(map[string]int),
	}
}

// Add records one result. reason is kept for anything but Success.
func (s *Stats) Add(outcome Outcome, bytes int64, latency time.Duration, reason string) {
	atomic.AddUint64(&s.Requests, 1)
	if bytes > 0 {
		atomic.AddUint64(&s.Bytes, uint64(bytes))
	}

	switch outcome {
	case Success:
		atomic.AddUint64(&s.Success, 1)
		s.ServiceTime.Observe(latency)
		return
	case Mismatch:
		atomic.AddUint64(&s.Mismatch, 1)
	default:
		atomic.AddUint64(&s.Fail, 1)
	}

	s.errMu.Lock()
	s.errors[reason]++
	s.errMu.Unlock()
}

// ErrorRate is the percentage of requests that were not a Success.
func (s *Stats) ErrorRate() float64 {
	reqs := atomic.LoadUint64(&s.Requests)
	if reqs == 0 {
		return 0
	}
	bad := atomic.LoadUint64(&s.Mismatch) + atomic.LoadUint64(&s.Fail)
	return float64(bad) / float64(reqs) * 100
}

// ErrorCounts returns a copy of the failure reasons seen so far.
func (s *Stats) ErrorCounts() map[string]int {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	out := make(map[string]int, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}
