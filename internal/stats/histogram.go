package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latency bounds tracked by a Histogram, in microseconds.
const (
	minLatencyUs = 1
	maxLatencyUs = int64(10 * time.Minute / time.Microsecond)
	sigFigs      = 3
)

// Histogram is an hdrhistogram guarded by a mutex. Values are microseconds.
type Histogram struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

func NewHistogram() *Histogram {
	return &Histogram{hist: hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigs)}
}

// Observe records d, clamped into the trackable range.
func (h *Histogram) Observe(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.hist.RecordValue(us)
}

// QuantileMs returns the value at quantile q (0-100) in milliseconds.
func (h *Histogram) QuantileMs(q float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(h.hist.ValueAtQuantile(q)) / 1000.0
}

func (h *Histogram) MeanMs() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Mean() / 1000.0
}

func (h *Histogram) MaxMs() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(h.hist.Max()) / 1000.0
}

func (h *Histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.TotalCount()
}
