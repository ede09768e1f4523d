package storage

import (
	"time"

	"hellod/internal/probe"
)

// Run is the persisted summary of one probe run.
type Run struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	URL         string    `json:"url"`
	Planned     int       `json:"planned"`
	Requests    uint64    `json:"requests"`
	Concurrency int       `json:"concurrency"`
	Success     uint64    `json:"success"`
	Mismatch    uint64    `json:"mismatch"`
	Fail        uint64    `json:"fail"`
	DurationMs  int64     `json:"duration_ms"`
	P50Ms       float64   `json:"p50_ms"`
	P90Ms       float64   `json:"p90_ms"`
	P99Ms       float64   `json:"p99_ms"`
	MaxMs       float64   `json:"max_ms"`
}

func FromReport(r probe.Report) Run {
	return Run{
		ID:          r.ID,
		Timestamp:   r.Started,
		URL:         r.Config.URL,
		Planned:     r.Config.Requests,
		Requests:    r.Requests,
		Concurrency: r.Config.Concurrency,
		Success:     r.Success,
		Mismatch:    r.Mismatch,
		Fail:        r.Fail,
		DurationMs:  r.Duration.Milliseconds(),
		P50Ms:       r.P50Ms,
		P90Ms:       r.P90Ms,
		P99Ms:       r.P99Ms,
		MaxMs:       r.MaxMs,
	}
}

func (r Run) Passed() bool {
	return r.Requests > 0 &&
		r.Requests == uint64(r.Planned) &&
		r.Success == r.Requests
}
