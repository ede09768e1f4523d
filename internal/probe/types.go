package probe

import (
	"time"
)

type Config struct {
	URL         string
	Requests    int
	Concurrency int
	Timeout     time.Duration

	// Expected body. Defaults to the responder's greeting.
	Expect string
}

// Result is the outcome of one request.
type Result struct {
	TimeStamp time.Time
	Latency   time.Duration
	Status    int
	Bytes     int64
	Err       error
	Reason    string
}

// Report summarises a finished run.
type Report struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Config   Config

	Requests uint64
	Success  uint64
	Mismatch uint64
	Fail     uint64

	P50Ms  float64
	P90Ms  float64
	P99Ms  float64
	MaxMs  float64
	MeanMs float64

	Errors map[string]int
}

// Passed reports whether every planned request ran and got the expected
// reply. A run cut short by cancellation never passes.
func (r Report) Passed() bool {
	return r.Requests > 0 &&
		r.Requests == uint64(r.Config.Requests) &&
		r.Success == r.Requests
}

// Missing is the number of planned requests that did not get the
// expected reply, including those never sent.
func (r Report) Missing() uint64 {
	planned := uint64(r.Config.Requests)
	if r.Success >= planned {
		return 0
	}
	return planned - r.Success
}

// RPS is the achieved request rate over the run.
func (r Report) RPS() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Duration.Seconds()
}
