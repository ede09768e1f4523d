package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hellod/internal/server"
	"hellod/internal/stats"
)

const maxBody = 1 << 16

// Runner fires a fixed number of GET requests with a bounded worker pool
// and checks each reply against the expected body.
type Runner struct {
	Cfg    Config
	Stats  *stats.Stats
	Client *http.Client

	mu      sync.Mutex
	Results []Result

	inflight int64
}

func NewRunner(cfg Config) *Runner {
	if cfg.Requests <= 0 {
		cfg.Requests = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Concurrency > cfg.Requests {
		cfg.Concurrency = cfg.Requests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Expect == "" {
		cfg.Expect = server.Greeting
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = cfg.Concurrency

	return &Runner{
		Cfg:   cfg,
		Stats: stats.New(),
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: t,
		},
	}
}

// Run blocks until every request has completed or ctx is cancelled. Requests
// not yet dispatched at cancellation are dropped.
func (r *Runner) Run(ctx context.Context) Report {
	start := time.Now()
	jobs := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < r.Cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				r.execute(ctx)
			}
		}()
	}

dispatch:
	for i := 0; i < r.Cfg.Requests; i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- struct{}{}:
		}
	}
	close(jobs)
	wg.Wait()

	return r.report(start, time.Since(start))
}

func (r *Runner) execute(ctx context.Context) {
	atomic.AddInt64(&r.inflight, 1)
	defer atomic.AddInt64(&r.inflight, -1)

	res := Result{TimeStamp: time.Now()}
	outcome := r.do(ctx, &res)
	res.Latency = time.Since(res.TimeStamp)

	r.Stats.Add(outcome, res.Bytes, res.Latency, res.Reason)

	r.mu.Lock()
	r.Results = append(r.Results, res)
	r.mu.Unlock()
}

func (r *Runner) do(ctx context.Context, res *Result) stats.Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Cfg.URL, nil)
	if err != nil {
		res.Err = err
		res.Reason = err.Error()
		return stats.Fail
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		res.Err = err
		res.Reason = err.Error()
		return stats.Fail
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	res.Status = resp.StatusCode
	res.Bytes = int64(len(body))
	if err != nil {
		res.Err = err
		res.Reason = err.Error()
		return stats.Fail
	}

	if resp.StatusCode != http.StatusOK {
		res.Reason = fmt.Sprintf("status %d", resp.StatusCode)
		return stats.Mismatch
	}
	if !bytes.Equal(body, []byte(r.Cfg.Expect)) {
		res.Reason = "unexpected body"
		return stats.Mismatch
	}
	return stats.Success
}

func (r *Runner) report(start time.Time, elapsed time.Duration) Report {
	s := r.Stats
	return Report{
		ID:       uuid.New().String(),
		Started:  start,
		Duration: elapsed,
		Config:   r.Cfg,
		Requests: atomic.LoadUint64(&s.Requests),
		Success:  atomic.LoadUint64(&s.Success),
		Mismatch: atomic.LoadUint64(&s.Mismatch),
		Fail:     atomic.LoadUint64(&s.Fail),
		P50Ms:    s.ServiceTime.QuantileMs(50),
		P90Ms:    s.ServiceTime.QuantileMs(90),
		P99Ms:    s.ServiceTime.QuantileMs(99),
		MaxMs:    s.ServiceTime.MaxMs(),
		MeanMs:   s.ServiceTime.MeanMs(),
		Errors:   s.ErrorCounts(),
	}
}

func (r *Runner) Inflight() int64 {
	return atomic.LoadInt64(&r.inflight)
}
