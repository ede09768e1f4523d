package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hellod/internal/probe"
	"hellod/internal/storage"
	"hellod/internal/styles"
)

var (
	probeURL         string
	probeRequests    int
	probeConcurrency int
	probeTimeout     time.Duration
	probeNoSave      bool
	dbPath           string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send GET / to a running server and check every reply",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := probe.Config{
			URL:         targetURL(viper.GetViper(), probeURL),
			Requests:    probeRequests,
			Concurrency: probeConcurrency,
			Timeout:     probeTimeout,
		}

		r := probe.NewRunner(cfg)
		printHeader(r.Cfg)
		report := runWithProgress(cmd.Context(), r)
		printSummary(report)

		if !probeNoSave {
			if err := saveRun(report); err != nil {
				fmt.Println(styles.Warn.Render("⚠️  history not saved: " + err.Error()))
			}
		}

		if !report.Passed() {
			return fmt.Errorf("probe failed: %d of %d requests did not get the greeting",
				report.Missing(), report.Config.Requests)
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVarP(&probeURL, "url", "u", "", "Target URL (default http://localhost:<port>/)")
	probeCmd.Flags().IntVarP(&probeRequests, "requests", "n", 100, "Number of requests")
	probeCmd.Flags().IntVarP(&probeConcurrency, "concurrency", "c", 10, "Concurrent workers")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 10*time.Second, "Per-request timeout")
	probeCmd.Flags().BoolVar(&probeNoSave, "no-save", false, "Do not record the run in history")
	probeCmd.Flags().StringVar(&dbPath, "db", "", "History database (default $HOME/.hellod/history.db)")
}

func targetURL(v *viper.Viper, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return fmt.Sprintf("http://localhost:%d/", v.GetInt("port"))
}

func openStore() (*storage.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		if path, err = storage.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return storage.Open(path)
}

func saveRun(report probe.Report) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(storage.FromReport(report))
}

// runWithProgress runs r and redraws a one-line progress bar until it ends.
func runWithProgress(ctx context.Context, r *probe.Runner) probe.Report {
	done := make(chan probe.Report, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	start := time.Now()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case report := <-done:
			fmt.Printf("\r%s\n\n", progressLine(r, time.Since(start)))
			return report
		case <-ticker.C:
			fmt.Printf("\r%s", progressLine(r, time.Since(start)))
		}
	}
}

func progressLine(r *probe.Runner, elapsed time.Duration) string {
	s := r.Stats
	completed := atomic.LoadUint64(&s.Requests)

	pct := float64(completed) / float64(r.Cfg.Requests)
	if pct > 1.0 {
		pct = 1.0
	}

	rps := 0.0
	if elapsed.Seconds() > 0 {
		rps = float64(completed) / elapsed.Seconds()
	}

	return fmt.Sprintf("%s %3.0f%% | %d/%d | Inf: %3d | RPS: %.1f | OK: %d | Err: %.1f%%",
		progressBar(pct, 20), pct*100,
		completed, r.Cfg.Requests,
		r.Inflight(),
		rps,
		atomic.LoadUint64(&s.Success),
		s.ErrorRate(),
	)
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func printHeader(cfg probe.Config) {
	fmt.Printf("\n%s\n", styles.Title.Render("🚀 PROBING "+cfg.URL))
	fmt.Printf("======================================================================\n")
	fmt.Printf("Requests    : %d\n", cfg.Requests)
	fmt.Printf("Concurrency : %d\n", cfg.Concurrency)
	fmt.Printf("Timeout     : %s\n", cfg.Timeout)
	fmt.Printf("======================================================================\n\n")
}

func printSummary(r probe.Report) {
	fmt.Printf("📊 RESULT %s  (run %s)\n", styles.Status(r.Passed()), r.ID)
	fmt.Printf("======================================================================\n")
	fmt.Printf("Duration   : %s\n", r.Duration.Round(time.Millisecond))
	fmt.Printf("Requests   : %d\n", r.Requests)
	fmt.Printf("Greeting   : %s\n", styles.Value.Render(fmt.Sprint(r.Success)))
	fmt.Printf("Mismatch   : %d\n", r.Mismatch)
	fmt.Printf("Failures   : %d\n", r.Fail)
	fmt.Printf("Actual RPS : %.2f\n", r.RPS())
	fmt.Printf("\n⏱️  RESPONSE TIMES (ms) [Greeting Only]\n")
	fmt.Printf("   P50  : %.2f\n", r.P50Ms)
	fmt.Printf("   P90  : %.2f\n", r.P90Ms)
	fmt.Printf("   P99  : %.2f\n", r.P99Ms)
	fmt.Printf("   Max  : %.2f\n", r.MaxMs)
	fmt.Printf("   Mean : %.2f\n", r.MeanMs)

	if len(r.Errors) > 0 {
		fmt.Printf("\n❌ FAILURE SUMMARY\n")
		reasons := make([]string, 0, len(r.Errors))
		for reason := range r.Errors {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Printf("   %d x %s\n", r.Errors[reason], styles.Error.Render(reason))
		}
	}
	fmt.Printf("======================================================================\n")
}
