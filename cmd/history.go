package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hellod/internal/styles"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List earlier probe runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println(styles.Subtle.Render("No probe runs recorded."))
			return nil
		}
		if historyLimit > 0 && len(runs) > historyLimit {
			runs = runs[:historyLimit]
		}

		fmt.Printf("%-20s %-6s %8s %8s %8s %9s  %s\n", "TIME", "STATUS", "REQS", "OK", "BAD", "P99(ms)", "URL")
		for _, run := range runs {
			fmt.Printf("%-20s %-6s %8d %8d %8d %9.2f  %s\n",
				run.Timestamp.Local().Format("2006-01-02 15:04:05"),
				styles.Status(run.Passed()),
				run.Requests,
				run.Success,
				run.Mismatch+run.Fail,
				run.P99Ms,
				run.URL,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&dbPath, "db", "", "History database (default $HOME/.hellod/history.db)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum runs to show (0 for all)")
}
