package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kurswerk/transkriptor/internal/store"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs and their phase counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := store.Open(cfg.Output.HistoryPath())
		if err != nil {
			return err
		}
		defer history.Close()

		runs, err := history.RecentRuns(cmd.Context(), statusLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded yet")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			completed, skipped, failed := 0, 0, 0
			phases, err := history.Phases(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			for _, ph := range phases {
				completed += ph.Completed
				skipped += ph.Skipped
				failed += ph.Failed
			}

			finished := "-"
			if run.FinishedAt.Valid {
				finished = run.FinishedAt.Time.Local().Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				run.StartedAt.Local().Format("2006-01-02 15:04"),
				finished,
				run.Status,
				run.Model,
				strconv.Itoa(completed),
				strconv.Itoa(skipped),
				strconv.Itoa(failed),
			})
		}

		headers := []string{"Started", "Finished", "Status", "Model", "Completed", "Skipped", "Failed"}
		aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}
		fmt.Println(renderTable(headers, rows, aligns))
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}
