package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kurswerk/transkriptor/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "transkriptor",
	Short: "Resumable video transcript pipeline",
	Long:  "Reads video links from an Excel worklist, downloads their audio tracks, transcribes them with a Whisper model, and writes an Excel + CSV report. Interrupted runs resume without repeating finished work.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
