package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/pipeline"
	"github.com/kurswerk/transkriptor/internal/store"
	"github.com/kurswerk/transkriptor/internal/worklist"
	"github.com/kurswerk/transkriptor/pkg/media"
	"github.com/kurswerk/transkriptor/pkg/whisper"
)

var (
	runWorklist          string
	runModel             string
	runSkipDownload      bool
	runSkipTranscribe    bool
	runDownloadWorkers   int
	runTranscribeWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the worklist: download, transcribe, report",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zap.L()

		path, err := locateWorklist(runWorklist)
		if err != nil {
			return err
		}
		log.Info("using worklist", zap.String("path", path))

		if runModel != "" {
			cfg.Transcribe.Model = runModel
		}
		if cmd.Flags().Changed("download-workers") {
			cfg.Download.Workers = runDownloadWorkers
		}
		if cmd.Flags().Changed("transcribe-workers") {
			cfg.Transcribe.Workers = runTranscribeWorkers
		}

		rows, err := worklist.Read(path, worklist.Options{
			SheetName: cfg.Worklist.Sheet,
			SkipRows:  cfg.Worklist.SkipRows,
		})
		if err != nil {
			return err
		}
		refs := worklist.Parse(rows, cfg.Worklist.SkipRows+1)

		if err := os.MkdirAll(cfg.Output.AudioDir(), 0o755); err != nil {
			return eris.Wrap(err, "create output dirs")
		}

		history, err := store.Open(cfg.Output.HistoryPath())
		if err != nil {
			log.Warn("run history unavailable", zap.Error(err))
			history = nil
		} else {
			defer history.Close()
		}

		downloader := media.NewYTDLP(cfg.Download.Binary, cfg.Output.AudioDir(), cfg.Download.PerMinute)
		transcriber := whisper.NewCLI(cfg.Transcribe.Binary, cfg.Transcribe.Model, cfg.Transcribe.Language, cfg.Output.AudioDir())
		transcriber.Device = cfg.Transcribe.Device

		cp := checkpoint.NewStore(cfg.Output.CheckpointPath())
		p := pipeline.New(cfg, cp, history, downloader, transcriber)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary, err := p.Run(ctx, path, refs, pipeline.Options{
			SkipDownload:   runSkipDownload,
			SkipTranscribe: runSkipTranscribe,
		})
		if err != nil {
			return err
		}

		log.Info("summary",
			zap.Int("refs", summary.Refs),
			zap.Int("unique_items", summary.Items),
			zap.Int("downloaded", summary.Download.Completed),
			zap.Int("transcribed", summary.Transcribe.Completed),
			zap.Int("rows_ok", summary.RowsOK),
			zap.Int("rows_failed", summary.RowsFailed),
		)
		return nil
	},
}

// locateWorklist resolves the worklist path: the explicit flag, the
// configured filename in the working directory or ~/Downloads, then any
// .xlsx in the working directory matching the configured marker. Excel's
// own "~" temp files are never picked up.
func locateWorklist(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", eris.Wrapf(err, "worklist not found at %s", explicit)
		}
		return explicit, nil
	}

	if name := cfg.Worklist.Filename; name != "" {
		candidates := []string{name}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, "Downloads", name))
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
		}
	}

	entries, err := os.ReadDir(".")
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~") {
				continue
			}
			if cfg.Worklist.Marker != "" && !strings.Contains(name, cfg.Worklist.Marker) {
				continue
			}
			return name, nil
		}
	}

	return "", eris.New("no worklist found: pass --worklist or set worklist.filename in the config")
}

func init() {
	runCmd.Flags().StringVar(&runWorklist, "worklist", "", "path to the Excel worklist (searched automatically if empty)")
	runCmd.Flags().StringVar(&runModel, "model", "", "whisper model size: tiny, small, medium, large-v3")
	runCmd.Flags().BoolVar(&runSkipDownload, "skip-download", false, "skip the download phase (audio files must already exist)")
	runCmd.Flags().BoolVar(&runSkipTranscribe, "skip-transcribe", false, "skip the transcription phase (download only)")
	runCmd.Flags().IntVar(&runDownloadWorkers, "download-workers", 1, "concurrent downloads")
	runCmd.Flags().IntVar(&runTranscribeWorkers, "transcribe-workers", 1, "concurrent transcriptions")
	rootCmd.AddCommand(runCmd)
}
