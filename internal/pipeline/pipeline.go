// Package pipeline contains the phase runner and the orchestrator that
// sequences registry, download, transcribe, and report over one worklist.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/config"
	"github.com/kurswerk/transkriptor/internal/model"
	"github.com/kurswerk/transkriptor/internal/report"
	"github.com/kurswerk/transkriptor/internal/store"
	"github.com/kurswerk/transkriptor/internal/worklist"
	"github.com/kurswerk/transkriptor/pkg/media"
	"github.com/kurswerk/transkriptor/pkg/whisper"
)

// Options are the per-run phase directives.
type Options struct {
	SkipDownload   bool
	SkipTranscribe bool
}

// Summary is what one run produced, for operator-facing output only.
type Summary struct {
	Refs       int
	Items      int
	Download   Counters
	Transcribe Counters
	RowsOK     int
	RowsFailed int
	ExcelPath  string
	CSVPath    string
}

// Pipeline owns the checkpoint lifecycle and sequences the phases. Phases
// run strictly in order: transcription consumes the download artifacts.
type Pipeline struct {
	cfg         *config.Config
	store       *checkpoint.Store
	history     *store.History // optional telemetry, may be nil
	downloader  media.Downloader
	transcriber whisper.Transcriber
}

// New creates a Pipeline with all dependencies. history may be nil.
func New(cfg *config.Config, cp *checkpoint.Store, history *store.History, dl media.Downloader, tr whisper.Transcriber) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		store:       cp,
		history:     history,
		downloader:  dl,
		transcriber: tr,
	}
}

// Run executes the full pipeline over the parsed row references: load the
// checkpoint under a run-scoped lock, run the phases that are not skipped,
// join the final state back onto the rows, and write both reports.
func (p *Pipeline) Run(ctx context.Context, worklistPath string, refs []model.RowRef, opts Options) (*Summary, error) {
	log := zap.L()

	items := worklist.Items(refs)
	log.Info("worklist parsed",
		zap.Int("refs", len(refs)),
		zap.Int("unique_items", len(items)),
	)

	lock := checkpoint.NewRunLock(p.store.Path())
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn("failed to release run lock", zap.Error(err))
		}
	}()

	snap, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	runID := p.startHistory(ctx, worklistPath)
	summary := &Summary{Refs: len(refs), Items: len(items)}

	// Phase 1: download.
	if opts.SkipDownload {
		log.Info("download phase skipped")
		if err := p.adoptExistingAudio(snap); err != nil {
			return nil, err
		}
	} else {
		runner := &Runner{Store: p.store, Workers: p.cfg.Download.Workers}
		task := &FetchTask{Downloader: p.downloader, AudioDir: p.cfg.Output.AudioDir()}
		counters, err := runner.Run(ctx, snap, items, task)
		summary.Download = counters
		p.recordPhase(ctx, runID, task.Name(), counters)
		if err != nil {
			p.finishHistory(ctx, runID, "aborted")
			return summary, err
		}
	}

	// Phase 2: transcribe, only over items whose download completed.
	if opts.SkipTranscribe {
		log.Info("transcribe phase skipped")
	} else {
		titems, paths := transcribable(items, snap)
		runner := &Runner{Store: p.store, Workers: p.cfg.Transcribe.Workers}
		task := &TranscribeTask{Transcriber: p.transcriber, Paths: paths}
		counters, err := runner.Run(ctx, snap, titems, task)
		summary.Transcribe = counters
		p.recordPhase(ctx, runID, task.Name(), counters)
		if err != nil {
			p.finishHistory(ctx, runID, "aborted")
			return summary, err
		}
	}

	// Join the final state back onto the rows and write both reports.
	rows := report.Aggregate(refs, snap)
	for _, row := range rows {
		if row.Status == model.RowOK {
			summary.RowsOK++
		} else {
			summary.RowsFailed++
		}
	}

	summary.ExcelPath = p.cfg.Output.ExcelPath()
	summary.CSVPath = p.cfg.Output.CSVPath()
	if err := report.WriteXLSX(summary.ExcelPath, rows); err != nil {
		p.finishHistory(ctx, runID, "aborted")
		return summary, err
	}
	if err := report.WriteCSV(summary.CSVPath, rows); err != nil {
		p.finishHistory(ctx, runID, "aborted")
		return summary, err
	}

	p.finishHistory(ctx, runID, "complete")
	log.Info("run complete",
		zap.Int("rows_ok", summary.RowsOK),
		zap.Int("rows_failed", summary.RowsFailed),
		zap.String("excel", summary.ExcelPath),
		zap.String("csv", summary.CSVPath),
	)
	return summary, nil
}

// transcribable filters items down to those with a completed download,
// preserving first-seen order so both phases walk the same sequence, and
// captures each item's artifact path.
func transcribable(items []model.WorkItem, snap *checkpoint.Snapshot) ([]model.WorkItem, map[model.ItemKey]string) {
	var out []model.WorkItem
	paths := make(map[model.ItemKey]string)
	for _, item := range items {
		st := snap.Downloaded[item.Key]
		if !st.OK() {
			continue
		}
		out = append(out, item)
		paths[item.Key] = st.Path
	}
	return out, paths
}

// adoptExistingAudio reconciles the audio directory into the snapshot when
// the download phase is skipped: an mp3 dropped in by hand (or by an
// earlier run with a lost checkpoint) counts as downloaded.
func (p *Pipeline) adoptExistingAudio(snap *checkpoint.Snapshot) error {
	dir := p.cfg.Output.AudioDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrap(err, "pipeline: read audio dir")
	}

	adopted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".mp3") {
			continue
		}
		key := model.ItemKey(strings.TrimSuffix(name, ".mp3"))
		if snap.Downloaded[key].OK() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snap.Downloaded[key] = model.FetchState{
			Status:    model.StatusOK,
			Path:      filepath.Join(dir, name),
			SizeBytes: info.Size(),
		}
		adopted++
	}

	if adopted == 0 {
		return nil
	}
	zap.L().Info("adopted existing audio files", zap.Int("count", adopted))
	return p.store.Save(snap)
}

func (p *Pipeline) startHistory(ctx context.Context, worklistPath string) string {
	if p.history == nil {
		return ""
	}
	runID, err := p.history.StartRun(ctx, worklistPath, p.cfg.Transcribe.Model)
	if err != nil {
		zap.L().Warn("failed to record run start", zap.Error(err))
		return ""
	}
	return runID
}

func (p *Pipeline) recordPhase(ctx context.Context, runID, name string, c Counters) {
	if p.history == nil || runID == "" {
		return
	}
	// Counters still get recorded when the run was cancelled.
	ctx = context.WithoutCancel(ctx)
	if err := p.history.RecordPhase(ctx, runID, name, c.Completed, c.Skipped, c.Failed); err != nil {
		zap.L().Warn("failed to record phase counters", zap.Error(err))
	}
}

func (p *Pipeline) finishHistory(ctx context.Context, runID, status string) {
	if p.history == nil || runID == "" {
		return
	}
	if err := p.history.FinishRun(context.WithoutCancel(ctx), runID, status); err != nil {
		zap.L().Warn("failed to record run finish", zap.Error(err))
	}
}
