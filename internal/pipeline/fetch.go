package pipeline

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/model"
	"github.com/kurswerk/transkriptor/pkg/media"
)

// FetchTask drives the download phase. Success is the artifact existing on
// disk at the expected path after the collaborator returns, independent of
// its return value.
type FetchTask struct {
	Downloader media.Downloader
	AudioDir   string
}

func (t *FetchTask) Name() string { return "download" }

// Done skips items whose download is recorded ok and whose file survived;
// an ok entry with a missing file is re-attempted (self-healing).
func (t *FetchTask) Done(snap *checkpoint.Snapshot, item model.WorkItem) bool {
	return snap.FetchDone(item.Key)
}

func (t *FetchTask) Attempt(ctx context.Context, item model.WorkItem) (Outcome, error) {
	if _, err := t.Downloader.Download(ctx, string(item.Key), item.URL); err != nil {
		return nil, err
	}

	path := media.AudioPath(t.AudioDir, string(item.Key))
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.New("Datei nicht gefunden nach Download")
	}

	state := model.FetchState{Status: model.StatusOK, Path: path, SizeBytes: info.Size()}
	return func(snap *checkpoint.Snapshot) {
		snap.Downloaded[item.Key] = state
	}, nil
}

func (t *FetchTask) Fail(item model.WorkItem, msg string) Outcome {
	return func(snap *checkpoint.Snapshot) {
		snap.Downloaded[item.Key] = model.FetchState{Status: model.StatusError, Error: msg}
	}
}
