package pipeline

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/model"
	"github.com/kurswerk/transkriptor/pkg/whisper"
)

// TranscribeTask drives the transcription phase over items whose download
// completed. Paths maps each item to its recorded audio artifact; it is
// captured from the snapshot before the phase starts, since fetch states do
// not change while transcription runs.
type TranscribeTask struct {
	Transcriber whisper.Transcriber
	Paths       map[model.ItemKey]string
}

func (t *TranscribeTask) Name() string { return "transcribe" }

// Done skips items with a recorded transcript; the payload lives inline in
// the checkpoint, so no artifact verification applies.
func (t *TranscribeTask) Done(snap *checkpoint.Snapshot, item model.WorkItem) bool {
	return snap.TranscribeDone(item.Key)
}

func (t *TranscribeTask) Attempt(ctx context.Context, item model.WorkItem) (Outcome, error) {
	path := t.Paths[item.Key]
	if _, err := os.Stat(path); err != nil {
		return nil, eris.New("Audio-Datei nicht gefunden")
	}

	start := time.Now()
	res, err := t.Transcriber.Transcribe(ctx, path)
	if err != nil {
		return nil, err
	}

	state := model.TranscriptState{
		Status:         model.StatusOK,
		Text:           res.Text,
		AudioSeconds:   roundTenth(res.AudioSeconds),
		ProcessSeconds: roundTenth(time.Since(start).Seconds()),
	}
	return func(snap *checkpoint.Snapshot) {
		snap.Transcribed[item.Key] = state
	}, nil
}

func (t *TranscribeTask) Fail(item model.WorkItem, msg string) Outcome {
	return func(snap *checkpoint.Snapshot) {
		snap.Transcribed[item.Key] = model.TranscriptState{Status: model.StatusError, Error: msg}
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
