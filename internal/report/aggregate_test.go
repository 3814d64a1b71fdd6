package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/model"
)

func ref(key model.ItemKey) model.RowRef {
	return model.RowRef{Row: 2, Kind: model.LinkShort, RawURL: "https://vimeo.com/" + string(key), Key: key}
}

func TestAggregateStatusPrecedence(t *testing.T) {
	snap := checkpoint.NewSnapshot()
	snap.Downloaded["ok"] = model.FetchState{Status: model.StatusOK, Path: "/a"}
	snap.Transcribed["ok"] = model.TranscriptState{Status: model.StatusOK, Text: "hallo", AudioSeconds: 9.5}

	snap.Downloaded["fetchfail"] = model.FetchState{Status: model.StatusError, Error: "timeout"}

	snap.Downloaded["stale"] = model.FetchState{Status: model.StatusError, Error: "alt"}
	snap.Transcribed["stale"] = model.TranscriptState{Status: model.StatusOK, Text: "doch da"}

	snap.Downloaded["tfail"] = model.FetchState{Status: model.StatusOK, Path: "/b"}
	snap.Transcribed["tfail"] = model.TranscriptState{Status: model.StatusError, Error: "codec"}

	tests := []struct {
		name   string
		ref    model.RowRef
		status model.RowStatus
		text   string
	}{
		{"no identifier", model.RowRef{Row: 2, Kind: model.LinkShort, RawURL: "https://vimeo.com/event/x"}, model.RowNoIdentifier, ""},
		{"transcript ok", ref("ok"), model.RowOK, "hallo"},
		{"fetch failed", ref("fetchfail"), model.RowFetchFailed, "[Fehler: timeout]"},
		{"success beats stale fetch error", ref("stale"), model.RowOK, "doch da"},
		{"transform failed", ref("tfail"), model.RowTransformFailed, "[Fehler: codec]"},
		{"never attempted", ref("unseen"), model.RowNotProcessed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Aggregate([]model.RowRef{tt.ref}, snap)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.status, rows[0].Status)
			assert.Equal(t, tt.text, rows[0].Text)
		})
	}
}

// A fetch error must win over an absent transcript state, never be reported
// as not_processed.
func TestFetchErrorBeatsUnsetTranscript(t *testing.T) {
	snap := checkpoint.NewSnapshot()
	snap.Downloaded["200"] = model.FetchState{Status: model.StatusError, Error: "timeout"}

	rows := Aggregate([]model.RowRef{ref("200")}, snap)
	assert.Equal(t, model.RowFetchFailed, rows[0].Status)
}

// Two refs sharing one item produce identical status and payload.
func TestFanOutSharedItem(t *testing.T) {
	snap := checkpoint.NewSnapshot()
	snap.Transcribed["100"] = model.TranscriptState{Status: model.StatusOK, Text: "hallo", AudioSeconds: 30}

	short := ref("100")
	long := short
	long.Kind = model.LinkLong

	rows := Aggregate([]model.RowRef{short, long}, snap)
	require.Len(t, rows, 2)
	assert.Equal(t, rows[0].Status, rows[1].Status)
	assert.Equal(t, rows[0].Text, rows[1].Text)
	assert.Equal(t, rows[0].AudioSeconds, rows[1].AudioSeconds)
}

func TestEmptyErrorMessagePlaceholder(t *testing.T) {
	snap := checkpoint.NewSnapshot()
	snap.Downloaded["100"] = model.FetchState{Status: model.StatusError}

	rows := Aggregate([]model.RowRef{ref("100")}, snap)
	assert.Equal(t, "[Fehler: ?]", rows[0].Text)
}

func TestAggregatePreservesInputOrder(t *testing.T) {
	snap := checkpoint.NewSnapshot()
	refs := []model.RowRef{ref("3"), ref("1"), ref("2")}

	rows := Aggregate(refs, snap)
	require.Len(t, rows, 3)
	for i := range refs {
		assert.Equal(t, refs[i].Key, rows[i].Ref.Key)
	}
}
