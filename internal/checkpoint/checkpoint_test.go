package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurswerk/transkriptor/internal/model"
)

func TestLoadMissingFileYieldsEmptySnapshot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Downloaded)
	assert.Empty(t, snap.Transcribed)
	assert.NotNil(t, snap.Downloaded)
	assert.NotNil(t, snap.Transcribed)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	snap := NewSnapshot()
	snap.Downloaded["100"] = model.FetchState{Status: model.StatusOK, Path: "/tmp/100.mp3", SizeBytes: 42}
	snap.Downloaded["200"] = model.FetchState{Status: model.StatusError, Error: "timeout"}
	snap.Transcribed["100"] = model.TranscriptState{
		Status: model.StatusOK, Text: "hallo", AudioSeconds: 12.5, ProcessSeconds: 3.1,
	}
	require.NoError(t, store.Save(snap))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.Downloaded, got.Downloaded)
	assert.Equal(t, snap.Transcribed, got.Transcribed)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "progress.json"))
	require.NoError(t, store.Save(NewSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "progress.json", entries[0].Name())
}

func TestSaveOverwritesWholeSnapshot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	first := NewSnapshot()
	first.Downloaded["100"] = model.FetchState{Status: model.StatusOK, Path: "a"}
	require.NoError(t, store.Save(first))

	second := NewSnapshot()
	second.Downloaded["200"] = model.FetchState{Status: model.StatusError, Error: "x"}
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	assert.NotContains(t, got.Downloaded, model.ItemKey("100"))
	assert.Contains(t, got.Downloaded, model.ItemKey("200"))
}

func TestLoadTolerantOfPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"downloaded": {}}`), 0o644))

	snap, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.NotNil(t, snap.Transcribed)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).Load()
	require.Error(t, err)
}

func TestFetchDoneVerifiesArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "100.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	snap := NewSnapshot()
	snap.Downloaded["100"] = model.FetchState{Status: model.StatusOK, Path: path}
	assert.True(t, snap.FetchDone("100"))

	// Externally deleted artifact invalidates the ok state.
	require.NoError(t, os.Remove(path))
	assert.False(t, snap.FetchDone("100"))
}

func TestFetchDoneFalseForErrorAndUnset(t *testing.T) {
	snap := NewSnapshot()
	assert.False(t, snap.FetchDone("100"))

	snap.Downloaded["100"] = model.FetchState{Status: model.StatusError, Error: "x"}
	assert.False(t, snap.FetchDone("100"))
}

func TestTranscribeDone(t *testing.T) {
	snap := NewSnapshot()
	assert.False(t, snap.TranscribeDone("100"))

	snap.Transcribed["100"] = model.TranscriptState{Status: model.StatusError, Error: "x"}
	assert.False(t, snap.TranscribeDone("100"))

	snap.Transcribed["100"] = model.TranscriptState{Status: model.StatusOK, Text: "hallo"}
	assert.True(t, snap.TranscribeDone("100"))
}

func TestRunLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	first := NewRunLock(path)
	require.NoError(t, first.Acquire())

	second := NewRunLock(path)
	err := second.Acquire()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another run")

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}
