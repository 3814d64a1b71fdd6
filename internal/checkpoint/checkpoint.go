// Package checkpoint persists per-item phase outcomes as a single JSON
// snapshot, rewritten wholesale after every item transition. A crash mid-run
// loses at most the in-flight item.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/kurswerk/transkriptor/internal/model"
)

// Snapshot is the full checkpoint content: one entry per item key and phase.
type Snapshot struct {
	Downloaded  map[model.ItemKey]model.FetchState      `json:"downloaded"`
	Transcribed map[model.ItemKey]model.TranscriptState `json:"transcribed"`
}

// NewSnapshot returns an empty snapshot with both phase maps allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Downloaded:  make(map[model.ItemKey]model.FetchState),
		Transcribed: make(map[model.ItemKey]model.TranscriptState),
	}
}

// FetchDone reports whether the download phase may be skipped for key:
// the recorded state is ok and the artifact still exists on disk. A stale
// ok entry whose file was deleted externally counts as not done, so the
// next run re-attempts it.
func (s *Snapshot) FetchDone(key model.ItemKey) bool {
	st, ok := s.Downloaded[key]
	if !ok || !st.OK() {
		return false
	}
	if _, err := os.Stat(st.Path); err != nil {
		return false
	}
	return true
}

// TranscribeDone reports whether the transcription phase may be skipped for
// key. The transcript payload lives inline in the snapshot, so an ok state
// needs no artifact verification.
func (s *Snapshot) TranscribeDone(key model.ItemKey) bool {
	st, ok := s.Transcribed[key]
	return ok && st.OK()
}

// Store loads and saves checkpoint snapshots at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store persisting to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot from disk. A missing file yields an empty
// snapshot, never an error.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return nil, eris.Wrap(err, "checkpoint: read")
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, eris.Wrap(err, "checkpoint: parse")
	}
	if snap.Downloaded == nil {
		snap.Downloaded = make(map[model.ItemKey]model.FetchState)
	}
	if snap.Transcribed == nil {
		snap.Transcribed = make(map[model.ItemKey]model.TranscriptState)
	}
	return snap, nil
}

// Save writes the whole snapshot durably. The write goes to a temp file in
// the same directory followed by a rename, so a reader only ever observes
// the previous snapshot or the new one, never a torn write.
func (s *Store) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return eris.Wrap(err, "checkpoint: marshal")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "checkpoint: create dir")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "checkpoint: create temp")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: write temp")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: sync temp")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: close temp")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: rename")
	}
	return nil
}
