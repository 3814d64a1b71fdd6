package model

// PhaseStatus tags the per-phase state of an item. The zero value means the
// phase was never attempted.
type PhaseStatus string

const (
	StatusUnset PhaseStatus = ""
	StatusOK    PhaseStatus = "ok"
	StatusError PhaseStatus = "error"
)

// FetchState records the outcome of the download phase for one item.
// Stored in the checkpoint file under "downloaded".
type FetchState struct {
	Status    PhaseStatus `json:"status"`
	Path      string      `json:"path,omitempty"`
	SizeBytes int64       `json:"size_bytes,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// OK reports a completed download.
func (s FetchState) OK() bool { return s.Status == StatusOK }

// Failed reports a recorded download error.
func (s FetchState) Failed() bool { return s.Status == StatusError }

// TranscriptState records the outcome of the transcription phase for one
// item. Stored in the checkpoint file under "transcribed".
type TranscriptState struct {
	Status         PhaseStatus `json:"status"`
	Text           string      `json:"text,omitempty"`
	AudioSeconds   float64     `json:"audio_duration_s,omitempty"`
	ProcessSeconds float64     `json:"processing_time_s,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// OK reports a completed transcription.
func (s TranscriptState) OK() bool { return s.Status == StatusOK }

// Failed reports a recorded transcription error.
func (s TranscriptState) Failed() bool { return s.Status == StatusError }
