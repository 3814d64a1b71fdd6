package model

// RowStatus is the final per-row verdict in the report. First match wins:
// a missing id beats everything, a finished transcript beats any stale
// earlier error, an unresolved download error beats a merely absent
// transcript so the earliest failing phase is what operators see.
type RowStatus string

const (
	RowNoIdentifier    RowStatus = "no_identifier"
	RowOK              RowStatus = "ok"
	RowFetchFailed     RowStatus = "fetch_failed"
	RowTransformFailed RowStatus = "transform_failed"
	RowNotProcessed    RowStatus = "not_processed"
)

// ReportRow joins one RowRef with the checkpoint state of its item.
// Computed fresh every run, never persisted.
type ReportRow struct {
	Ref    RowRef
	Status RowStatus

	// Text carries the transcript when Status is RowOK, or a
	// "[Fehler: ...]" placeholder for the failed statuses.
	Text string

	// AudioSeconds is only meaningful when Status is RowOK.
	AudioSeconds float64
}
