// Package report joins row references back onto per-item checkpoint state
// and writes the final Excel and CSV reports.
package report

import (
	"fmt"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/model"
)

// Aggregate computes one ReportRow per RowRef from the final snapshot.
// The status decision is ordered, first match wins:
//
//  1. no extractable video id
//  2. transcript ok (wins over any stale download error for the same item)
//  3. download error (reported even when the transcript state is merely
//     absent, so the earliest failing phase is visible)
//  4. transcript error
//  5. never attempted
func Aggregate(refs []model.RowRef, snap *checkpoint.Snapshot) []model.ReportRow {
	rows := make([]model.ReportRow, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, aggregateOne(ref, snap))
	}
	return rows
}

func aggregateOne(ref model.RowRef, snap *checkpoint.Snapshot) model.ReportRow {
	row := model.ReportRow{Ref: ref}

	if !ref.HasKey() {
		row.Status = model.RowNoIdentifier
		return row
	}

	ts := snap.Transcribed[ref.Key]
	fs := snap.Downloaded[ref.Key]

	switch {
	case ts.OK():
		row.Status = model.RowOK
		row.Text = ts.Text
		row.AudioSeconds = ts.AudioSeconds
	case fs.Failed():
		row.Status = model.RowFetchFailed
		row.Text = errorPlaceholder(fs.Error)
	case ts.Failed():
		row.Status = model.RowTransformFailed
		row.Text = errorPlaceholder(ts.Error)
	default:
		row.Status = model.RowNotProcessed
	}
	return row
}

func errorPlaceholder(msg string) string {
	if msg == "" {
		msg = "?"
	}
	return fmt.Sprintf("[Fehler: %s]", msg)
}
