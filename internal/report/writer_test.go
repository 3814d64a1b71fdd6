package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/kurswerk/transkriptor/internal/model"
)

func sampleReportRows() []model.ReportRow {
	return []model.ReportRow{
		{
			Ref: model.RowRef{
				Row: 2, Order: "1", Module: "M5", Area: "Basis", Category: "Atmung",
				Exercise: "Uebung A", Kind: model.LinkShort,
				RawURL: "https://vimeo.com/100", Key: "100",
			},
			Status: model.RowOK, Text: "hallo welt", AudioSeconds: 42.5,
		},
		{
			Ref: model.RowRef{
				Row: 3, Order: "2", Module: "M5", Exercise: "Uebung B", Kind: model.LinkLong,
				RawURL: "https://vimeo.com/200", Key: "200",
			},
			Status: model.RowFetchFailed, Text: "[Fehler: timeout]",
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ergebnisse.xlsx")
	require.NoError(t, WriteXLSX(path, sampleReportRows()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Transkripte"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Order", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Vimeo_ID", sheet.Rows[0].Cells[7].String())
	assert.Equal(t, "Status", sheet.Rows[0].Cells[10].String())

	assert.Equal(t, "hallo welt", sheet.Rows[1].Cells[9].String())
	assert.Equal(t, "42.5", sheet.Rows[1].Cells[8].String())
	assert.Equal(t, "ok", sheet.Rows[1].Cells[10].String())

	// Failed row: no duration, placeholder text.
	assert.Equal(t, "", sheet.Rows[2].Cells[8].String())
	assert.Equal(t, "[Fehler: timeout]", sheet.Rows[2].Cells[9].String())
	assert.Equal(t, "fetch_failed", sheet.Rows[2].Cells[10].String())
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ergebnisse.csv")
	require.NoError(t, WriteCSV(path, sampleReportRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "\uFEFF"))

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(content, "\uFEFF"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(headers, ";"), lines[0])
	assert.Contains(t, lines[1], "hallo welt")
	assert.Contains(t, lines[2], "[Fehler: timeout]")
}

func TestWriteCSVQuoting(t *testing.T) {
	rows := []model.ReportRow{
		{
			Ref:    model.RowRef{Exercise: `Uebung; mit "Anfuehrung"`, Kind: model.LinkShort, Key: "100"},
			Status: model.RowOK, Text: "Zeile eins\nZeile zwei", AudioSeconds: 1,
		},
	}
	path := filepath.Join(t.TempDir(), "ergebnisse.csv")
	require.NoError(t, WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	// Delimiter and quote characters force quoting with doubled quotes.
	assert.Contains(t, content, `"Uebung; mit ""Anfuehrung"""`)
	// Embedded newline stays inside one quoted field.
	assert.Contains(t, content, "\"Zeile eins\nZeile zwei\"")
}
