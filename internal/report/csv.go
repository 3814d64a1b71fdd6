package report

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/kurswerk/transkriptor/internal/model"
)

// WriteCSV writes the report rows as semicolon-delimited flat text with a
// UTF-8 BOM, so spreadsheet tools pick up the encoding and delimiter.
// Fields containing the delimiter, a quote, or a newline are quoted with
// embedded quotes doubled.
func WriteCSV(path string, rows []model.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create csv")
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.WriteString("\uFEFF"); err != nil {
		return eris.Wrap(err, "report: write bom")
	}

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(headers); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, row := range rows {
		if err := w.Write(rowValues(row)); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}
