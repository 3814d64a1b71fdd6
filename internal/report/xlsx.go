package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/kurswerk/transkriptor/internal/model"
)

const sheetName = "Transkripte"

var headers = []string{
	"Order", "Modul", "Bereich", "Kategorie", "Uebung",
	"Link_Typ", "URL", "Vimeo_ID", "Audio_Dauer_s", "Transkript", "Status",
}

var columnWidths = []float64{8, 8, 15, 25, 40, 8, 45, 12, 14, 80, 22}

// WriteXLSX writes the report rows to an Excel file, one worksheet row per
// RowRef, in input order.
func WriteXLSX(path string, rows []model.ReportRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	bold := xlsx.NewStyle()
	bold.Font.Bold = true
	bold.ApplyFont = true

	head := sheet.AddRow()
	for _, h := range headers {
		c := head.AddCell()
		c.SetString(h)
		c.SetStyle(bold)
	}

	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range rowValues(row) {
			r.AddCell().SetString(v)
		}
	}

	for i, w := range columnWidths {
		sheet.SetColWidth(i, i, w)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save xlsx")
	}
	return nil
}

// rowValues renders one report row as the shared column layout used by both
// the Excel and the CSV writer.
func rowValues(row model.ReportRow) []string {
	duration := ""
	if row.Status == model.RowOK {
		duration = fmt.Sprintf("%.1f", row.AudioSeconds)
	}
	return []string{
		row.Ref.Order,
		row.Ref.Module,
		row.Ref.Area,
		row.Ref.Category,
		row.Ref.Exercise,
		string(row.Ref.Kind),
		row.Ref.RawURL,
		string(row.Ref.Key),
		duration,
		row.Text,
		string(row.Status),
	}
}
