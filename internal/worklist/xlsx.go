// Package worklist reads the exercise worklist and extracts deduplicated
// video work items from its link columns.
package worklist

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Options configures the worksheet reader.
type Options struct {
	SheetName string // if empty, the first sheet is used
	SkipRows  int    // number of header rows to skip
}

// Read returns all data rows of the worksheet as string slices, in sheet
// order. Row indices in the result are offset by SkipRows relative to the
// worksheet.
func Read(path string, opts Options) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "worklist: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func getSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("worklist: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("worklist: file has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
