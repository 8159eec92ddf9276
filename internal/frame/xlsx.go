package frame

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads the first sheet of an XLSX workbook into a frame, treating
// the first row as the header. Column types are inferred the same way as for
// CSV input.
func ReadXLSX(path string) (*Frame, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "frame: open xlsx")
	}
	if len(wb.Sheets) == 0 {
		return New(), nil
	}
	sheet := wb.Sheets[0]

	var header []string
	var cells [][]string
	for i, row := range sheet.Rows {
		fields := rowToStrings(row)
		if i == 0 {
			header = fields
			cells = make([][]string, len(header))
			continue
		}
		for c := range header {
			var v string
			if c < len(fields) {
				v = fields[c]
			}
			cells[c] = append(cells[c], v)
		}
	}
	if len(header) == 0 {
		return New(), nil
	}

	return fromRecords(header, cells), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
