package frame

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultChunkRows is the row batch size for incremental CSV writes.
const DefaultChunkRows = 50000

// ReadCSV reads a header-rowed CSV into a frame. Exports are comma-delimited
// and nominally UTF-8; a leading BOM (UTF-8 or UTF-16) is tolerated. Empty
// fields become missing, ragged rows are padded, and each column's type is
// inferred after the read: all non-missing values parse as floats → number.
func ReadCSV(r io.Reader) (*Frame, error) {
	dec := unicode.BOMOverride(encoding.Nop.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "frame: read CSV header")
	}

	cells := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		for i := range header {
			var v string
			if i < len(record) {
				v = record[i]
			}
			cells[i] = append(cells[i], v)
		}
	}

	return fromRecords(header, cells), nil
}

// fromRecords builds a typed frame from raw string columns. Duplicate header
// names keep their first occurrence.
func fromRecords(header []string, cells [][]string) *Frame {
	f := New()
	for i, rawName := range header {
		name := strings.TrimSpace(rawName)
		if f.HasColumn(name) {
			continue
		}
		vals := make([]Scalar, len(cells[i]))
		kind := KindText
		numeric := true
		seen := false
		for j, raw := range cells[i] {
			if strings.TrimSpace(raw) == "" {
				vals[j] = Missing()
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
				numeric = false
			}
			vals[j] = Text(raw)
		}
		if numeric && seen {
			kind = KindNumber
			for j := range vals {
				if vals[j].IsMissing() {
					continue
				}
				v, _ := vals[j].Float()
				vals[j] = Number(v)
			}
		}
		f.cols = append(f.cols, Column{Name: name, Kind: kind, Values: vals})
		f.byName[name] = len(f.cols) - 1
	}
	return f
}

// WriteCSV writes the frame as CSV in fixed-size row chunks, flushing after
// each chunk so large wide tables never buffer fully. The header is written
// once, before the first chunk.
func WriteCSV(w io.Writer, f *Frame, chunkRows int) error {
	if chunkRows <= 0 {
		chunkRows = DefaultChunkRows
	}
	cw := csv.NewWriter(w)

	if err := cw.Write(f.Columns()); err != nil {
		return eris.Wrap(err, "frame: write CSV header")
	}

	record := make([]string, f.NumCols())
	for r := 0; r < f.NumRows(); r++ {
		for i := 0; i < f.NumCols(); i++ {
			record[i] = f.ColumnAt(i).Values[r].String()
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "frame: write CSV row %d", r)
		}
		if (r+1)%chunkRows == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return eris.Wrap(err, "frame: flush CSV chunk")
			}
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "frame: flush CSV")
}
