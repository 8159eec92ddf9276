package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// legacyEventColumn appears in older exports in place of EVENT_ID.
const legacyEventColumn = "CLINICAL_EVENT"

// ReadTable loads one CSV or XLSX file and applies the shaping every
// source table gets: the legacy visit column is renamed to EVENT_ID
// and subject identifiers are rendered as text with the study prefix
// stripped.
func ReadTable(path string) (*frame.Frame, error) {
	var f *frame.Frame
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		var err error
		f, err = frame.ReadXLSX(path)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: read %s", filepath.Base(path))
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: open %s", filepath.Base(path))
		}
		f, err = frame.ReadCSV(file)
		file.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "loader: read %s", filepath.Base(path))
		}
	}
	if f.HasColumn(legacyEventColumn) && !f.HasColumn(EventColumn) {
		f.Rename(legacyEventColumn, EventColumn)
	}
	consolidate.NormalizeSubject(f, SubjectColumn, consolidate.SubjectPrefix)
	return f, nil
}
