package clean

import (
	_ "embed"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cohort-cli/internal/frame"
)

// Columns of the concomitant medication log.
const (
	indicationCode = "CMINDC"
	indicationText = "CMINDC_TEXT"
	treatmentName  = "CMTRT"
)

// codeOther is the catch-all indication for text nothing else matches.
const codeOther = 25

//go:embed indications.yaml
var indicationsYAML []byte

// indicationTable holds the indication codes and the lookups used to
// map free-text indications onto them.
type indicationTable struct {
	Indications map[int]string   `yaml:"indications"`
	Treatments  map[string]int   `yaml:"treatments"`
	Exact       map[string]int   `yaml:"exact"`
	Fragments   map[int][]string `yaml:"fragments"`

	codes []int // Fragments keys in ascending order
}

func loadIndications() *indicationTable {
	var t indicationTable
	if err := yaml.Unmarshal(indicationsYAML, &t); err != nil {
		panic(err)
	}
	for code := range t.Fragments {
		t.codes = append(t.codes, code)
	}
	sort.Ints(t.codes)
	return &t
}

// mapText resolves a free-text indication to a code. Zero means no
// match.
func (t *indicationTable) mapText(text string) int {
	if code, ok := t.Exact[text]; ok {
		return code
	}
	// The correct label is sometimes spelled out in the text itself.
	for _, code := range t.codes {
		label := strings.ToLower(t.Indications[code])
		if label != "other" && strings.Contains(label, text) {
			return code
		}
	}
	for _, code := range t.codes {
		for _, frag := range t.Fragments[code] {
			if strings.Contains(text, frag) {
				return code
			}
		}
	}
	return 0
}

// ConcomitantMedications returns a cleaned copy of the concomitant
// medication log. Start and stop dates are normalized, every entry
// ends up with an indication code, and the indication text is rewritten
// to the canonical label for that code. Entries whose free text matches
// nothing are coded Other.
func ConcomitantMedications(f *frame.Frame) *frame.Frame {
	out := f.Clone()
	noStart := normalizeMonthDates(out, startDateColumn)
	noStop := normalizeMonthDates(out, stopDateColumn)
	zap.L().Info("concomitant medication dates",
		zap.Int("no_start_date", noStart), zap.Int("no_stop_date", noStop))

	if !out.HasColumn(indicationCode) {
		zap.L().Warn("concomitant medication log has no indication column")
		return out
	}
	if !out.HasColumn(indicationText) {
		out.AddColumn(indicationText, frame.KindText)
	}
	table := loadIndications()
	codes := out.Column(indicationCode)

	unmapped := 0
	for r := range codes.Values {
		code := resolveIndication(out, r, table, &unmapped)
		codes.Values[r] = frame.Number(float64(code))
		label, ok := table.Indications[code]
		if !ok {
			label = "UNKNOWN"
		}
		out.SetValue(r, indicationText, frame.Text(label))
	}
	codes.Kind = frame.KindNumber
	if c := out.Column(indicationText); c != nil {
		c.Kind = frame.KindText
	}
	if unmapped > 0 {
		zap.L().Warn("concomitant medication texts mapped to Other",
			zap.Int("count", unmapped))
	}
	return out
}

func resolveIndication(f *frame.Frame, r int, table *indicationTable, unmapped *int) int {
	if v, ok := f.Value(r, indicationCode).Float(); ok {
		return int(v)
	}

	text := f.Value(r, indicationText)
	if text.IsEmpty() {
		// Neither code nor text: the treatment name is all we have.
		if code, ok := table.Treatments[f.Value(r, treatmentName).String()]; ok {
			return code
		}
		zap.L().Debug("concomitant med with only a treatment name",
			zap.String("treatment", f.Value(r, treatmentName).String()))
		return codeOther
	}

	if code := table.mapText(strings.ToLower(strings.TrimSpace(text.String()))); code != 0 {
		return code
	}
	*unmapped++
	return codeOther
}
