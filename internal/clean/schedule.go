// Package clean applies domain recodings to loaded study tables:
// blood pressure banding, uncertain-answer recoding, levodopa
// equivalent doses, medication indication codes, and the visit
// schedule. Like the loaders it degrades rather than fails: rows it
// cannot interpret pass through with their values left missing.
package clean

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed schedule.yaml
var defaultScheduleYAML []byte

// Schedule maps visit codes to month offsets from baseline.
type Schedule struct {
	visits map[string]float64
}

type scheduleFile struct {
	Visits map[string]float64 `yaml:"visits"`
}

// DefaultSchedule returns the built-in visit schedule.
func DefaultSchedule() *Schedule {
	s, err := parseSchedule(defaultScheduleYAML)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadSchedule reads a visit schedule from a YAML file, for studies
// whose visit plan differs from the built-in one.
func LoadSchedule(path string) (*Schedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "clean: read schedule %s", path)
	}
	return parseSchedule(raw)
}

func parseSchedule(raw []byte) (*Schedule, error) {
	var sf scheduleFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, eris.Wrap(err, "clean: parse schedule")
	}
	if len(sf.Visits) == 0 {
		return nil, eris.New("clean: schedule has no visits")
	}
	return &Schedule{visits: sf.Visits}, nil
}

// Months converts a visit code into months from baseline. The second
// return is false for unscheduled visits.
func (s *Schedule) Months(eventID string) (float64, bool) {
	m, ok := s.visits[eventID]
	return m, ok
}
