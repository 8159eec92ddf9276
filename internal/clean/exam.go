package clean

import (
	"github.com/sells-group/cohort-cli/internal/frame"
)

// DefaultUncertain is the value substituted for "uncertain" exam
// answers, halfway between no and yes.
const DefaultUncertain = 0.5

// parkinsonismFeatures are ranked 0 no, 1 yes, 2 uncertain.
var parkinsonismFeatures = []string{"FEATBRADY", "FEATPOSINS", "FEATRIGID", "FEATTREMOR"}

// FeaturesOfParkinsonism recodes the uncertain answers in the cardinal
// feature columns so they sit between no and yes instead of above
// them.
func FeaturesOfParkinsonism(f *frame.Frame, uncertain float64) *frame.Frame {
	out := f.Clone()
	for _, col := range parkinsonismFeatures {
		recodeUncertain(out, col, uncertain)
	}
	return out
}

// GeneralPhysicalExam recodes "cannot assess" abnormality answers the
// same way.
func GeneralPhysicalExam(f *frame.Frame, uncertain float64) *frame.Frame {
	out := f.Clone()
	recodeUncertain(out, "ABNORM", uncertain)
	return out
}

func recodeUncertain(f *frame.Frame, col string, uncertain float64) {
	c := f.Column(col)
	if c == nil {
		return
	}
	for i, v := range c.Values {
		if n, ok := v.Float(); ok && n == 2 {
			c.Values[i] = frame.Number(uncertain)
		}
	}
}
