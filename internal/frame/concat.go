package frame

// Concat stacks frames vertically. Columns are unioned in first-seen
// order and cells a frame lacks are filled with missing values. A
// column whose kind disagrees across frames collapses to text.
func Concat(frames ...*Frame) *Frame {
	out := New()
	for _, f := range frames {
		if f == nil || f.NumCols() == 0 {
			continue
		}
		offset := out.NumRows()
		n := f.NumRows()
		for i := range out.cols {
			out.cols[i].Values = append(out.cols[i].Values, make([]Scalar, n)...)
		}
		for _, name := range f.Columns() {
			src := f.Column(name)
			dst := out.Column(name)
			if dst == nil {
				out.cols = append(out.cols, Column{
					Name:   name,
					Kind:   src.Kind,
					Values: make([]Scalar, offset+n),
				})
				out.byName[name] = len(out.cols) - 1
				dst = &out.cols[len(out.cols)-1]
			} else if dst.Kind != src.Kind {
				dst.Kind = KindText
			}
			copy(dst.Values[offset:], src.Values)
		}
	}
	return out
}
