package frame

import (
	"github.com/rotisserie/eris"
)

// How selects the join flavor.
type How uint8

const (
	// LeftJoin keeps every left row, matched or not.
	LeftJoin How = iota
	// OuterJoin keeps every row from both sides.
	OuterJoin
)

// DefaultSuffixes tag colliding non-key columns by join side.
var DefaultSuffixes = [2]string{"_x", "_y"}

// Join hash-joins two frames on the given key columns. Non-key columns whose
// names collide are tagged with the side suffixes; rows whose keys match on
// both sides produce the cartesian product of the matches, so duplicated keys
// survive into the output for a later aggregation pass to resolve.
func Join(left, right *Frame, on []string, how How, suffixes [2]string) (*Frame, error) {
	if !left.HasColumns(on...) || !right.HasColumns(on...) {
		return nil, eris.Errorf("frame: join columns %v missing from an operand", on)
	}
	if suffixes[0] == "" && suffixes[1] == "" {
		suffixes = DefaultSuffixes
	}

	onSet := make(map[string]bool, len(on))
	for _, n := range on {
		onSet[n] = true
	}
	collides := make(map[string]bool)
	for _, n := range right.Columns() {
		if !onSet[n] && left.HasColumn(n) {
			collides[n] = true
		}
	}

	out := New()
	for _, n := range on {
		kind := left.Column(n).Kind
		if right.Column(n).Kind != kind {
			kind = KindText
		}
		out.AddColumn(n, kind)
	}
	leftOut := make(map[string]string) // source name -> output name
	for _, c := range left.cols {
		if onSet[c.Name] {
			continue
		}
		name := c.Name
		if collides[name] {
			name += suffixes[0]
		}
		out.AddColumn(name, c.Kind)
		leftOut[c.Name] = name
	}
	rightOut := make(map[string]string)
	for _, c := range right.cols {
		if onSet[c.Name] {
			continue
		}
		name := c.Name
		if collides[name] {
			name += suffixes[1]
		}
		out.AddColumn(name, c.Kind)
		rightOut[c.Name] = name
	}

	rightIdx := make(map[string][]int, right.NumRows())
	for r := 0; r < right.NumRows(); r++ {
		k := right.RowKey(r, on)
		rightIdx[k] = append(rightIdx[k], r)
	}

	matched := make(map[string]bool)
	row := make(map[string]Scalar, out.NumCols())

	emit := func(lr, rr int) {
		clear(row)
		for _, n := range on {
			if lr >= 0 {
				row[n] = left.Value(lr, n)
			} else {
				row[n] = right.Value(rr, n)
			}
		}
		if lr >= 0 {
			for src, dst := range leftOut {
				row[dst] = left.Value(lr, src)
			}
		}
		if rr >= 0 {
			for src, dst := range rightOut {
				row[dst] = right.Value(rr, src)
			}
		}
		out.AppendRow(row)
	}

	for lr := 0; lr < left.NumRows(); lr++ {
		k := left.RowKey(lr, on)
		rrs, ok := rightIdx[k]
		if !ok {
			emit(lr, -1)
			continue
		}
		matched[k] = true
		for _, rr := range rrs {
			emit(lr, rr)
		}
	}

	if how == OuterJoin {
		for rr := 0; rr < right.NumRows(); rr++ {
			if !matched[right.RowKey(rr, on)] {
				emit(-1, rr)
			}
		}
	}

	return out, nil
}
