package frame

// Column is a named, typed slice of values. Kind is the declared type; the
// aggregator may promote a numeric column to KindText when it has to carry
// pipe-joined conflict values, without rewriting the scalars already stored.
type Column struct {
	Name   string
	Kind   Kind
	Values []Scalar
}

// Frame is an in-memory table stored column-major. Column order is
// significant and preserved by every transform.
type Frame struct {
	cols   []Column
	byName map[string]int
}

// New returns an empty frame with no columns.
func New() *Frame {
	return &Frame{byName: make(map[string]int)}
}

// NewWithColumns returns an empty frame with the given text columns.
func NewWithColumns(names ...string) *Frame {
	f := New()
	for _, n := range names {
		f.AddColumn(n, KindText)
	}
	return f
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Empty reports whether the frame has no rows or no columns.
func (f *Frame) Empty() bool { return f.NumRows() == 0 || f.NumCols() == 0 }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// HasColumns reports whether every named column exists.
func (f *Frame) HasColumns(names ...string) bool {
	for _, n := range names {
		if !f.HasColumn(n) {
			return false
		}
	}
	return true
}

// Column returns the named column, or nil if absent.
func (f *Frame) Column(name string) *Column {
	i, ok := f.byName[name]
	if !ok {
		return nil
	}
	return &f.cols[i]
}

// ColumnAt returns the column at position i.
func (f *Frame) ColumnAt(i int) *Column { return &f.cols[i] }

// AddColumn appends a new column padded with missing values to the current
// row count. Adding a name that already exists returns the existing column.
// The returned pointer is invalidated by the next AddColumn call.
func (f *Frame) AddColumn(name string, kind Kind) *Column {
	if i, ok := f.byName[name]; ok {
		return &f.cols[i]
	}
	vals := make([]Scalar, f.NumRows())
	f.cols = append(f.cols, Column{Name: name, Kind: kind, Values: vals})
	f.byName[name] = len(f.cols) - 1
	return &f.cols[len(f.cols)-1]
}

// Value returns the cell at (row, name); missing if the column is absent.
func (f *Frame) Value(row int, name string) Scalar {
	c := f.Column(name)
	if c == nil || row < 0 || row >= len(c.Values) {
		return Missing()
	}
	return c.Values[row]
}

// SetValue sets the cell at (row, name). Absent columns are created as text.
func (f *Frame) SetValue(row int, name string, v Scalar) {
	c := f.Column(name)
	if c == nil {
		c = f.AddColumn(name, KindText)
	}
	if row >= 0 && row < len(c.Values) {
		c.Values[row] = v
	}
}

// AppendRow appends a row built from the given values; columns not named
// receive missing.
func (f *Frame) AppendRow(values map[string]Scalar) {
	for i := range f.cols {
		v, ok := values[f.cols[i].Name]
		if !ok {
			v = Missing()
		}
		f.cols[i].Values = append(f.cols[i].Values, v)
	}
}

// Rename renames a column in place. A no-op if old is absent.
func (f *Frame) Rename(old, new string) {
	i, ok := f.byName[old]
	if !ok || old == new {
		return
	}
	delete(f.byName, old)
	f.cols[i].Name = new
	f.byName[new] = i
}

// Drop removes the named columns. Absent names are ignored.
func (f *Frame) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := f.cols[:0]
	for _, c := range f.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	f.cols = kept
	f.reindex()
}

// Select returns a new frame containing only the named columns, in the given
// order. Absent names are skipped. Value slices are shared with the receiver.
func (f *Frame) Select(names ...string) *Frame {
	out := New()
	for _, n := range names {
		c := f.Column(n)
		if c == nil {
			continue
		}
		out.cols = append(out.cols, Column{Name: c.Name, Kind: c.Kind, Values: c.Values})
		out.byName[c.Name] = len(out.cols) - 1
	}
	return out
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := New()
	for _, c := range f.cols {
		vals := make([]Scalar, len(c.Values))
		copy(vals, c.Values)
		out.cols = append(out.cols, Column{Name: c.Name, Kind: c.Kind, Values: vals})
		out.byName[c.Name] = len(out.cols) - 1
	}
	return out
}

// KeySeparator joins rendered key column values inside a RowKey.
const KeySeparator = "\x1f"

// RowKey renders the values of the named columns for row r, joined with
// KeySeparator, for use as a hash key.
func (f *Frame) RowKey(r int, cols []string) string {
	var out string
	for i, n := range cols {
		if i > 0 {
			out += KeySeparator
		}
		out += f.Value(r, n).String()
	}
	return out
}

func (f *Frame) reindex() {
	f.byName = make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		f.byName[c.Name] = i
	}
}
