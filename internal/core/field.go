package core

// Field stages per-cell auxiliary numeric state the same way a Cell stages its
// next state: rules compute a complete set of updated values before committing
// any of them, preserving the simultaneity guarantee for non-state data.
// Indices follow Grid.Index.
type Field struct {
	curr []float64
	next []float64
}

// NewField allocates a zero-filled field of n cells.
func NewField(n int) *Field {
	return &Field{curr: make([]float64, n), next: make([]float64, n)}
}

// Len returns the number of cells tracked.
func (f *Field) Len() int { return len(f.curr) }

// Get returns the committed value at index i.
func (f *Field) Get(i int) float64 { return f.curr[i] }

// SetCurrent overwrites both buffers at i. Reserved for initialization.
func (f *Field) SetCurrent(i int, v float64) {
	f.curr[i] = v
	f.next[i] = v
}

// Stage records the value the cell will hold after the next Commit.
func (f *Field) Stage(i int, v float64) { f.next[i] = v }

// Carry stages the committed values unchanged, so a subsequent pass only has
// to stage the cells it actually modifies.
func (f *Field) Carry() { copy(f.next, f.curr) }

// Commit promotes all staged values.
func (f *Field) Commit() { copy(f.curr, f.next) }

// Fill sets every cell of both buffers to v.
func (f *Field) Fill(v float64) {
	for i := range f.curr {
		f.curr[i] = v
		f.next[i] = v
	}
}

// Snapshot copies the committed values, for single-level rollback.
func (f *Field) Snapshot() []float64 {
	return append([]float64(nil), f.curr...)
}

// Restore reinstates a snapshot into both buffers.
func (f *Field) Restore(vals []float64) {
	copy(f.curr, vals)
	copy(f.next, vals)
}

// IntField is Field for integer side channels (timers, energy).
type IntField struct {
	curr []int
	next []int
}

// NewIntField allocates a zero-filled integer field of n cells.
func NewIntField(n int) *IntField {
	return &IntField{curr: make([]int, n), next: make([]int, n)}
}

// Len returns the number of cells tracked.
func (f *IntField) Len() int { return len(f.curr) }

// Get returns the committed value at index i.
func (f *IntField) Get(i int) int { return f.curr[i] }

// SetCurrent overwrites both buffers at i. Reserved for initialization.
func (f *IntField) SetCurrent(i, v int) {
	f.curr[i] = v
	f.next[i] = v
}

// Stage records the value the cell will hold after the next Commit.
func (f *IntField) Stage(i, v int) { f.next[i] = v }

// Carry stages the committed values unchanged.
func (f *IntField) Carry() { copy(f.next, f.curr) }

// Commit promotes all staged values.
func (f *IntField) Commit() { copy(f.curr, f.next) }

// Fill sets every cell of both buffers to v.
func (f *IntField) Fill(v int) {
	for i := range f.curr {
		f.curr[i] = v
		f.next[i] = v
	}
}

// Snapshot copies the committed values, for single-level rollback.
func (f *IntField) Snapshot() []int {
	return append([]int(nil), f.curr...)
}

// Restore reinstates a snapshot into both buffers.
func (f *IntField) Restore(vals []int) {
	copy(f.curr, vals)
	copy(f.next, vals)
}
