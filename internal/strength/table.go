package strength

import "sync/atomic"

// Table publishes immutable Estimator snapshots to concurrent readers.
// Refits build a fresh Estimator and Swap it in; a reader keeps whatever
// snapshot it loaded for the rest of its request.
type Table struct {
	current atomic.Pointer[Estimator]
}

// NewTable returns a table serving initial, or an empty estimator when nil.
func NewTable(initial *Estimator) *Table {
	t := &Table{}
	if initial == nil {
		initial = NewEstimator(DefaultLeagueStrength)
	}
	t.current.Store(initial)
	return t
}

// Snapshot returns the estimator currently being served.
func (t *Table) Snapshot() *Estimator {
	return t.current.Load()
}

// Swap installs next and returns the previous snapshot.
func (t *Table) Swap(next *Estimator) *Estimator {
	return t.current.Swap(next)
}
