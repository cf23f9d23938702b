// Package cellstate holds the lock-free status word shared by every
// settlement cell: a single atomically-swapped uint32 tracking which of
// four states a cell is in.
package cellstate

import "sync/atomic"

// State is the lifecycle of a settlement cell.
type State uint32

const (
	// None means the cell has not settled yet.
	None State = iota
	// Done means the cell settled and its Outcome hasn't been retrieved.
	Done
	// Retrieved means the cell settled and Get has already consumed it.
	Retrieved
	// Timeout means a timed wait poisoned the cell before it settled.
	Timeout
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case Done:
		return "done"
	case Retrieved:
		return "retrieved"
	case Timeout:
		return "timeout"
	default:
		return "<unknown>"
	}
}

// Word is an atomically-updated cell state. The zero value is None.
type Word struct {
	v atomic.Uint32
}

// Load returns the current state.
func (w *Word) Load() State {
	return State(w.v.Load())
}

// SettleFromNone transitions None -> Done with a single CAS. It reports
// whether this call won the transition; losers (a concurrent settlement,
// or a concurrent timeout) must treat their own settlement as a no-op,
// per the one-shot contract the cell's Promise enforces.
func (w *Word) SettleFromNone() (won bool) {
	return w.v.CompareAndSwap(uint32(None), uint32(Done))
}

// TimeoutFromNone transitions None -> Timeout with a single CAS. It
// reports whether this call won the race against a concurrent settlement.
func (w *Word) TimeoutFromNone() (won bool) {
	return w.v.CompareAndSwap(uint32(None), uint32(Timeout))
}

// RetrieveFromDone transitions Done -> Retrieved with a single CAS. It
// reports whether this call is the one that gets to consume the Outcome.
func (w *Word) RetrieveFromDone() (won bool) {
	return w.v.CompareAndSwap(uint32(Done), uint32(Retrieved))
}
