// Copyright 2020 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package future

import (
	"time"

	"github.com/asmsh/future/internal/cellstate"
)

// Future is the read end of a settlement cell, the consumer handle.
// It's obtained exactly once per cell, from a Promise's
// GetFuture, or from one of the package's launchers/combinators.
//
// The zero value of Future is not Valid.
type Future[T any] struct {
	c *cell[T]
}

// Valid reports whether this Future is attached to a cell.
func (f Future[T]) Valid() bool {
	return f.c != nil
}

// Get blocks until the cell settles, then consumes its Outcome. A second
// call on the same Future, after a first successful Get, returns
// ErrAlreadyRetrieved. If a prior WaitFor/WaitUntil call poisoned the
// cell, Get returns ErrTimeout. Otherwise it returns the settled
// Outcome's value, or the captured failure if the cell settled to one.
func (f Future[T]) Get() (T, error) {
	if f.c == nil {
		var zero T
		return zero, ErrNotInitialized
	}
	out, err := f.c.get()
	if err != nil {
		var zero T
		return zero, err
	}
	return out.Value()
}

// GetOutcome is like Get, but returns the raw Outcome on success instead
// of unwrapping it, so a caller can distinguish "settled with a captured
// failure" from the handle-level errors without inspecting error values.
func (f Future[T]) GetOutcome() (Outcome[T], error) {
	if f.c == nil {
		return Outcome[T]{}, ErrNotInitialized
	}
	return f.c.get()
}

// Wait blocks until the cell settles, with no timeout.
func (f Future[T]) Wait() {
	if f.c == nil {
		return
	}
	f.c.wait()
}

// WaitFor blocks until the cell settles or d elapses, whichever happens
// first, and reports the resulting status. On expiry it poisons this
// Future's cell so that any later Get or Then raises ErrTimeout.
func (f Future[T]) WaitFor(d time.Duration) Status {
	if f.c == nil {
		return StatusNone
	}
	return Status(f.c.waitFor(d))
}

// WaitUntil is like WaitFor, but with an absolute deadline.
func (f Future[T]) WaitUntil(deadline time.Time) Status {
	if f.c == nil {
		return StatusNone
	}
	return Status(f.c.waitUntil(deadline))
}

// OrTimeout returns a Future that settles like f, unless d elapses
// first, in which case the returned Future is poisoned and every
// operation on it raises ErrTimeout. Work already running to settle f
// is not canceled; f itself simply becomes unusable if the timeout wins.
func (f Future[T]) OrTimeout(d time.Duration) Future[T] {
	if f.c == nil {
		return f
	}
	f.WaitFor(d)
	return f
}

// Status is the lifecycle of a Future's cell, exposed to callers of
// Wait/WaitFor/WaitUntil.
type Status cellstate.State

const (
	// StatusNone means the cell has not settled yet.
	StatusNone Status = Status(cellstate.None)
	// StatusDone means the cell settled and hasn't been retrieved.
	StatusDone Status = Status(cellstate.Done)
	// StatusRetrieved means the cell settled and Get already consumed it.
	StatusRetrieved Status = Status(cellstate.Retrieved)
	// StatusTimeout means a timed wait poisoned the cell before it settled.
	StatusTimeout Status = Status(cellstate.Timeout)
)

func (s Status) String() string {
	return cellstate.State(s).String()
}

// Delay returns a Future that settles to the same Outcome as f, after a
// delay of at least d, measured from the moment f itself settles.
func (f Future[T]) Delay(d time.Duration) Future[T] {
	if f.c == nil {
		return f
	}

	p := newPromiseWithClock[T](f.c.clock)
	err := f.c.attach(func() {
		out := f.c.peek()
		go func() {
			<-f.c.clock.NewTimer(d).C
			settleFromOutcome(p, out)
		}()
	})
	if err != nil {
		// the upstream is poisoned or already spent; propagate that as a
		// failure rather than hanging the delayed Future forever.
		p.SetFailure(err)
	}
	return p.GetFuture()
}
