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
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/eapache/queue"

	"github.com/asmsh/future/internal/cellstate"
)

// cell is the shared settlement cell: the synchronization primitive
// coordinating exactly-once settlement by a single Promise, single
// retrieval by Get, and FIFO draining of any continuations attached
// through Then/Finally.
//
// A cell is co-owned by its Promise, its Future, and any pending
// continuation closures that captured it; it's destroyed, by the garbage
// collector, once the last of those drops it. Cells never cycle: a
// continuation closure only ever holds its upstream cell and writes to a
// fresh downstream one.
type cell[T any] struct {
	clock quartz.Clock

	mu sync.Mutex
	// done is closed exactly once, by whichever call wins the transition
	// out of cellstate.None. Every blocked Wait/WaitFor/WaitUntil/Get call
	// wakes on it (continuations attached before settlement are drained
	// from conts instead); a closed channel wakes every receiver and,
	// unlike sync.Cond, composes directly with select and a timer, which is
	// why it stands in here for
	// a condition-variable broadcast.
	done   chan struct{}
	status cellstate.Word
	out    Outcome[T]

	// conts holds continuations registered before settlement, in FIFO
	// order. It's only ever touched while mu is held.
	conts *queue.Queue

	// futureTaken guards the single-issuance rule for Promise.GetFuture.
	futureTaken bool
}

func newCell[T any](clock quartz.Clock) *cell[T] {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &cell[T]{
		clock: clock,
		done:  make(chan struct{}),
		conts: queue.New(),
	}
}

// settle is the only path that moves a cell out of cellstate.None with a
// value or a failure. It returns false, without touching the cell, if
// some other call already settled or poisoned it first.
//
// The state transition is attempted before the payload is written, so a
// settle that loses the race to a concurrent timeoutNow never leaves its
// value sitting in c.out. Both still happen while mu is held, together
// with the transition, so any attach call, which also takes mu before
// reading status, can never observe status == Done ahead of the out it's
// paired with: the lock, not the atomic word alone, is what publishes
// the payload.
func (c *cell[T]) settle(out Outcome[T]) bool {
	c.mu.Lock()
	if !c.status.SettleFromNone() {
		// an earlier settle, or a timeout poisoning the cell, got there first.
		c.mu.Unlock()
		return false
	}
	c.out = out
	pending := c.conts
	c.conts = nil
	c.mu.Unlock()

	debugTrace(traceSettle)
	close(c.done)

	// drain outside the lock, in FIFO registration order.
	for pending.Length() > 0 {
		cont := pending.Remove().(func())
		cont()
	}
	return true
}

// attach registers a continuation to run once the cell settles. If the
// cell is already Done, it invokes cont immediately, on the calling
// goroutine, without taking the lock again. If the cell is poisoned or
// already retrieved, it returns the corresponding error instead of
// attaching anything.
func (c *cell[T]) attach(cont func()) error {
	c.mu.Lock()
	switch c.status.Load() {
	case cellstate.None:
		c.conts.Add(cont)
		c.mu.Unlock()
		debugTrace(traceAttachPending)
		return nil
	case cellstate.Timeout:
		c.mu.Unlock()
		return ErrTimeout
	case cellstate.Retrieved:
		c.mu.Unlock()
		return ErrAlreadyRetrieved
	default: // Done
		c.mu.Unlock()
		debugTrace(traceAttachImmediate)
		cont()
		return nil
	}
}

// wait blocks until the cell is no longer None, with no timeout.
func (c *cell[T]) wait() {
	<-c.done
}

// waitFor blocks until the cell settles or d elapses, whichever happens
// first. On expiry it poisons the cell (None -> Timeout) and returns
// cellstate.Timeout; if some other call already settled the cell first,
// the expiry is a no-op and the already-settled status is returned.
func (c *cell[T]) waitFor(d time.Duration) cellstate.State {
	if d <= 0 {
		return c.timeoutNow()
	}

	timer := c.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-c.done:
		return c.status.Load()
	case <-timer.C:
		return c.timeoutNow()
	}
}

// waitUntil blocks until the cell settles or the deadline passes.
func (c *cell[T]) waitUntil(deadline time.Time) cellstate.State {
	return c.waitFor(deadline.Sub(c.clock.Now()))
}

// timeoutNow attempts to poison the cell right now. If it loses the race
// to a concurrent settle (or a concurrent timeout, though only one of
// those can ever win), it returns the status the winner installed instead.
func (c *cell[T]) timeoutNow() cellstate.State {
	if !c.status.TimeoutFromNone() {
		// lost the race: the cell settled, or was poisoned, concurrently.
		return c.status.Load()
	}
	debugTrace(traceTimeout)

	c.mu.Lock()
	pending := c.conts
	c.conts = nil
	c.mu.Unlock()

	close(c.done)

	// continuations attached before the poison still need to observe it:
	// they run right here, unconditionally, but peek (which every one of
	// them reads the upstream Outcome through) checks status itself and
	// reports Failure(ErrTimeout) instead of the still-empty c.out, so
	// Then's own Get-the-upstream-status logic raises ErrTimeout instead
	// of settling on a bogus zero value.
	for pending != nil && pending.Length() > 0 {
		cont := pending.Remove().(func())
		cont()
	}
	return cellstate.Timeout
}

// get implements the Consumer Handle's Get operation: wait, then consume
// exactly once.
func (c *cell[T]) get() (Outcome[T], error) {
	c.wait()

	switch {
	case c.status.RetrieveFromDone():
		debugTrace(traceRetrieve)
		return c.out, nil
	case c.status.Load() == cellstate.Timeout:
		return Outcome[T]{}, ErrTimeout
	default:
		// either a concurrent Get already retrieved it, or (impossible
		// after wait() returns) the cell is still None.
		return Outcome[T]{}, ErrAlreadyRetrieved
	}
}

// peek returns the settled Outcome without marking the cell as
// Retrieved. It's used by continuations, which observe an upstream's
// Outcome without spending it, since Get's single-retrieval rule governs
// only direct calls to Future.Get, not continuation dispatch.
//
// A continuation can be attached while the cell is still None and then
// have timeoutNow poison it before settle ever runs; in that case c.out
// is still its empty zero value, and peek reports the poisoning as a
// Failure(ErrTimeout) instead of handing back that empty Outcome, so
// every Then/WhenAny/WhenAll path built on peek observes the timeout
// instead of silently treating it as a result.
func (c *cell[T]) peek() Outcome[T] {
	c.mu.Lock()
	out := c.out
	timedOut := c.status.Load() == cellstate.Timeout
	c.mu.Unlock()
	if timedOut {
		return FailureOf[T](ErrTimeout)
	}
	return out
}

// takeFuture enforces the single-issuance rule for Promise.GetFuture: the
// first call succeeds, every later call is told the future was taken.
func (c *cell[T]) takeFuture() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.futureTaken {
		return false
	}
	c.futureTaken = true
	return true
}
