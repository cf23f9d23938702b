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

import "github.com/coder/quartz"

// Promise is the write end of a settlement cell, the producer handle.
// Exactly one goroutine should own a given Promise value;
// SetValue and SetFailure are safe to call concurrently with each other,
// but only the first of either call takes effect.
//
// The zero value of Promise is not usable; construct one with NewPromise.
type Promise[T any] struct {
	c *cell[T]
}

// NewPromise constructs a fresh Promise, unbound to any Future yet.
func NewPromise[T any]() Promise[T] {
	return Promise[T]{c: newCell[T](quartz.NewReal())}
}

// newPromiseWithClock is used by Future.Delay, so the delayed Future's cell
// shares the upstream cell's clock.
func newPromiseWithClock[T any](clock quartz.Clock) Promise[T] {
	return Promise[T]{c: newCell[T](clock)}
}

// SetValue settles this Promise's cell with a value. Only the first call
// to SetValue or SetFailure on a given Promise has any effect; every
// later call, on this Promise or the cell's SetFailure, is silently
// ignored, per the one-shot settlement contract.
func (p Promise[T]) SetValue(v T) {
	p.c.settle(ValueOf(v))
}

// SetFailure settles this Promise's cell with a captured failure. Only
// the first call to SetValue or SetFailure on a given Promise has any
// effect.
func (p Promise[T]) SetFailure(err error) {
	if err == nil {
		panic("future: SetFailure called with a nil error")
	}
	p.c.settle(FailureOf[T](err))
}

// IsReady reports whether this Promise's cell has settled, or been
// poisoned by a timeout, already.
func (p Promise[T]) IsReady() bool {
	return p.c.status.Load() != 0 // cellstate.None == 0
}

// GetFuture hands out this Promise's Future. It's a library invariant
// that GetFuture is called at most once per Promise; a second call
// returns a Future that is already spent, so every operation on it
// raises ErrAlreadyRetrieved, rather than a live handle to the same
// cell, since letting two goroutines race over one read end would break
// the "moved-from after Get" ownership story the rest of the API relies
// on.
func (p Promise[T]) GetFuture() Future[T] {
	if !p.c.takeFuture() {
		return Future[T]{c: alreadyRetrievedCell[T]()}
	}
	return Future[T]{c: p.c}
}

// alreadyRetrievedCell returns a fresh cell that has already settled and
// already been consumed by Get, used to hand back a dead Future from a
// second GetFuture call.
func alreadyRetrievedCell[T any]() *cell[T] {
	c := newCell[T](quartz.NewReal())
	c.settle(Pending[T]())
	c.status.RetrieveFromDone()
	return c
}
