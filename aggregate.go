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
	"math/rand"
	"sync"
	"sync/atomic"
)

// IndexedOutcome pairs an Outcome with the position, within the slice
// passed to WhenAny, of the Future it came from.
type IndexedOutcome[V any] struct {
	Index   int
	Outcome Outcome[V]
}

// attachOrFail attaches a continuation to f that reports its settled
// Outcome through store, then calls onDone; an invalid, poisoned, or
// already-spent f reports that condition as a Failure Outcome instead of
// leaving the aggregate waiting on it forever.
func attachOrFail[V any](f Future[V], store func(Outcome[V]), onDone func()) {
	if f.c == nil {
		store(FailureOf[V](ErrNotInitialized))
		onDone()
		return
	}
	err := f.c.attach(func() {
		store(f.c.peek())
		onDone()
	})
	if err != nil {
		store(FailureOf[V](err))
		onDone()
	}
}

// shuffledIndices returns a permutation of [0, n) via the Fisher-Yates
// shuffle, so WhenAny's attach order doesn't favor the lowest index when
// several of its inputs are already settled at call time.
func shuffledIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

// WhenAny returns a Future that settles to the first of inputs to
// settle, paired with its position in inputs. An empty inputs returns an
// already-ready Future carrying the zero IndexedOutcome.
//
// The scan order in which continuations are attached is shuffled, so
// that when several inputs are already settled at call time, the winner
// isn't biased toward the lowest index.
func WhenAny[V any](inputs ...Future[V]) Future[IndexedOutcome[V]] {
	if len(inputs) == 0 {
		return MakeReady(IndexedOutcome[V]{})
	}

	p := NewPromise[IndexedOutcome[V]]()
	var won atomic.Bool

	for _, i := range shuffledIndices(len(inputs)) {
		i := i
		f := inputs[i]
		attachOrFail(f, func(out Outcome[V]) {
			if won.CompareAndSwap(false, true) {
				p.SetValue(IndexedOutcome[V]{Index: i, Outcome: out})
			}
		}, func() {})
	}

	return p.GetFuture()
}

// WhenAll returns a Future that settles, once every input has settled,
// to the slice of their Outcomes, in the same order as inputs regardless
// of completion order. An empty inputs returns an already-ready Future
// carrying an empty slice.
func WhenAll[V any](inputs ...Future[V]) Future[[]Outcome[V]] {
	if len(inputs) == 0 {
		return MakeReady([]Outcome[V]{})
	}

	n := len(inputs)
	p := NewPromise[[]Outcome[V]]()
	result := make([]Outcome[V], n)

	var mu sync.Mutex
	remaining := n

	for i, f := range inputs {
		i := i
		attachOrFail(f, func(out Outcome[V]) {
			mu.Lock()
			result[i] = out
			mu.Unlock()
		}, func() {
			mu.Lock()
			remaining--
			done := remaining == 0
			mu.Unlock()
			if done {
				p.SetValue(result)
			}
		})
	}

	return p.GetFuture()
}

// FailuresOf collects the captured failures out of a slice of Outcomes,
// in order, and reports them as a single error: nil if none failed, the
// lone error if exactly one did, or a *MultiError wrapping all of them
// otherwise. It's meant for the slice WhenAll returns, to turn "did
// everything succeed" into a single error check.
func FailuresOf[V any](outcomes []Outcome[V]) error {
	var errs []error
	for _, out := range outcomes {
		if err, ok := out.Failure(); ok {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return newMultiError(errs...)
	}
}

// Tuple2 is the heterogeneous result of WhenAll2.
type Tuple2[A, B any] struct {
	A Outcome[A]
	B Outcome[B]
}

// WhenAll2 is the two-operand, statically-typed form of WhenAll.
func WhenAll2[A, B any](fa Future[A], fb Future[B]) Future[Tuple2[A, B]] {
	p := NewPromise[Tuple2[A, B]]()
	var mu sync.Mutex
	var tup Tuple2[A, B]
	remaining := 2
	onDone := func() {
		mu.Lock()
		remaining--
		done := remaining == 0
		result := tup
		mu.Unlock()
		if done {
			p.SetValue(result)
		}
	}
	attachOrFail(fa, func(o Outcome[A]) { mu.Lock(); tup.A = o; mu.Unlock() }, onDone)
	attachOrFail(fb, func(o Outcome[B]) { mu.Lock(); tup.B = o; mu.Unlock() }, onDone)
	return p.GetFuture()
}

// Tuple3 is the heterogeneous result of WhenAll3.
type Tuple3[A, B, C any] struct {
	A Outcome[A]
	B Outcome[B]
	C Outcome[C]
}

// WhenAll3 is the three-operand, statically-typed form of WhenAll.
func WhenAll3[A, B, C any](fa Future[A], fb Future[B], fc Future[C]) Future[Tuple3[A, B, C]] {
	p := NewPromise[Tuple3[A, B, C]]()
	var mu sync.Mutex
	var tup Tuple3[A, B, C]
	remaining := 3
	onDone := func() {
		mu.Lock()
		remaining--
		done := remaining == 0
		result := tup
		mu.Unlock()
		if done {
			p.SetValue(result)
		}
	}
	attachOrFail(fa, func(o Outcome[A]) { mu.Lock(); tup.A = o; mu.Unlock() }, onDone)
	attachOrFail(fb, func(o Outcome[B]) { mu.Lock(); tup.B = o; mu.Unlock() }, onDone)
	attachOrFail(fc, func(o Outcome[C]) { mu.Lock(); tup.C = o; mu.Unlock() }, onDone)
	return p.GetFuture()
}

// Tuple4 is the heterogeneous result of WhenAll4.
type Tuple4[A, B, C, D any] struct {
	A Outcome[A]
	B Outcome[B]
	C Outcome[C]
	D Outcome[D]
}

// WhenAll4 is the four-operand, statically-typed form of WhenAll.
func WhenAll4[A, B, C, D any](fa Future[A], fb Future[B], fc Future[C], fd Future[D]) Future[Tuple4[A, B, C, D]] {
	p := NewPromise[Tuple4[A, B, C, D]]()
	var mu sync.Mutex
	var tup Tuple4[A, B, C, D]
	remaining := 4
	onDone := func() {
		mu.Lock()
		remaining--
		done := remaining == 0
		result := tup
		mu.Unlock()
		if done {
			p.SetValue(result)
		}
	}
	attachOrFail(fa, func(o Outcome[A]) { mu.Lock(); tup.A = o; mu.Unlock() }, onDone)
	attachOrFail(fb, func(o Outcome[B]) { mu.Lock(); tup.B = o; mu.Unlock() }, onDone)
	attachOrFail(fc, func(o Outcome[C]) { mu.Lock(); tup.C = o; mu.Unlock() }, onDone)
	attachOrFail(fd, func(o Outcome[D]) { mu.Lock(); tup.D = o; mu.Unlock() }, onDone)
	return p.GetFuture()
}

// Tuple5 is the heterogeneous result of WhenAll5.
type Tuple5[A, B, C, D, E any] struct {
	A Outcome[A]
	B Outcome[B]
	C Outcome[C]
	D Outcome[D]
	E Outcome[E]
}

// WhenAll5 is the five-operand, statically-typed form of WhenAll.
func WhenAll5[A, B, C, D, E any](fa Future[A], fb Future[B], fc Future[C], fd Future[D], fe Future[E]) Future[Tuple5[A, B, C, D, E]] {
	p := NewPromise[Tuple5[A, B, C, D, E]]()
	var mu sync.Mutex
	var tup Tuple5[A, B, C, D, E]
	remaining := 5
	onDone := func() {
		mu.Lock()
		remaining--
		done := remaining == 0
		result := tup
		mu.Unlock()
		if done {
			p.SetValue(result)
		}
	}
	attachOrFail(fa, func(o Outcome[A]) { mu.Lock(); tup.A = o; mu.Unlock() }, onDone)
	attachOrFail(fb, func(o Outcome[B]) { mu.Lock(); tup.B = o; mu.Unlock() }, onDone)
	attachOrFail(fc, func(o Outcome[C]) { mu.Lock(); tup.C = o; mu.Unlock() }, onDone)
	attachOrFail(fd, func(o Outcome[D]) { mu.Lock(); tup.D = o; mu.Unlock() }, onDone)
	attachOrFail(fe, func(o Outcome[E]) { mu.Lock(); tup.E = o; mu.Unlock() }, onDone)
	return p.GetFuture()
}
