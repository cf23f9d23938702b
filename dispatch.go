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

// dispatch.go implements the continuation dispatcher: every Then*
// function below funnels into scheduleThen, which builds one downstream
// Promise and attaches one work unit to the upstream cell, scheduled
// according to the caller's launch policy once the upstream settles.
// ThenValue, Then, ThenOutcome, and ThenFuture are split into distinct
// generic functions, rather than one function branching on a callback's
// reflected shape, because Go's type inference on the callback parameter
// already tells the shapes apart at compile time.
package future

import "time"

// settleFromOutcome re-applies an already-settled Outcome onto a fresh
// Promise, used by combinators that need to forward a settlement
// verbatim onto a new cell.
func settleFromOutcome[T any](p Promise[T], out Outcome[T]) {
	if err, ok := out.Failure(); ok {
		p.SetFailure(err)
		return
	}
	v, _ := out.Value()
	p.SetValue(v)
}

// runUserCall invokes fn, recovers any panic as a *PanicError, and
// settles p with whichever of SetValue/SetFailure applies.
func runUserCall[U any](p Promise[U], fn func() (U, error)) {
	defer func() {
		if r := recover(); r != nil {
			p.SetFailure(newPanicError(r))
		}
	}()

	v, err := fn()
	if err != nil {
		p.SetFailure(err)
		return
	}
	p.SetValue(v)
}

// scheduleThen is the Then protocol: construct the downstream Promise,
// attach a work unit to the upstream cell, and let the cell (via attach)
// either enqueue that unit for later or run it immediately, depending on
// whether the upstream has already settled. build receives the
// downstream Promise to settle.
func scheduleThen[T, U any](upstream Future[T], opts Options, build func(p Promise[U])) Future[U] {
	p := NewPromise[U]()

	if upstream.c == nil {
		p.SetFailure(ErrNotInitialized)
		return p.GetFuture()
	}

	err := upstream.c.attach(func() {
		dispatch(opts, func() { build(p) })
	})
	if err != nil {
		p.SetFailure(err)
	}
	return p.GetFuture()
}

// dispatch runs work according to policy.
func dispatch(opts Options, work func()) {
	switch opts.Policy.normalize() {
	case PolicySync:
		work()
	case PolicyCallback:
		done := make(chan struct{})
		wrapped := func() {
			defer close(done)
			work()
		}
		if opts.Executor != nil {
			opts.Executor.Submit(wrapped)
		} else {
			go wrapped()
		}
		go func() {
			timer := time.NewTimer(opts.ceiling())
			defer timer.Stop()
			select {
			case <-done:
			case <-timer.C:
			}
		}()
	default: // PolicyAsync
		if opts.Executor != nil {
			opts.Executor.Submit(work)
		} else {
			go work()
		}
	}
}

// ThenValue registers a continuation that takes the upstream's raw value.
// If the upstream settled to a failure, that failure is forwarded to the
// downstream Promise without invoking fn, per the rule that value-taking
// continuations can't observe upstream failures.
func ThenValue[T, U any](f Future[T], fn func(T) (U, error), opts ...Options) Future[U] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return scheduleThen[T, U](f, firstOptions(opts), func(p Promise[U]) {
		out := f.c.peek()
		if failure, ok := out.Failure(); ok {
			p.SetFailure(failure)
			return
		}
		v, _ := out.Value()
		runUserCall(p, func() (U, error) { return fn(v) })
	})
}

// Then registers a continuation that takes no argument: it always runs,
// regardless of the upstream's outcome, and doesn't observe it.
func Then[T, U any](f Future[T], fn func() (U, error), opts ...Options) Future[U] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return scheduleThen[T, U](f, firstOptions(opts), func(p Promise[U]) {
		runUserCall(p, fn)
	})
}

// ThenOutcome registers a continuation that takes the upstream's full
// Outcome, so it always runs and can absorb a failure instead of
// propagating it, per the rule that Outcome-taking callables observe
// upstream failures.
func ThenOutcome[T, U any](f Future[T], fn func(Outcome[T]) (U, error), opts ...Options) Future[U] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return scheduleThen[T, U](f, firstOptions(opts), func(p Promise[U]) {
		out := f.c.peek()
		runUserCall(p, func() (U, error) { return fn(out) })
	})
}

// ThenFuture registers a continuation that takes the upstream's raw
// value and returns a nested Future, which is flattened into the
// downstream Future one level.
func ThenFuture[T, U any](f Future[T], fn func(T) (Future[U], error), opts ...Options) Future[U] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return scheduleThen[T, U](f, firstOptions(opts), func(p Promise[U]) {
		out := f.c.peek()
		if failure, ok := out.Failure(); ok {
			p.SetFailure(failure)
			return
		}
		v, _ := out.Value()

		defer func() {
			if r := recover(); r != nil {
				p.SetFailure(newPanicError(r))
			}
		}()

		nested, err := fn(v)
		if err != nil {
			p.SetFailure(err)
			return
		}

		// the nested Future's Outcome arrives wrapped in the Outcome this
		// continuation itself produces; flattenOutcome collapses the two
		// layers into one, per the Outcome[Outcome[T]] invariant.
		nout, nerr := nested.GetOutcome()
		var wrapped Outcome[Outcome[U]]
		if nerr != nil {
			wrapped = FailureOf[Outcome[U]](nerr)
		} else {
			wrapped = ValueOf(nout)
		}
		settleFromOutcome(p, flattenOutcome(wrapped))
	})
}

// Finally registers fn to run once the upstream settles, regardless of
// its Outcome, using the Callback policy: it's fire-and-forget, so the
// Future Finally itself produces is typically discarded by the caller,
// while the library still guarantees fn runs after settlement.
func Finally[T any](f Future[T], fn func()) Future[struct{}] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return Then[T, struct{}](f, func() (struct{}, error) {
		fn()
		return struct{}{}, nil
	}, Options{Policy: PolicyCallback})
}

// ThenValueVoid is ThenValue for a continuation with no result beyond
// "it ran"; U is fixed to struct{}.
func ThenValueVoid[T any](f Future[T], fn func(T) error, opts ...Options) Future[struct{}] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return ThenValue(f, func(v T) (struct{}, error) {
		return struct{}{}, fn(v)
	}, opts...)
}

// ThenVoid is Then for a continuation with no result beyond "it ran".
func ThenVoid[T any](f Future[T], fn func() error, opts ...Options) Future[struct{}] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return Then[T, struct{}](f, func() (struct{}, error) {
		return struct{}{}, fn()
	}, opts...)
}

// ThenOutcomeVoid is ThenOutcome for a continuation with no result beyond
// "it ran".
func ThenOutcomeVoid[T any](f Future[T], fn func(Outcome[T]) error, opts ...Options) Future[struct{}] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return ThenOutcome(f, func(out Outcome[T]) (struct{}, error) {
		return struct{}{}, fn(out)
	}, opts...)
}

// ThenFutureVoid is ThenFuture for a continuation whose nested Future
// carries no result beyond "it ran".
func ThenFutureVoid[T any](f Future[T], fn func(T) (Future[struct{}], error), opts ...Options) Future[struct{}] {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return ThenFuture(f, fn, opts...)
}

func firstOptions(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[0]
}
