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

// Async creates a Promise and Future pair, spawns a detached goroutine
// that runs fn, and settles the Promise with fn's value or a captured
// failure. Any panic inside fn is recovered and reported as a *PanicError
// failure instead of crashing the goroutine.
func Async[T any](fn func() (T, error)) Future[T] {
	return AsyncWith[T](GoroutineExecutor{}, fn)
}

// AsyncWith is like Async, but executor.Submit replaces spawning a
// detached goroutine directly.
func AsyncWith[T any](executor Executor, fn func() (T, error)) Future[T] {
	p := NewPromise[T]()
	executor.Submit(func() {
		runUserCall(p, fn)
	})
	return p.GetFuture()
}

// MakeReady returns a Future already settled to v.
func MakeReady[T any](v T) Future[T] {
	p := NewPromise[T]()
	p.SetValue(v)
	return p.GetFuture()
}

// MakeReadyVoid returns a Future[struct{}] already settled to the unit
// value, the void-typed analogue of MakeReady.
func MakeReadyVoid() Future[struct{}] {
	return MakeReady(struct{}{})
}

// MakeFailed returns a Future already settled to the captured failure err.
func MakeFailed[T any](err error) Future[T] {
	p := NewPromise[T]()
	p.SetFailure(err)
	return p.GetFuture()
}
