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

// Package future provides a composable Promise/Future pair, built around
// a single shared settlement cell, for producing a result from one place
// and consuming it from another, possibly across goroutines.
//
// A Promise is the producer handle: SetValue and SetFailure settle it,
// exactly once, and GetFuture hands out the one Future tied to it. A
// Future is the consumer handle: Get blocks for the settlement and
// consumes it, WaitFor/WaitUntil block with a deadline without consuming
// anything, and Then/ThenValue/ThenOutcome/ThenFuture/Finally register a
// continuation to run once settlement happens, whether that's already
// true or still pending.
//
// Every settlement is represented as an Outcome[T]: either a value, or a
// captured failure, never both, and a pending Outcome carries neither.
// Get, GetOutcome, and every continuation callback work in terms of
// Outcome[T] or the value/error pair unwrapped from one.
//
// A cell's lifecycle has four states, and it is in exactly one at any
// time: it starts out unsettled; a Promise call moves it to settled; a
// first Get call on its Future moves it to retrieved; or, if a timed
// wait (WaitFor, WaitUntil, OrTimeout) runs out first, the cell is
// poisoned into a timed-out state instead, and can never settle normally
// afterward.
//
// # Launching work
//
// Async and AsyncWith run a function on a goroutine, or on a supplied
// Executor, and return its Future immediately; MakeReady, MakeReadyVoid,
// and MakeFailed build an already-settled Future directly, useful as a
// base case for a chain or as a stand-in value in tests.
//
// # Chaining
//
// ThenValue, Then, ThenOutcome, and ThenFuture differ only in what shape
// of callback they accept and whether that callback observes an
// upstream failure; each accepts an optional Options to pick a launch
// policy (PolicyAsync, PolicySync, or PolicyCallback) for where the
// continuation actually runs. Finally always runs, using the callback
// policy, and is meant for cleanup rather than for producing a value
// anyone waits on.
//
// # Waiting on several Futures at once
//
// WhenAny settles as soon as the first of several Futures does, paired
// with that Future's position among its inputs. WhenAll settles once
// every input has, collecting their Outcomes in input order; WhenAll2
// through WhenAll5 are its statically-typed, heterogeneous-result
// counterparts for a small fixed number of differently-typed Futures.
package future
