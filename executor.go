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

import "time"

// Executor is the only external collaborator the dispatcher depends on:
// something that can accept a unit of work and run it at some later
// time. A real thread/goroutine pool is injected by the caller; the
// library itself never constructs one.
type Executor interface {
	// Submit schedules work to run. Submit must not block on work's
	// completion, and work is responsible for not panicking past its own
	// boundary; the dispatcher's own generated work units already recover
	// from panics and route them to SetFailure, but an Executor-submitted
	// unit built by other means must do the same.
	Submit(work func())
}

// GoroutineExecutor is the trivial Executor that spawns a new goroutine
// per submission. Async launches its work through it; PolicyAsync, when
// no Executor is supplied to Then, spawns its goroutine directly with
// the same effect.
type GoroutineExecutor struct{}

// Submit spawns a new goroutine running work.
func (GoroutineExecutor) Submit(work func()) {
	go work()
}

// InlineExecutor is the trivial Executor that runs work synchronously, on
// the calling goroutine. It's useful in tests, and for adapting code that
// expects an Executor but should behave like the Sync launch policy.
type InlineExecutor struct{}

// Submit runs work on the calling goroutine.
func (InlineExecutor) Submit(work func()) {
	work()
}

// LaunchPolicy selects how a continuation registered through Then is
// dispatched once its upstream settles.
type LaunchPolicy int

const (
	// PolicyAsync runs the continuation on a newly spawned goroutine, or
	// on the Executor supplied to Then, if any. It's the default.
	PolicyAsync LaunchPolicy = iota
	// PolicySync runs the continuation inline: on whichever goroutine
	// settles the upstream cell, or on the calling goroutine if the
	// upstream is already settled at Then time.
	PolicySync
	// PolicyCallback behaves like PolicyAsync, except a secondary
	// goroutine is spawned to wait, with a bounded timeout, for the
	// continuation's work unit to return. That waiter does not read or
	// consume the continuation's Outcome. It's the fire-and-forget sink
	// Finally is built on.
	PolicyCallback
)

func (p LaunchPolicy) String() string {
	switch p {
	case PolicySync:
		return "sync"
	case PolicyCallback:
		return "callback"
	default:
		return "async"
	}
}

// normalize maps any out-of-range policy value to PolicyAsync.
func (p LaunchPolicy) normalize() LaunchPolicy {
	switch p {
	case PolicySync, PolicyCallback:
		return p
	default:
		return PolicyAsync
	}
}

// DefaultCallbackCeiling bounds how long the PolicyCallback policy's
// secondary waiter will block on a continuation before giving up and
// discarding it anyway. It's a leak guard, not a semantic guarantee:
// correct programs never come close to hitting it.
const DefaultCallbackCeiling = time.Hour

// Options configures a Then call beyond its launch policy.
type Options struct {
	// Policy selects the launch policy; the zero value is PolicyAsync.
	Policy LaunchPolicy
	// Executor, if non-nil, receives the continuation's work unit instead
	// of a freshly spawned goroutine, for PolicyAsync and PolicyCallback
	// alike.
	Executor Executor
	// CallbackCeiling overrides DefaultCallbackCeiling for PolicyCallback.
	// Zero means use the default.
	CallbackCeiling time.Duration
}

// WithCallbackCeiling returns an Options value selecting the Callback
// policy with its bounded wait overridden to d, instead of
// DefaultCallbackCeiling.
func WithCallbackCeiling(d time.Duration) Options {
	return Options{Policy: PolicyCallback, CallbackCeiling: d}
}

func (o Options) ceiling() time.Duration {
	if o.CallbackCeiling > 0 {
		return o.CallbackCeiling
	}
	return DefaultCallbackCeiling
}
