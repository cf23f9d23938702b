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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout is returned by Get or Then when a prior WaitFor/WaitUntil
	// call poisoned the cell.
	ErrTimeout = errors.New("future: timeout")

	// ErrAlreadyRetrieved is returned by Get or Then when the cell has
	// already been consumed by a previous Get call.
	ErrAlreadyRetrieved = errors.New("future: already retrieved")

	// ErrNotInitialized is returned by Outcome.Value when the Outcome is
	// still empty. Outcome.Failure never returns it: its comma-ok result
	// only ever reports whether this Outcome is Failure-tagged, so an
	// empty Outcome gets (nil, false) from it, the same as a Value one.
	ErrNotInitialized = errors.New("future: outcome not initialized")

	// ErrNilCallback is the panic value raised by Then/Finally when given
	// a nil callback.
	ErrNilCallback = errors.New("future: nil callback")
)

// PanicError wraps a value recovered from a panicking continuation, so
// that it still flows through the Failure channel of an Outcome instead
// of crashing the goroutine the dispatcher runs on.
type PanicError struct {
	V any
}

func newPanicError(v any) *PanicError {
	return &PanicError{V: v}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("future: panic in continuation: %v", e.V)
}

// MultiError aggregates the failures of several settled Outcomes, as
// returned by FailuresOf when more than one of its Outcomes failed.
type MultiError struct {
	Errs []error
}

func newMultiError(errs ...error) *MultiError {
	return &MultiError{Errs: errs}
}

func (e *MultiError) Error() string {
	b := strings.Builder{}
	for i, err := range e.Errs {
		if i != 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *MultiError) Unwrap() []error { return e.Errs }
