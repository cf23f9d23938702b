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

// traceEvent names a cell-state transition for the debug tracer. It's
// only ever consulted when the future_debug build tag is set; in a
// normal build debugTrace is a no-op.
type traceEvent int

const (
	traceSettle traceEvent = iota
	traceTimeout
	traceRetrieve
	traceAttachPending
	traceAttachImmediate
)

func (e traceEvent) String() string {
	switch e {
	case traceSettle:
		return "settle"
	case traceTimeout:
		return "timeout"
	case traceRetrieve:
		return "retrieve"
	case traceAttachPending:
		return "attach-pending"
	case traceAttachImmediate:
		return "attach-immediate"
	default:
		return "<unknown>"
	}
}

// debugTrace is called at every cell-state transition. The default, set
// here, does nothing; building with -tags future_debug replaces it, in
// debug_enabled.go's init, with one that logs to os.Stderr.
var debugTrace = func(event traceEvent) {}
