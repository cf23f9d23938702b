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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhenAny_EmptyInputsIsAlreadyReady(t *testing.T) {
	f := WhenAny[int]()
	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, out.Index)
	assert.True(t, out.Outcome.IsEmpty())
}

func TestWhenAny_PicksTheFirstToSettle(t *testing.T) {
	slow := NewPromise[int]()
	fast := NewPromise[int]()

	f := WhenAny(slow.GetFuture(), fast.GetFuture())
	fast.SetValue(2)

	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Index)
	assert.Equal(t, 2, out.Outcome.MustValue())

	// the loser settling afterward must not panic or deadlock.
	slow.SetValue(1)
}

func TestWhenAny_AllAlreadyReadyStillPicksExactlyOne(t *testing.T) {
	inputs := make([]Future[int], 5)
	for i := range inputs {
		inputs[i] = MakeReady(i)
	}

	out, err := WhenAny(inputs...).Get()
	require.NoError(t, err)
	assert.True(t, out.Index >= 0 && out.Index < len(inputs))
	assert.Equal(t, out.Index, out.Outcome.MustValue())
}

func TestWhenAny_InvalidInputBecomesAContender(t *testing.T) {
	var invalid Future[int]
	slow := NewPromise[int]()

	f := WhenAny(slow.GetFuture(), invalid)
	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Index)

	_, hasFailure := out.Outcome.Failure()
	assert.True(t, hasFailure)
}

func TestWhenAll_EmptyInputsIsAlreadyReady(t *testing.T) {
	f := WhenAll[int]()
	out, err := f.Get()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestWhenAll_CollectsInInputOrder(t *testing.T) {
	a := NewPromise[int]()
	b := NewPromise[int]()
	c := NewPromise[int]()

	f := WhenAll(a.GetFuture(), b.GetFuture(), c.GetFuture())

	// settle out of order; the result must still follow input order.
	c.SetValue(3)
	a.SetValue(1)
	b.SetValue(2)

	out, err := f.Get()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].MustValue())
	assert.Equal(t, 2, out[1].MustValue())
	assert.Equal(t, 3, out[2].MustValue())
}

func TestWhenAll_CarriesIndividualFailures(t *testing.T) {
	failure := errors.New("boom")
	f := WhenAll(MakeReady(1), MakeFailed[int](failure))

	out, err := f.Get()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].MustValue())

	gotErr, ok := out[1].Failure()
	assert.True(t, ok)
	assert.ErrorIs(t, gotErr, failure)
}

func TestFailuresOf(t *testing.T) {
	t.Run("nil when nothing failed", func(t *testing.T) {
		out, err := WhenAll(MakeReady(1), MakeReady(2)).Get()
		require.NoError(t, err)
		assert.NoError(t, FailuresOf(out))
	})

	t.Run("the lone error when exactly one failed", func(t *testing.T) {
		failure := errors.New("boom")
		out, err := WhenAll(MakeReady(1), MakeFailed[int](failure)).Get()
		require.NoError(t, err)
		assert.ErrorIs(t, FailuresOf(out), failure)
	})

	t.Run("a MultiError when more than one failed", func(t *testing.T) {
		f1, f2 := errors.New("one"), errors.New("two")
		out, err := WhenAll(MakeFailed[int](f1), MakeFailed[int](f2)).Get()
		require.NoError(t, err)

		combined := FailuresOf(out)
		var multi *MultiError
		require.ErrorAs(t, combined, &multi)
		assert.Len(t, multi.Errs, 2)
	})
}

func TestWhenAll2Through5(t *testing.T) {
	t.Run("WhenAll2", func(t *testing.T) {
		tup, err := WhenAll2(MakeReady(1), MakeReady("two")).Get()
		require.NoError(t, err)
		assert.Equal(t, 1, tup.A.MustValue())
		assert.Equal(t, "two", tup.B.MustValue())
	})

	t.Run("WhenAll3", func(t *testing.T) {
		tup, err := WhenAll3(MakeReady(1), MakeReady("two"), MakeReady(3.0)).Get()
		require.NoError(t, err)
		assert.Equal(t, 1, tup.A.MustValue())
		assert.Equal(t, "two", tup.B.MustValue())
		assert.Equal(t, 3.0, tup.C.MustValue())
	})

	t.Run("WhenAll4", func(t *testing.T) {
		tup, err := WhenAll4(MakeReady(1), MakeReady("two"), MakeReady(3.0), MakeReady(true)).Get()
		require.NoError(t, err)
		assert.Equal(t, 1, tup.A.MustValue())
		assert.True(t, tup.D.MustValue())
	})

	t.Run("WhenAll5", func(t *testing.T) {
		failure := errors.New("five boom")
		tup, err := WhenAll5(
			MakeReady(1), MakeReady("two"), MakeReady(3.0), MakeReady(true), MakeFailed[byte](failure),
		).Get()
		require.NoError(t, err)
		assert.Equal(t, 1, tup.A.MustValue())
		gotErr, ok := tup.E.Failure()
		assert.True(t, ok)
		assert.ErrorIs(t, gotErr, failure)
	})
}

func TestShuffledIndices_IsAPermutation(t *testing.T) {
	const n = 20
	idx := shuffledIndices(n)
	require.Len(t, idx, n)

	seen := make(map[int]bool, n)
	for _, v := range idx {
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, n)
		assert.False(t, seen[v], "index %d returned more than once", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
}

func TestShuffledIndices_ZeroAndOne(t *testing.T) {
	assert.Empty(t, shuffledIndices(0))
	assert.Equal(t, []int{0}, shuffledIndices(1))
}

func TestWhenAll_InputTimedOutBeforeSettlingBecomesErrTimeoutFailure(t *testing.T) {
	p := NewPromise[int]()
	slow := p.GetFuture()

	f := WhenAll(MakeReady(1), slow)
	// register WhenAll's continuation on slow before it times out.
	slow.WaitFor(10 * time.Millisecond)

	out, err := f.Get()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].MustValue())

	gotErr, ok := out[1].Failure()
	assert.True(t, ok)
	assert.ErrorIs(t, gotErr, ErrTimeout)
}

func TestWhenAny_InputTimedOutBeforeSettlingBecomesAContender(t *testing.T) {
	p := NewPromise[int]()
	slow := p.GetFuture()

	f := WhenAny(slow)
	slow.WaitFor(10 * time.Millisecond)

	out, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, out.Index)

	gotErr, ok := out.Outcome.Failure()
	assert.True(t, ok)
	assert.ErrorIs(t, gotErr, ErrTimeout)
}

func TestWhenAll_WaitsForTheSlowestInput(t *testing.T) {
	p := NewPromise[int]()
	f := WhenAll(MakeReady(1), p.GetFuture())

	status := f.WaitFor(20 * time.Millisecond)
	assert.Equal(t, StatusTimeout, status)

	p.SetValue(2)
}
