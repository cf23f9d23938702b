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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromise_SetValueThenGetFuture(t *testing.T) {
	p := NewPromise[int]()
	p.SetValue(7)

	f := p.GetFuture()
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestPromise_GetFutureThenSetValue(t *testing.T) {
	p := NewPromise[int]()
	f := p.GetFuture()
	p.SetValue(7)

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestPromise_SetFailure(t *testing.T) {
	p := NewPromise[int]()
	failure := errors.New("boom")
	p.SetFailure(failure)

	_, err := p.GetFuture().Get()
	assert.ErrorIs(t, err, failure)
}

func TestPromise_SetFailureNilPanics(t *testing.T) {
	p := NewPromise[int]()
	assert.Panics(t, func() {
		p.SetFailure(nil)
	})
}

func TestPromise_SecondSettlementIsSilentNoOp(t *testing.T) {
	p := NewPromise[int]()
	p.SetValue(1)
	p.SetValue(2)
	p.SetFailure(errors.New("ignored"))

	v, err := p.GetFuture().Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestPromise_IsReady(t *testing.T) {
	p := NewPromise[int]()
	assert.False(t, p.IsReady())
	p.SetValue(1)
	assert.True(t, p.IsReady())
}

func TestPromise_GetFutureCalledTwicePoisonsTheSecond(t *testing.T) {
	p := NewPromise[int]()
	first := p.GetFuture()
	second := p.GetFuture()

	p.SetValue(1)

	v, err := first.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = second.Get()
	assert.ErrorIs(t, err, ErrAlreadyRetrieved)
}
