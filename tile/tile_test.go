// Copyright 2024 Fincapy, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package tile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeInterner struct {
	toID map[string]uint32
	list []string
}

func newFakeInterner() *fakeInterner {
	return &fakeInterner{toID: map[string]uint32{}}
}

func (f *fakeInterner) IDFor(text string) uint32 {
	if id, ok := f.toID[text]; ok {
		return id
	}
	id := uint32(len(f.list))
	f.toID[text] = id
	f.list = append(f.list, text)
	return id
}

func (f *fakeInterner) TextFor(id uint32) (string, bool) {
	if int(id) >= len(f.list) {
		return "", false
	}
	return f.list[id], true
}

func TestSparseSetGetDelete(t *testing.T) {
	in := newFakeInterner()
	var c Chunk = NewSparse()
	c = c.Set(10, Number(42), in)
	require.True(t, c.Has(10))
	require.Equal(t, Number(42), c.Get(10, in))
	require.Equal(t, 1, c.NonEmptyCount())

	c, removed := c.Delete(10, in)
	require.True(t, removed)
	require.Equal(t, 0, c.NonEmptyCount())
}

func TestPromotionAtHalfFillRatio(t *testing.T) {
	in := newFakeInterner()
	var c Chunk = NewSparse()
	threshold := 2048 // ceil(4096*0.5)
	for i := 0; i < threshold; i++ {
		c = c.Set(i, Number(float64(i)), in)
	}
	_, isDense := c.(*DenseChunk)
	require.True(t, isDense, "expected promotion to dense at fill ratio 0.5")
	require.Equal(t, threshold, c.NonEmptyCount())
	require.Equal(t, Number(32), c.Get(32, in))
}

func TestDemotionAtThirtyPercent(t *testing.T) {
	in := newFakeInterner()
	var c Chunk = NewSparse()
	for i := 0; i < 2048; i++ {
		c = c.Set(i, Text("s"), in)
	}
	_, isDense := c.(*DenseChunk)
	require.True(t, isDense)

	// delete down to exactly floor(4096*0.3) = 1228 remaining.
	removedCount := 2048 - 1228
	var removed bool
	for i := 0; i < removedCount; i++ {
		c, removed = c.Delete(i, in)
	}
	require.False(t, removed)
	_, isSparse := c.(*SparseChunk)
	require.True(t, isSparse, "expected demotion to sparse at fill ratio 0.3")
	require.Equal(t, 1228, c.NonEmptyCount())
	require.Equal(t, Text("s"), c.Get(2000, in))
}

func TestDenseStringRoundTripThroughPromotionAndDemotion(t *testing.T) {
	in := newFakeInterner()
	var c Chunk = NewSparse()
	for i := 0; i < 2100; i++ {
		c = c.Set(i, Text("hello"), in)
	}
	require.IsType(t, &DenseChunk{}, c)
	require.Equal(t, Text("hello"), c.Get(5, in))

	for i := 0; i < 1700; i++ {
		c, _ = c.Delete(i, in)
	}
	require.IsType(t, &SparseChunk{}, c)
	require.Equal(t, Text("hello"), c.Get(2050, in))
}

func TestBooleanDistinctFromNumeric(t *testing.T) {
	in := newFakeInterner()
	var c Chunk = NewDense()
	c = c.Set(0, Boolean(true), in)
	c = c.Set(1, Number(1), in)
	require.Equal(t, Boolean(true), c.Get(0, in))
	require.Equal(t, Number(1), c.Get(1, in))
	require.False(t, c.Get(0, in).Equal(c.Get(1, in)))

	c = c.Set(0, Boolean(false), in)
	require.Equal(t, Boolean(false), c.Get(0, in))
}

func TestChunkEmptyIsDroppedSignal(t *testing.T) {
	in := newFakeInterner()
	var c Chunk = NewSparse()
	c = c.Set(0, Number(1), in)
	_, removed := c.Delete(0, in)
	require.True(t, removed)
}
