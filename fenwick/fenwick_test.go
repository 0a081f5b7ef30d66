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

package fenwick

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumIsPrefixSum(t *testing.T) {
	tr := FromBitmap([]bool{true, false, true, true, false, true})
	require.Equal(t, int64(0), tr.Sum(0))
	require.Equal(t, int64(1), tr.Sum(1))
	require.Equal(t, int64(1), tr.Sum(2))
	require.Equal(t, int64(2), tr.Sum(3))
	require.Equal(t, int64(3), tr.Sum(4))
	require.Equal(t, int64(4), tr.Sum(6))
	require.Equal(t, int64(4), tr.Total())
}

func TestFindKthLocatesSmallestQualifyingIndex(t *testing.T) {
	tr := FromBitmap([]bool{true, false, true, true, false, true})
	// set bits at 0, 2, 3, 5 -> ranks 1,2,3,4
	pos, ok := tr.FindKth(1)
	require.True(t, ok)
	require.Equal(t, 0, pos)

	pos, ok = tr.FindKth(2)
	require.True(t, ok)
	require.Equal(t, 2, pos)

	pos, ok = tr.FindKth(3)
	require.True(t, ok)
	require.Equal(t, 3, pos)

	pos, ok = tr.FindKth(4)
	require.True(t, ok)
	require.Equal(t, 5, pos)
}

func TestFindKthRejectsOutOfRange(t *testing.T) {
	tr := FromBitmap([]bool{true, false, true})
	_, ok := tr.FindKth(0)
	require.False(t, ok)
	_, ok = tr.FindKth(3)
	require.False(t, ok)
}

func TestAddAndSetToggleBits(t *testing.T) {
	tr := New(8)
	tr.Set(0, true)
	tr.Set(3, true)
	require.Equal(t, int64(2), tr.Total())
	pos, ok := tr.FindKth(2)
	require.True(t, ok)
	require.Equal(t, 3, pos)

	tr.Set(0, false)
	require.Equal(t, int64(1), tr.Total())
	pos, ok = tr.FindKth(1)
	require.True(t, ok)
	require.Equal(t, 3, pos)
}

func TestEmptyBitmapHasNoKth(t *testing.T) {
	tr := New(10)
	_, ok := tr.FindKth(1)
	require.False(t, ok)
	require.Equal(t, int64(0), tr.Total())
}
