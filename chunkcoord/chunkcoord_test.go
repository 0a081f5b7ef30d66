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

package chunkcoord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeKeySplit(t *testing.T) {
	k := MakeKey(130, 70)
	require.Equal(t, 2, ChunkRow(130))
	require.Equal(t, 1, ChunkCol(70))
	row, col := k.Split()
	require.Equal(t, 2, row)
	require.Equal(t, 1, col)
}

func TestLocalIndexRoundTrip(t *testing.T) {
	for row := 0; row < ChunkSize; row++ {
		for col := 0; col < ChunkSize; col += 7 {
			idx := LocalIndex(row, col)
			lr, lc := LocalRowCol(idx)
			require.Equal(t, row, lr)
			require.Equal(t, col, lc)
		}
	}
}

func TestLocalIndexWrapsGlobalCoordinate(t *testing.T) {
	require.Equal(t, LocalIndex(0, 0), LocalIndex(ChunkSize, ChunkSize))
	require.Equal(t, CellsPerChunk, ChunkSize*ChunkSize)
}

func TestKeyDistinctForDistinctChunks(t *testing.T) {
	seen := map[Key]bool{}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			k := KeyFromChunkCoord(r, c)
			require.False(t, seen[k], "collision at (%d,%d)", r, c)
			seen[k] = true
		}
	}
}
