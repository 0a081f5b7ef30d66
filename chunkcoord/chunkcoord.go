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

// Package chunkcoord implements the packed chunk-key and local-index math
// that every other layer of the engine addresses cells through.
package chunkcoord

const (
	// ChunkBits is the power-of-two size of a chunk edge: chunks are
	// ChunkSize x ChunkSize cells.
	ChunkBits = 6
	// ChunkSize is the number of rows (and columns) in one chunk.
	ChunkSize = 1 << ChunkBits // 64
	// CellsPerChunk is the total number of cell slots in one chunk.
	CellsPerChunk = ChunkSize * ChunkSize // 4096

	chunkColMultiplier = 1 << 20
	localMask          = ChunkSize - 1
)

// Key is an opaque packed chunk coordinate, treated as an opaque 64-bit
// integer for hashing and as the repository's blob key.
type Key uint64

// ChunkRow and ChunkCol return the row and column of the 64x64 chunk
// containing the given global row/col.
func ChunkRow(row int) int { return row >> ChunkBits }
func ChunkCol(col int) int { return col >> ChunkBits }

// MakeKey packs a chunk's (row, col) into a single opaque key:
// chunk_key(row, col) = (row>>6) * 2^20 + (col>>6).
func MakeKey(row, col int) Key {
	return KeyFromChunkCoord(ChunkRow(row), ChunkCol(col))
}

// KeyFromChunkCoord packs already-divided chunk coordinates into a Key.
func KeyFromChunkCoord(chunkRow, chunkCol int) Key {
	return Key(int64(chunkRow)*chunkColMultiplier + int64(chunkCol))
}

// Split decomposes a Key back into its chunk row and column.
func (k Key) Split() (chunkRow, chunkCol int) {
	v := int64(k)
	return int(v / chunkColMultiplier), int(v % chunkColMultiplier)
}

// LocalIndex computes local_index(row, col) = ((row&63)<<6) | (col&63),
// the 0..4095 slot within a chunk's arrays/map.
func LocalIndex(row, col int) int {
	return ((row & localMask) << ChunkBits) | (col & localMask)
}

// LocalRowCol inverts LocalIndex, returning the (local_row, local_col)
// pair for a slot in 0..4095.
func LocalRowCol(idx int) (localRow, localCol int) {
	return idx >> ChunkBits, idx & localMask
}
