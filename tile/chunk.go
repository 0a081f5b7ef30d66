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

import "github.com/fincapy/radsheet-sub000/chunkcoord"

// PromoteRatio is the fill ratio at which a SparseChunk is converted to a
// DenseChunk in place.
const PromoteRatio = 0.5

// DemoteRatio is the fill ratio at or below which a DenseChunk (with
// NonEmptyCount > 0) is converted back to a SparseChunk.
const DemoteRatio = 0.3

// Interner is the subset of intern.Interner's API a tile needs to resolve
// and allocate string ids. Declared locally so this package does not
// import intern, keeping the dependency direction leaf-ward.
type Interner interface {
	IDFor(text string) uint32
	TextFor(id uint32) (string, bool)
}

// Chunk is one 64x64 tile, in either its sparse or dense representation.
// Callers must only call Set/Delete with the chunk obtained from the hot
// cache and must replace their reference with the returned Chunk, since a
// write can promote or demote the underlying representation.
type Chunk interface {
	// Get returns the value at local index idx (0..4095), or Empty. in
	// resolves string ids to text for dense chunks; sparse chunks ignore
	// it since their entries already hold resolved values.
	Get(idx int, in Interner) Value
	// Has reports whether idx holds a non-empty value.
	Has(idx int) bool
	// Set writes a non-empty value at idx, returning the chunk to keep
	// (itself, or a newly promoted/demoted replacement). Callers must not
	// call Set with an Empty value; route that to Delete instead.
	Set(idx int, v Value, in Interner) Chunk
	// Delete clears idx, returning the chunk to keep and whether the
	// chunk is now completely empty and should be dropped from the cache.
	// in is consulted only on a dense-to-sparse demotion, to resolve
	// string ids back to text for the sparse representation.
	Delete(idx int, in Interner) (Chunk, bool)
	// NonEmptyCount returns the number of non-empty cells.
	NonEmptyCount() int
	// Dirty reports whether the chunk has unpersisted writes.
	Dirty() bool
	// SetDirty sets the dirty flag, e.g. after a successful persist.
	SetDirty(bool)
	// FillRatio returns NonEmptyCount / CellsPerChunk.
	FillRatio() float64
}

func fillRatio(count int) float64 {
	return float64(count) / float64(chunkcoord.CellsPerChunk)
}

// NewSparse allocates an empty sparse chunk.
func NewSparse() *SparseChunk {
	return &SparseChunk{entries: make(map[int]Value)}
}

// NewDense allocates a dense chunk with zero-initialized arrays.
func NewDense() *DenseChunk {
	return &DenseChunk{}
}
