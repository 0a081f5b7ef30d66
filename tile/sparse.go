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

import "sort"

// SparseChunk maps local index to CellValue, holding only non-empty
// cells. Memory cost is proportional to NonEmptyCount.
type SparseChunk struct {
	entries map[int]Value
	count   int
	dirty   bool
}

var _ Chunk = (*SparseChunk)(nil)

// NewSparseFromEntries builds a SparseChunk from decoded (index, value)
// pairs (used by the codec's decoder).
func NewSparseFromEntries(entries []IndexedValue) *SparseChunk {
	s := NewSparse()
	for _, e := range entries {
		s.entries[e.Index] = e.Value
	}
	s.count = len(entries)
	return s
}

func (c *SparseChunk) Get(idx int, _ Interner) Value {
	if v, ok := c.entries[idx]; ok {
		return v
	}
	return Empty
}

func (c *SparseChunk) Has(idx int) bool {
	_, ok := c.entries[idx]
	return ok
}

func (c *SparseChunk) NonEmptyCount() int { return c.count }
func (c *SparseChunk) Dirty() bool        { return c.dirty }
func (c *SparseChunk) SetDirty(d bool)     { c.dirty = d }
func (c *SparseChunk) FillRatio() float64  { return fillRatio(c.count) }

// Set writes a non-empty value, promoting to a DenseChunk in place (same
// conceptual slot) once the fill ratio crosses PromoteRatio.
func (c *SparseChunk) Set(idx int, v Value, in Interner) Chunk {
	if _, existed := c.entries[idx]; !existed {
		c.count++
	}
	c.entries[idx] = v
	c.dirty = true

	if c.FillRatio() >= PromoteRatio {
		return c.promote(in)
	}
	return c
}

// Delete clears idx. A sparse chunk never demotes further; it is dropped
// from the cache entirely once count reaches zero.
func (c *SparseChunk) Delete(idx int, _ Interner) (Chunk, bool) {
	if _, existed := c.entries[idx]; !existed {
		return c, c.count == 0
	}
	delete(c.entries, idx)
	c.count--
	c.dirty = true
	return c, c.count == 0
}

// promote rebuilds a DenseChunk from the sparse entries, interning
// strings as needed, and marks it dirty.
func (c *SparseChunk) promote(in Interner) *DenseChunk {
	d := NewDense()
	for idx, v := range c.entries {
		switch v.Tag {
		case TagNumber:
			d.tag[idx] = uint8(TagNumber)
			d.number[idx] = v.Num
		case TagBoolean:
			d.tag[idx] = uint8(TagBoolean)
			if v.Bool {
				d.number[idx] = 1
			}
		case TagString:
			d.tag[idx] = uint8(TagString)
			d.stringID[idx] = in.IDFor(v.Str)
		}
	}
	d.count = c.count
	d.dirty = true
	return d
}

// Snapshot returns a copy of (local index, value) pairs, sorted ascending
// by index, for immutable handoff to the persistence pipeline
// or to the byte codec.
func (c *SparseChunk) Snapshot() []IndexedValue {
	out := make([]IndexedValue, 0, len(c.entries))
	for idx, v := range c.entries {
		out = append(out, IndexedValue{Index: idx, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// IndexedValue pairs a local index with its value, used for sparse-chunk
// snapshots and sorted iteration.
type IndexedValue struct {
	Index int
	Value Value
}
