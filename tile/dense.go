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

// DenseChunk is a struct-of-arrays tile: parallel tag/number/string-id
// arrays of length CellsPerChunk. Booleans are stored as 0/1 in number.
// Empty cells have tag == TagEmpty.
type DenseChunk struct {
	tag      [chunkcoord.CellsPerChunk]uint8
	number   [chunkcoord.CellsPerChunk]float64
	stringID [chunkcoord.CellsPerChunk]uint32
	count    int
	dirty    bool
}

var _ Chunk = (*DenseChunk)(nil)

// NewDenseFromArrays builds a DenseChunk from already-decoded tag/number/
// string-id arrays (used by the codec's decoder). NonEmptyCount is
// recomputed by counting non-zero tags.
func NewDenseFromArrays(tag [chunkcoord.CellsPerChunk]uint8, number [chunkcoord.CellsPerChunk]float64, stringID [chunkcoord.CellsPerChunk]uint32) *DenseChunk {
	d := &DenseChunk{tag: tag, number: number, stringID: stringID}
	for _, t := range tag {
		if t != uint8(TagEmpty) {
			d.count++
		}
	}
	return d
}

func (d *DenseChunk) Get(idx int, in Interner) Value {
	switch Tag(d.tag[idx]) {
	case TagNumber:
		return Number(d.number[idx])
	case TagBoolean:
		return Boolean(d.number[idx] != 0)
	case TagString:
		text, _ := in.TextFor(d.stringID[idx])
		return Value{Tag: TagString, Str: text}
	default:
		return Empty
	}
}

// StringID returns the interned string id stored at idx (valid only when
// the tag at idx is TagString). Used by the codec, which encodes ids
// directly without resolving to text.
func (d *DenseChunk) StringID(idx int) uint32 { return d.stringID[idx] }

// RawTag returns the tag byte stored at idx, used by the codec to walk
// the tag array without going through Get's interner resolution.
func (d *DenseChunk) RawTag(idx int) Tag { return Tag(d.tag[idx]) }

// RawNumber returns the numeric slot at idx (valid for number/boolean
// tags), used by the codec.
func (d *DenseChunk) RawNumber(idx int) float64 { return d.number[idx] }

func (d *DenseChunk) Has(idx int) bool { return Tag(d.tag[idx]) != TagEmpty }

func (d *DenseChunk) NonEmptyCount() int { return d.count }
func (d *DenseChunk) Dirty() bool        { return d.dirty }
func (d *DenseChunk) SetDirty(v bool)    { d.dirty = v }
func (d *DenseChunk) FillRatio() float64 { return fillRatio(d.count) }

// Set writes tag/number/string-id appropriately. Writing to dense never
// demotes on its own (only Delete can lower the count).
func (d *DenseChunk) Set(idx int, v Value, in Interner) Chunk {
	wasEmpty := Tag(d.tag[idx]) == TagEmpty
	switch v.Tag {
	case TagNumber:
		d.tag[idx] = uint8(TagNumber)
		d.number[idx] = v.Num
		d.stringID[idx] = 0
	case TagBoolean:
		d.tag[idx] = uint8(TagBoolean)
		if v.Bool {
			d.number[idx] = 1
		} else {
			d.number[idx] = 0
		}
		d.stringID[idx] = 0
	case TagString:
		d.tag[idx] = uint8(TagString)
		d.number[idx] = 0
		d.stringID[idx] = in.IDFor(v.Str)
	}
	if wasEmpty {
		d.count++
	}
	d.dirty = true
	return d
}

// Delete resets the cell (tag = Empty, number = 0, string-id = 0) and
// decrements the count. If the count is positive and the ratio drops to
// DemoteRatio or below, the chunk demotes to sparse; if the count reaches
// zero, the caller is told to drop the chunk.
func (d *DenseChunk) Delete(idx int, in Interner) (Chunk, bool) {
	if Tag(d.tag[idx]) == TagEmpty {
		return d, d.count == 0
	}
	d.tag[idx] = uint8(TagEmpty)
	d.number[idx] = 0
	d.stringID[idx] = 0
	d.count--
	d.dirty = true

	if d.count == 0 {
		return d, true
	}
	if d.FillRatio() <= DemoteRatio {
		return d.demote(in), false
	}
	return d, false
}

// demote rebuilds a SparseChunk from the dense arrays, resolving string
// ids back to text via in so the sparse representation holds fully
// resolved CellValues like every other sparse entry.
func (d *DenseChunk) demote(in Interner) *SparseChunk {
	s := NewSparse()
	for idx := 0; idx < chunkcoord.CellsPerChunk; idx++ {
		switch Tag(d.tag[idx]) {
		case TagNumber:
			s.entries[idx] = Number(d.number[idx])
			s.count++
		case TagBoolean:
			s.entries[idx] = Boolean(d.number[idx] != 0)
			s.count++
		case TagString:
			text, _ := in.TextFor(d.stringID[idx])
			s.entries[idx] = Text(text)
			s.count++
		}
	}
	s.dirty = true
	return s
}
