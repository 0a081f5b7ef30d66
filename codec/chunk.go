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

package codec

import (
	"github.com/fincapy/radsheet-sub000/chunkcoord"
	"github.com/fincapy/radsheet-sub000/errs"
	"github.com/fincapy/radsheet-sub000/tile"
)

// Magic bytes identifying the two wire formats.
const (
	MagicDense  byte = 0x44 // 'D'
	MagicSparse byte = 0x53 // 'S'
	Version     byte = 0x01
)

// Interner is the minimal id-allocation surface the sparse encoder needs
// to turn resolved string values back into wire ids; a DenseChunk never
// calls it since it already stores ids.
type Interner interface {
	IDFor(text string) uint32
}

// TextInterner is the read-side counterpart: resolving a wire-format
// string id back to text when rebuilding a sparse chunk's resolved
// entries.
type TextInterner interface {
	TextFor(id uint32) (string, bool)
}

// EncodeChunk dispatches on c's variant and produces its wire-format byte
// sequence. Encoding is deterministic: the same chunk contents always
// produce identical bytes. in is used only for the sparse path, to
// resolve string values to their interned ids.
func EncodeChunk(c tile.Chunk, in Interner) []byte {
	switch v := c.(type) {
	case *tile.DenseChunk:
		return encodeDense(v)
	case *tile.SparseChunk:
		return encodeSparse(v, in)
	default:
		panic("codec: unknown chunk variant")
	}
}

func encodeDense(d *tile.DenseChunk) []byte {
	tags := make([]byte, chunkcoord.CellsPerChunk)
	var numbers []float64
	var stringIDs []uint32
	for idx := 0; idx < chunkcoord.CellsPerChunk; idx++ {
		t := d.RawTag(idx)
		tags[idx] = byte(t)
		switch t {
		case tile.TagNumber, tile.TagBoolean:
			numbers = append(numbers, d.RawNumber(idx))
		case tile.TagString:
			stringIDs = append(stringIDs, d.StringID(idx))
		}
	}

	rle := RLEEncode(tags)

	out := make([]byte, 0, len(rle)+len(numbers)*8+len(stringIDs)*2+16)
	out = append(out, MagicDense, Version)
	out = PutUvarint(out, uint64(len(rle)))
	out = append(out, rle...)
	out = PutUvarint(out, uint64(len(numbers)))
	for _, f := range numbers {
		out = PutFloat64(out, f)
	}
	out = PutUvarint(out, uint64(len(stringIDs)))
	for _, id := range stringIDs {
		out = PutUvarint(out, uint64(id))
	}
	return out
}

func encodeSparse(s *tile.SparseChunk, in Interner) []byte {
	entries := s.Snapshot()
	out := make([]byte, 0, len(entries)*10+8)
	out = append(out, MagicSparse, Version)
	out = PutUvarint(out, uint64(len(entries)))

	prev := 0
	for i, e := range entries {
		delta := e.Index
		if i > 0 {
			delta = e.Index - prev
		}
		out = PutUvarint(out, uint64(delta))
		prev = e.Index

		switch e.Value.Tag {
		case tile.TagNumber:
			out = append(out, byte(tile.TagNumber))
			out = PutFloat64(out, e.Value.Num)
		case tile.TagBoolean:
			out = append(out, byte(tile.TagBoolean))
			if e.Value.Bool {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		case tile.TagString:
			out = append(out, byte(tile.TagString))
			out = PutUvarint(out, uint64(in.IDFor(e.Value.Str)))
		}
	}
	return out
}

// DecodeChunk dispatches on the magic byte and rebuilds a tile.Chunk. It
// rejects unknown tags or an unknown/mismatched magic/version with a
// DecodeError: the affected chunk is treated as absent by the
// caller, which must not mutate the hot cache on this error.
func DecodeChunk(buf []byte, in TextInterner) (tile.Chunk, error) {
	if len(buf) < 2 {
		return nil, errs.Wrap(errs.ErrDecodeError, "chunk blob too short")
	}
	if buf[1] != Version {
		return nil, errs.Wrap(errs.ErrDecodeError, "unknown chunk version")
	}
	switch buf[0] {
	case MagicDense:
		return decodeDense(buf[2:])
	case MagicSparse:
		return decodeSparse(buf[2:], in)
	default:
		return nil, errs.Wrap(errs.ErrDecodeError, "unknown chunk magic byte")
	}
}

func decodeDense(buf []byte) (tile.Chunk, error) {
	off := 0
	rleLen, off, err := ReadUvarint(buf, off)
	if err != nil {
		return nil, err
	}
	if off+int(rleLen) > len(buf) {
		return nil, errs.Wrap(errs.ErrDecodeError, "truncated RLE payload")
	}
	rleBytes := buf[off : off+int(rleLen)]
	off += int(rleLen)

	tags, err := RLEDecode(rleBytes, chunkcoord.CellsPerChunk)
	if err != nil {
		return nil, err
	}

	numericCount, off2, err := ReadUvarint(buf, off)
	if err != nil {
		return nil, err
	}
	off = off2
	numbers := make([]float64, numericCount)
	for i := range numbers {
		var f float64
		f, off, err = ReadFloat64(buf, off)
		if err != nil {
			return nil, err
		}
		numbers[i] = f
	}

	stringCount, off3, err := ReadUvarint(buf, off)
	if err != nil {
		return nil, err
	}
	off = off3
	stringIDs := make([]uint32, stringCount)
	for i := range stringIDs {
		var v uint64
		v, off, err = ReadUvarint(buf, off)
		if err != nil {
			return nil, err
		}
		stringIDs[i] = uint32(v)
	}

	var tagArr [chunkcoord.CellsPerChunk]uint8
	var numberArr [chunkcoord.CellsPerChunk]float64
	var stringArr [chunkcoord.CellsPerChunk]uint32

	numIdx, strIdx := 0, 0
	for idx, t := range tags {
		tagArr[idx] = t
		switch tile.Tag(t) {
		case tile.TagNumber, tile.TagBoolean:
			if numIdx >= len(numbers) {
				return nil, errs.Wrap(errs.ErrDecodeError, "numeric payload shorter than tag array implies")
			}
			numberArr[idx] = numbers[numIdx]
			numIdx++
		case tile.TagString:
			if strIdx >= len(stringIDs) {
				return nil, errs.Wrap(errs.ErrDecodeError, "string payload shorter than tag array implies")
			}
			stringArr[idx] = stringIDs[strIdx]
			strIdx++
		}
	}
	if numIdx != len(numbers) || strIdx != len(stringIDs) {
		return nil, errs.Wrap(errs.ErrDecodeError, "payload longer than tag array implies")
	}

	return tile.NewDenseFromArrays(tagArr, numberArr, stringArr), nil
}

func decodeSparse(buf []byte, in TextInterner) (tile.Chunk, error) {
	off := 0
	entryCount, off2, err := ReadUvarint(buf, off)
	off = off2
	if err != nil {
		return nil, err
	}

	entries := make([]tile.IndexedValue, 0, entryCount)
	cur := 0
	for i := uint64(0); i < entryCount; i++ {
		var delta uint64
		delta, off, err = ReadUvarint(buf, off)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			cur = int(delta)
		} else {
			cur += int(delta)
		}
		if off >= len(buf) {
			return nil, errs.Wrap(errs.ErrDecodeError, "truncated sparse entry tag")
		}
		valueTag := tile.Tag(buf[off])
		off++

		var v tile.Value
		switch valueTag {
		case tile.TagNumber:
			var f float64
			f, off, err = ReadFloat64(buf, off)
			if err != nil {
				return nil, err
			}
			v = tile.Number(f)
		case tile.TagBoolean:
			if off >= len(buf) {
				return nil, errs.Wrap(errs.ErrDecodeError, "truncated sparse boolean payload")
			}
			v = tile.Boolean(buf[off] != 0)
			off++
		case tile.TagString:
			var id uint64
			id, off, err = ReadUvarint(buf, off)
			if err != nil {
				return nil, err
			}
			text, _ := in.TextFor(uint32(id))
			v = tile.Text(text)
		default:
			return nil, errs.Wrap(errs.ErrDecodeError, "unknown sparse value tag")
		}
		entries = append(entries, tile.IndexedValue{Index: cur, Value: v})
	}

	return tile.NewSparseFromEntries(entries), nil
}
