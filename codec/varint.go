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

// Package codec implements the engine's deterministic binary wire format:
// unsigned varint, byte RLE, float64 packing, and the dense/sparse chunk
// encodings. Grounded on tidb's own wire-level
// conventions (tidb's chunk package packs rows into byte buffers with
// fixed-width and length-prefixed fields); the varint/RLE primitives
// follow the classic LEB128 / run-length schemes used across the wire format.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/fincapy/radsheet-sub000/errs"
)

// PutUvarint appends the base-128 little-endian continuation-bit
// encoding of v to buf, returning the extended slice. Values 0..127 fit
// in one byte.
func PutUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// ReadUvarint decodes a varint from buf starting at offset, returning the
// value and the offset just past it. Returns a DecodeError if buf is
// truncated.
func ReadUvarint(buf []byte, offset int) (uint64, int, error) {
	v, n := binary.Uvarint(buf[offset:])
	if n <= 0 {
		return 0, offset, errs.Wrap(errs.ErrDecodeError, "truncated varint")
	}
	return v, offset + n, nil
}

// PutFloat64 appends the little-endian 8-byte encoding of f to buf.
func PutFloat64(buf []byte, f float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
	return append(buf, tmp[:]...)
}

// ReadFloat64 decodes a float64 from buf at offset.
func ReadFloat64(buf []byte, offset int) (float64, int, error) {
	if offset+8 > len(buf) {
		return 0, offset, errs.Wrap(errs.ErrDecodeError, "truncated float64")
	}
	bits := binary.LittleEndian.Uint64(buf[offset : offset+8])
	return math.Float64frombits(bits), offset + 8, nil
}
