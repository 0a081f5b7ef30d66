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

// Package tile implements the two chunk representations — sparse map and
// dense struct-of-arrays — and the promotion/demotion transitions between
// them. Grounded on vogtb-go-spreadsheet's Chunk (lazily
// allocated SoA arrays keyed by cell type) and further adapted to the
// always-allocated 4096-slot dense layout and fixed promote/demote
// thresholds this engine requires.
package tile

// Tag identifies a CellValue's variant. Tag values double as the dense
// chunk's per-slot tag byte and the sparse chunk's wire-format value_tag
// so they must not be renumbered independently of the codec.
type Tag uint8

const (
	TagEmpty   Tag = 0
	TagNumber  Tag = 1
	TagString  Tag = 2
	TagBoolean Tag = 3
)

// Value is the tagged-union CellValue: Empty | Number(f64) | Boolean(bool)
// | Text(string). Writing the empty string or the zero Value is
// semantically a deletion, handled by the sheet engine before it reaches
// a chunk.
type Value struct {
	Tag  Tag
	Num  float64
	Bool bool
	Str  string
}

// Empty is the absent-cell value.
var Empty = Value{Tag: TagEmpty}

// Number constructs a numeric CellValue. Numeric 0 is distinct from
// Empty: Number(0) has Tag == TagNumber.
func Number(f float64) Value { return Value{Tag: TagNumber, Num: f} }

// Boolean constructs a boolean CellValue, distinct from the numbers 0/1.
func Boolean(b bool) Value { return Value{Tag: TagBoolean, Bool: b} }

// Text constructs a text CellValue. Text("") is not Empty at this layer;
// the sheet engine is responsible for routing the empty string to delete
// by the sheet engine before it reaches a chunk.
func Text(s string) Value { return Value{Tag: TagString, Str: s} }

// IsEmpty reports whether v is the Empty variant.
func (v Value) IsEmpty() bool { return v.Tag == TagEmpty }

// Equal compares two CellValues for value equality.
func (v Value) Equal(o Value) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagNumber:
		return v.Num == o.Num
	case TagBoolean:
		return v.Bool == o.Bool
	case TagString:
		return v.Str == o.Str
	default:
		return true
	}
}
