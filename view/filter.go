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

package view

import (
	"strings"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/fincapy/radsheet-sub000/fenwick"
	"github.com/fincapy/radsheet-sub000/tile"
)

// FilterOp names a condition filter's comparison.
type FilterOp int

const (
	OpIsBlank FilterOp = iota
	OpIsNotBlank
	OpEquals
	OpContains
	OpStartsWith
	OpEndsWith
)

// Condition is a {op, term} predicate evaluated against one column's
// canonical string form, case-insensitively (OpEquals included).
type Condition struct {
	Op   FilterOp
	Term string
}

// FilterSpec is one column predicate: either a discrete value set or a
// Condition, never both. Use NewDiscreteFilter or NewConditionFilter.
type FilterSpec struct {
	Col       int
	Set       []tile.Value
	Condition *Condition
}

// NewDiscreteFilter builds a filter that passes rows whose cell in col
// equals one of values.
func NewDiscreteFilter(col int, values []tile.Value) FilterSpec {
	return FilterSpec{Col: col, Set: values}
}

// NewConditionFilter builds a filter that passes rows whose cell in col
// satisfies {op, term}.
func NewConditionFilter(col int, op FilterOp, term string) FilterSpec {
	return FilterSpec{Col: col, Condition: &Condition{Op: op, Term: term}}
}

// SetFilters replaces the active filter set and recomputes the
// visibility mask and its Fenwick index. An empty specs clears
// filtering entirely (mask becomes nil, the unfiltered fast path).
func (v *View) SetFilters(specs []FilterSpec) {
	v.filters = specs
	v.lastRowCache = nil
	v.permutation = nil
	v.version++

	if len(specs) == 0 {
		v.mask = nil
		v.tree = nil
		return
	}

	v.lastRowCache = make(map[int]int)
	rowCount := v.grid.RowCount()
	mask := roaring.New()
	for r := 0; r < rowCount; r++ {
		if v.rowPasses(r) {
			mask.Add(uint32(r))
		}
	}

	tree := fenwick.New(rowCount)
	it := mask.Iterator()
	for it.HasNext() {
		tree.Add(int(it.Next()), 1)
	}

	v.mask = mask
	v.tree = tree
}

func (v *View) rowPasses(row int) bool {
	for _, spec := range v.filters {
		blank := row > v.columnActiveLastRow(spec.Col)
		value := v.grid.Get(row, spec.Col)
		if blank {
			value = tile.Empty
		}
		if !matches(value, spec) {
			return false
		}
	}
	return true
}

func matches(value tile.Value, spec FilterSpec) bool {
	if spec.Set != nil {
		for _, want := range spec.Set {
			if value.Equal(want) {
				return true
			}
		}
		return false
	}

	cond := spec.Condition
	if cond == nil {
		return true
	}
	switch cond.Op {
	case OpIsBlank:
		return value.IsEmpty()
	case OpIsNotBlank:
		return !value.IsEmpty()
	}

	s := strings.ToLower(canonicalString(value))
	term := strings.ToLower(cond.Term)
	switch cond.Op {
	case OpEquals:
		return s == term
	case OpContains:
		return strings.Contains(s, term)
	case OpStartsWith:
		return strings.HasPrefix(s, term)
	case OpEndsWith:
		return strings.HasSuffix(s, term)
	default:
		return false
	}
}

// columnActiveLastRow is the highest row index holding a value in col.
// If col has none, it falls back to the max of the immediate left and
// right columns' own (non-recursive) active-last-row, so filtering
// doesn't drown in a wide sheet's padded empty region.
func (v *View) columnActiveLastRow(col int) int {
	if cached, ok := v.lastRowCache[col]; ok {
		return cached
	}
	last := v.scanLastRow(col)
	if last == -1 {
		left, right := -1, -1
		if col-1 >= 0 {
			left = v.scanLastRow(col - 1)
		}
		if col+1 < v.grid.ColCount() {
			right = v.scanLastRow(col + 1)
		}
		if right > left {
			last = right
		} else {
			last = left
		}
	}
	if v.lastRowCache == nil {
		v.lastRowCache = make(map[int]int)
	}
	v.lastRowCache[col] = last
	return last
}

func (v *View) scanLastRow(col int) int {
	last := -1
	for r := 0; r < v.grid.RowCount(); r++ {
		if !v.grid.Get(r, col).IsEmpty() {
			last = r
		}
	}
	return last
}
