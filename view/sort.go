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
	"sort"
	"strconv"
	"strings"

	"github.com/fincapy/radsheet-sub000/tile"
	"github.com/fincapy/radsheet-sub000/tsv"
)

// SortSpec names the sort column and direction.
type SortSpec struct {
	Col       int
	Ascending bool
}

// rowSnapshot holds one visible row's full set of values plus its
// physical row index, captured before SetSort rewrites the grid.
type rowSnapshot struct {
	physicalRow int
	values      []tile.Value
}

// SetSort sorts the currently visible rows by spec and materializes the
// result: it rewrites the grid's active range in place (clearing every
// touched cell, then writing snapshots back in sorted order) as a
// single transaction, so the reordering is undoable as one step. After
// rewriting, any explicit permutation is cleared and the filter mask is
// rebuilt against the new row contents.
func (v *View) SetSort(spec SortSpec) error {
	rows := v.visibleRowsAscending()
	v.permutation = nil
	if len(rows) < 2 {
		v.version++
		return nil
	}

	cols := v.grid.ColCount()
	snaps := make([]rowSnapshot, len(rows))
	for i, r := range rows {
		vals := make([]tile.Value, cols)
		for c := 0; c < cols; c++ {
			vals[c] = v.grid.Get(r, c)
		}
		snaps[i] = rowSnapshot{physicalRow: r, values: vals}
	}

	order := make([]int, len(snaps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := snaps[order[i]].values[spec.Col], snaps[order[j]].values[spec.Col]
		cmp := compareValues(a, b)
		if !spec.Ascending {
			cmp = -cmp
		}
		return cmp < 0
	})

	err := v.grid.Transact(func() error {
		for _, r := range rows {
			for c := 0; c < cols; c++ {
				v.grid.Set(r, c, tile.Empty)
			}
		}
		for i, r := range rows {
			snap := snaps[order[i]]
			for c := 0; c < cols; c++ {
				if !snap.values[c].IsEmpty() {
					v.grid.Set(r, c, snap.values[c])
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	v.SetFilters(v.filters)
	return nil
}

func (v *View) visibleRowsAscending() []int {
	if v.mask == nil {
		rows := make([]int, v.grid.RowCount())
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, v.mask.GetCardinality())
	it := v.mask.Iterator()
	for it.HasNext() {
		rows = append(rows, int(it.Next()))
	}
	return rows
}

// compareValues orders two cell values: empty always sorts greatest;
// numbers (including numeric-looking strings, when both sides parse)
// compare numerically; everything else compares case-insensitively by
// canonical string form.
func compareValues(a, b tile.Value) int {
	if a.IsEmpty() && b.IsEmpty() {
		return 0
	}
	if a.IsEmpty() {
		return 1
	}
	if b.IsEmpty() {
		return -1
	}
	if an, aok := numericOf(a); aok {
		if bn, bok := numericOf(b); bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}
	as := strings.ToLower(canonicalString(a))
	bs := strings.ToLower(canonicalString(b))
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func numericOf(v tile.Value) (float64, bool) {
	switch v.Tag {
	case tile.TagNumber:
		return v.Num, true
	case tile.TagString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// canonicalString renders v the way the clipboard transcoder does, used
// here for condition-filter text comparisons and for sorting any pair of
// values that do not both compare numerically.
func canonicalString(v tile.Value) string {
	switch v.Tag {
	case tile.TagNumber:
		return tsv.FormatNumber(v.Num)
	case tile.TagBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case tile.TagString:
		return v.Str
	default:
		return ""
	}
}
