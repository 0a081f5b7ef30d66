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

// Package view implements a filtered, sorted window onto a grid: a
// visibility mask over physical rows, a Fenwick tree translating visual
// row numbers to physical ones, and a sort that materializes by
// rewriting the underlying rows rather than keeping a permanent
// permutation. Grounded on how a query executor's index scan sits in
// front of a table without owning its storage — view owns only the
// mapping, never the cells.
package view

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/fincapy/radsheet-sub000/fenwick"
	"github.com/fincapy/radsheet-sub000/tile"
)

// Grid is the minimal surface a View needs from its backing sheet. A
// sheet.Sheet satisfies this structurally.
type Grid interface {
	RowCount() int
	ColCount() int
	Get(row, col int) tile.Value
	Set(row, col int, v tile.Value)
	Transact(f func() error) error
}

// View is a filtered, sorted window onto a Grid's rows. Not safe for
// concurrent use, matching the single-threaded grid it wraps.
type View struct {
	grid Grid

	filters []FilterSpec
	mask    *roaring.Bitmap // nil: no filter active, every row is visible
	tree    *fenwick.Tree   // nil when mask is nil

	permutation []int // non-nil only transiently; SetSort always clears it

	lastRowCache map[int]int
	version      int
}

// New wraps grid in an initially unfiltered, unsorted View.
func New(grid Grid) *View {
	return &View{grid: grid}
}

// Version increments on every SetFilters or SetSort call, letting a UI
// layer cheaply detect that cached visual-row state is stale.
func (v *View) Version() int { return v.version }

// VisualRowCount is the number of rows currently visible. With no mask
// and no permutation it tracks the grid's row count directly, so rows
// appended to the grid appear without an explicit refresh.
func (v *View) VisualRowCount() int {
	if v.permutation != nil {
		return len(v.permutation)
	}
	if v.mask == nil {
		return v.grid.RowCount()
	}
	return int(v.mask.GetCardinality())
}

// RowAt maps a visual row index to its physical row index. ok is false
// if visual is out of range.
func (v *View) RowAt(visual int) (row int, ok bool) {
	if visual < 0 {
		return 0, false
	}
	if v.permutation != nil {
		if visual >= len(v.permutation) {
			return 0, false
		}
		return v.permutation[visual], true
	}
	if v.mask != nil {
		return v.tree.FindKth(int64(visual + 1))
	}
	if visual >= v.grid.RowCount() {
		return 0, false
	}
	return visual, true
}

// RowAtForWrite is RowAt, except when RowAt finds no row (zero rows
// currently match, or visual is past the last visible row): in that
// case it passes the visual index through as a raw physical row index,
// so a write still lands somewhere instead of being silently dropped.
func (v *View) RowAtForWrite(visual int) int {
	if row, ok := v.RowAt(visual); ok {
		return row
	}
	if v.VisualRowCount() == 0 {
		return visual
	}
	return visual
}

// Get reads the cell at (visual, col), mapping through the current
// filter/sort. Returns tile.Empty if visual is out of range.
func (v *View) Get(visual, col int) tile.Value {
	row, ok := v.RowAt(visual)
	if !ok {
		return tile.Empty
	}
	return v.grid.Get(row, col)
}

// Set writes val at (visual, col), mapping through RowAtForWrite so
// writes remain possible even when the view currently shows zero rows.
func (v *View) Set(visual, col int, val tile.Value) {
	row := v.RowAtForWrite(visual)
	v.grid.Set(row, col, val)
}
