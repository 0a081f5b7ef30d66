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

package txlog

import (
	"errors"
	"testing"

	"github.com/fincapy/radsheet-sub000/tile"
	"github.com/stretchr/testify/require"
)

// fakeGrid is a minimal Applier + cell store for exercising undo/redo
// without depending on the sheet package.
type fakeGrid struct {
	cells map[cellKey]tile.Value
}

func newFakeGrid() *fakeGrid { return &fakeGrid{cells: map[cellKey]tile.Value{}} }

func (g *fakeGrid) get(row, col int) tile.Value {
	return g.cells[cellKey{row, col}]
}

func (g *fakeGrid) write(log *Log, row, col int, v tile.Value) {
	prev := g.get(row, col)
	g.cells[cellKey{row, col}] = v
	log.Record(row, col, prev, v)
}

func (g *fakeGrid) ApplyHistory(row, col int, v tile.Value) {
	g.cells[cellKey{row, col}] = v
}

func TestCoalescesRepeatedWritesToSameCell(t *testing.T) {
	log := New()
	grid := newFakeGrid()
	log.Begin(nil)
	grid.write(log, 0, 0, tile.Number(1))
	grid.write(log, 0, 0, tile.Number(2))
	grid.write(log, 0, 0, tile.Number(3))
	log.Commit()

	require.True(t, log.CanUndo())
	log.Undo(grid)
	require.Equal(t, tile.Empty, grid.get(0, 0))
	log.Redo(grid)
	require.Equal(t, tile.Number(3), grid.get(0, 0))
}

func TestOpsWherePrevEqualsNextAreIgnored(t *testing.T) {
	log := New()
	grid := newFakeGrid()
	log.Begin(nil)
	grid.write(log, 1, 1, tile.Number(5))
	grid.write(log, 1, 1, tile.Empty) // coalesces to Empty -> Empty: prev was Empty at start
	log.Commit()
	require.False(t, log.CanUndo())

	// A transaction that nets to no change at all should not be pushed.
	log2 := New()
	grid2 := newFakeGrid()
	log2.Begin(nil)
	grid2.write(log2, 2, 2, tile.Number(9))
	grid2.write(log2, 2, 2, tile.Empty)
	log2.Commit()
	require.False(t, log2.CanUndo())
}

func TestReentrantTransactionIsNoOp(t *testing.T) {
	log := New()
	grid := newFakeGrid()
	err := log.Transact(func() error {
		grid.write(log, 0, 0, tile.Number(1))
		return log.Transact(func() error {
			grid.write(log, 1, 1, tile.Number(2))
			return nil
		}, nil)
	}, nil)
	require.NoError(t, err)
	require.True(t, log.CanUndo())

	log.Undo(grid)
	require.Equal(t, tile.Empty, grid.get(0, 0))
	require.Equal(t, tile.Empty, grid.get(1, 1))
}

func TestErrorDiscardsTransaction(t *testing.T) {
	log := New()
	grid := newFakeGrid()
	sentinel := errors.New("boom")
	err := log.Transact(func() error {
		grid.write(log, 0, 0, tile.Number(1))
		return sentinel
	}, nil)
	require.Error(t, err)
	require.False(t, log.CanUndo())
	// The write itself still happened in the grid (discard only affects
	// the log; replay is not automatically rolled back on discard).
	require.Equal(t, tile.Number(1), grid.get(0, 0))
}

func TestUndoRedoSequenceReproducesFinalState(t *testing.T) {
	log := New()
	grid := newFakeGrid()

	log.Begin(nil)
	grid.write(log, 0, 0, tile.Number(1))
	log.Commit()

	log.Begin(nil)
	grid.write(log, 0, 1, tile.Text("a"))
	log.Commit()

	log.Begin(nil)
	grid.write(log, 0, 2, tile.Boolean(true))
	log.Commit()

	final := map[cellKey]tile.Value{}
	for k, v := range grid.cells {
		final[k] = v
	}

	log.Undo(grid)
	log.Undo(grid)
	log.Undo(grid)
	log.Redo(grid)
	log.Redo(grid)
	log.Redo(grid)

	require.Equal(t, final, grid.cells)
}

func TestCommitClearsRedoStack(t *testing.T) {
	log := New()
	grid := newFakeGrid()
	log.Begin(nil)
	grid.write(log, 0, 0, tile.Number(1))
	log.Commit()
	log.Undo(grid)
	require.True(t, log.CanRedo())

	log.Begin(nil)
	grid.write(log, 1, 1, tile.Number(2))
	log.Commit()
	require.False(t, log.CanRedo())
}
