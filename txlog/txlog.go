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

// Package txlog implements the undo/redo transaction log: a
// coalescing, re-entrant transaction scope over per-cell pre/post images.
// Grounded on util/chunk's SortedRowContainer pointer/index bookkeeping
// style (util/chunk/row_container.go keeps an index alongside a backing
// slice and mutates both together); here the index maps (row,col) to a
// slot in the active transaction's op list so repeated writes coalesce.
package txlog

import (
	"github.com/fincapy/radsheet-sub000/errs"
	"github.com/fincapy/radsheet-sub000/tile"
)

// Op is one coalesced cell mutation: the earliest prior value and the
// latest new value observed during a transaction.
type Op struct {
	Row, Col int
	Prev     tile.Value
	Next     tile.Value
}

// Transaction is an ordered list of cell ops plus optional metadata (an
// anchor row/col, a label — caller-defined).
type Transaction struct {
	Ops  []Op
	Meta interface{}
}

type cellKey struct{ row, col int }

type activeTx struct {
	ops   []Op
	index map[cellKey]int
	meta  interface{}
	depth int
}

// Applier is implemented by the owner of the underlying cell storage
// (the sheet engine) so Undo/Redo can replay a transaction's ops without
// the log needing to know about chunks, the cache, or the interner.
type Applier interface {
	// ApplyHistory writes value v at (row, col) during undo/redo replay.
	// Implementations must suppress their own transaction recording for
	// the duration of the call: recording is skipped while an undo or
	// redo is being applied.
	ApplyHistory(row, col int, v tile.Value)
}

// Log is the undo/redo transaction log owned by a Sheet.
type Log struct {
	undo   []Transaction
	redo   []Transaction
	active *activeTx
}

// New returns an empty transaction log.
func New() *Log { return &Log{} }

// Begin opens a transaction scope. Re-entrant: a nested Begin while one
// is already open just increments the depth counter — nesting is a
// no-op, not a new undo boundary.
func (l *Log) Begin(meta interface{}) {
	if l.active != nil {
		l.active.depth++
		return
	}
	l.active = &activeTx{index: make(map[cellKey]int), meta: meta, depth: 1}
}

// InTransaction reports whether a transaction scope is currently open.
func (l *Log) InTransaction() bool { return l.active != nil }

// Record coalesces a cell write into the active transaction. No-op
// outside a transaction, or when prev == next.
func (l *Log) Record(row, col int, prev, next tile.Value) {
	if l.active == nil || prev.Equal(next) {
		return
	}
	key := cellKey{row, col}
	if idx, ok := l.active.index[key]; ok {
		l.active.ops[idx].Next = next
		return
	}
	l.active.index[key] = len(l.active.ops)
	l.active.ops = append(l.active.ops, Op{Row: row, Col: col, Prev: prev, Next: next})
}

// Commit closes one nesting level. At depth 0 the transaction finalizes:
// ops left with Prev == Next (fully coalesced away) are dropped, and an
// empty resulting transaction is not pushed onto the undo stack.
// Committing a non-empty transaction clears the redo stack, the standard undo/redo invariant
// that a new edit invalidates previously-undone history.
func (l *Log) Commit() {
	if l.active == nil {
		return
	}
	l.active.depth--
	if l.active.depth > 0 {
		return
	}
	tx := l.finalize(l.active)
	l.active = nil
	if len(tx.Ops) == 0 {
		return
	}
	l.undo = append(l.undo, tx)
	l.redo = nil
}

// Discard closes one nesting level without recording anything to undo,
// used when an error occurs inside a transaction body: the whole
// transaction is thrown away rather than partially committed.
func (l *Log) Discard() {
	if l.active == nil {
		return
	}
	l.active.depth--
	if l.active.depth > 0 {
		return
	}
	l.active = nil
}

func (l *Log) finalize(a *activeTx) Transaction {
	ops := make([]Op, 0, len(a.ops))
	for _, op := range a.ops {
		if op.Prev.Equal(op.Next) {
			continue
		}
		ops = append(ops, op)
	}
	return Transaction{Ops: ops, Meta: a.meta}
}

// Transact runs f within a transaction scope, committing on normal
// return and discarding on error (wrapped as ErrTransactionDiscarded).
// Re-entrant: if a transaction is already open, f just runs inline and
// any error propagates to the enclosing Transact call, which owns the
// commit/discard decision.
func (l *Log) Transact(f func() error, meta interface{}) error {
	owns := l.active == nil
	l.Begin(meta)
	err := f()
	if !owns {
		// Nested call: balance this call's own Begin, but leave
		// finalizing (Commit/Discard) to the owning Transact call.
		l.active.depth--
		return err
	}
	if err != nil {
		l.Discard()
		return errs.Wrapf(errs.ErrTransactionDiscarded, "%v", err)
	}
	l.Commit()
	return nil
}

// Undo pops the most recent transaction, auto-committing any open one
// first, replays its ops in reverse (writing Prev) via a, and pushes it
// onto the redo stack. Returns false if there was nothing to undo.
func (l *Log) Undo(a Applier) bool {
	l.autoCommitOpen()
	if len(l.undo) == 0 {
		return false
	}
	tx := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	for i := len(tx.Ops) - 1; i >= 0; i-- {
		op := tx.Ops[i]
		a.ApplyHistory(op.Row, op.Col, op.Prev)
	}
	l.redo = append(l.redo, tx)
	return true
}

// Redo is the symmetric counterpart of Undo: pops from the redo stack,
// replays ops forward (writing Next), and pushes back onto undo.
func (l *Log) Redo(a Applier) bool {
	l.autoCommitOpen()
	if len(l.redo) == 0 {
		return false
	}
	tx := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	for _, op := range tx.Ops {
		a.ApplyHistory(op.Row, op.Col, op.Next)
	}
	l.undo = append(l.undo, tx)
	return true
}

func (l *Log) autoCommitOpen() {
	if l.active == nil {
		return
	}
	l.active.depth = 1
	l.Commit()
}

// CanUndo reports whether Undo would find a transaction to replay.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo would find a transaction to replay.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }
