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

// Package sheet implements the core engine: the top-level aggregate
// that owns the string interner, the hot cache of chunks, and the
// transaction log, and exposes cell get/set/delete/block operations
// over the chunked, adaptive storage layer. This is where chunkcoord,
// intern, tile, codec, cache, txlog, tsv, and persist are wired
// together, the way tidb's Session/Executor layers wire together its
// leaf storage packages.
package sheet

import (
	"context"

	"github.com/fincapy/radsheet-sub000/cache"
	"github.com/fincapy/radsheet-sub000/chunkcoord"
	"github.com/fincapy/radsheet-sub000/codec"
	"github.com/fincapy/radsheet-sub000/intern"
	"github.com/fincapy/radsheet-sub000/log"
	"github.com/fincapy/radsheet-sub000/persist"
	"github.com/fincapy/radsheet-sub000/tile"
	"github.com/fincapy/radsheet-sub000/tsv"
	"github.com/fincapy/radsheet-sub000/txlog"
	"go.uber.org/zap"
)

// DefaultRowCount and DefaultColumnCount are the initial dimensions of
// a newly constructed Sheet.
const (
	DefaultRowCount    = 1000
	DefaultColumnCount = 26
)

// Sheet is the top-level aggregate: a two-dimensional grid of typed
// cell values backed by chunked, adaptive storage. Not safe for
// concurrent use from multiple goroutines — it is the single-threaded
// main flow's data structure (persistence runs on its own background
// queue and never touches Sheet state directly).
type Sheet struct {
	rowCount int
	colCount int

	interner *intern.Interner
	hot      *cache.Cache[chunkcoord.Key, tile.Chunk]
	log      *txlog.Log

	repo  persist.ChunkRepository
	queue *persist.Queue

	replaying bool

	persistConcurrency int
	persistMetrics     *persist.Metrics
}

// Option configures a Sheet at construction.
type Option func(*config)

type config struct {
	rows, cols    int
	cacheCapacity int
	concurrency   int
	cacheMetrics  *cache.Metrics
	persistMetric *persist.Metrics
}

// WithDimensions overrides the default initial row/column counts.
func WithDimensions(rows, cols int) Option {
	return func(c *config) { c.rows, c.cols = rows, cols }
}

// WithCacheCapacity overrides the hot cache's default capacity.
func WithCacheCapacity(n int) Option {
	return func(c *config) { c.cacheCapacity = n }
}

// WithPersistConcurrency overrides the persist queue's default
// concurrency.
func WithPersistConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithCacheMetrics attaches prometheus collectors to the hot cache.
func WithCacheMetrics(m *cache.Metrics) Option {
	return func(c *config) { c.cacheMetrics = m }
}

// WithPersistMetrics attaches prometheus collectors to the persist
// queue.
func WithPersistMetrics(m *persist.Metrics) Option {
	return func(c *config) { c.persistMetric = m }
}

// New constructs an empty Sheet with default row 1000, default columns
// 26 (labeled A..Z).
func New(opts ...Option) *Sheet {
	cfg := config{rows: DefaultRowCount, cols: DefaultColumnCount, cacheCapacity: cache.DefaultCapacity}
	for _, o := range opts {
		o(&cfg)
	}
	s := &Sheet{
		rowCount: cfg.rows,
		colCount: cfg.cols,
		interner: intern.New(),
		log:      txlog.New(),
	}
	s.hot = cache.New[chunkcoord.Key, tile.Chunk](cfg.cacheCapacity, s.onEvict, cfg.cacheMetrics)
	s.persistConcurrency = cfg.concurrency
	s.persistMetrics = cfg.persistMetric
	return s
}

// RowCount and ColumnCount report the Sheet's current monotone
// dimensions.
func (s *Sheet) RowCount() int { return s.rowCount }
func (s *Sheet) ColCount() int { return s.colCount }

// AddRows grows the row count by n (monotone, append-only growth;
// structural deletion/insertion is out of scope).
func (s *Sheet) AddRows(n int) {
	if n <= 0 {
		return
	}
	s.rowCount += n
}

// AddColumns grows the column count by n.
func (s *Sheet) AddColumns(n int) {
	if n <= 0 {
		return
	}
	s.colCount += n
}

// ColumnLabel returns the bijective base-26 label (A, B, ..., Z, AA,
// AB, ...) for the given 0-based column index.
func ColumnLabel(col int) string {
	if col < 0 {
		return ""
	}
	var buf []byte
	n := col + 1
	for n > 0 {
		n--
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// ColumnLabels returns the labels for columns 0..ColCount()-1.
func (s *Sheet) ColumnLabels() []string {
	labels := make([]string, s.colCount)
	for i := range labels {
		labels[i] = ColumnLabel(i)
	}
	return labels
}

func clampCoord(row, col int) (int, int, bool) {
	if row < 0 || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}

// Get returns the value at (row, col), or Empty if absent or the
// coordinate is out of bounds. Out-of-bounds reads are silently
// clamped to Empty rather than surfaced as an error.
func (s *Sheet) Get(row, col int) tile.Value {
	row, col, ok := clampCoord(row, col)
	if !ok {
		return tile.Empty
	}
	chunk, ok := s.lookupChunk(chunkcoord.MakeKey(row, col))
	if !ok {
		return tile.Empty
	}
	idx := chunkcoord.LocalIndex(row, col)
	return chunk.Get(idx, s.interner)
}

// Has reports whether (row, col) holds a non-empty value.
func (s *Sheet) Has(row, col int) bool {
	row, col, ok := clampCoord(row, col)
	if !ok {
		return false
	}
	chunk, ok := s.lookupChunk(chunkcoord.MakeKey(row, col))
	if !ok {
		return false
	}
	return chunk.Has(chunkcoord.LocalIndex(row, col))
}

// Set writes v at (row, col). Writing Empty or the empty string routes
// to Delete. Out-of-bounds coordinates are silently ignored.
func (s *Sheet) Set(row, col int, v tile.Value) {
	row, col, ok := clampCoord(row, col)
	if !ok {
		return
	}
	if v.IsEmpty() || (v.Tag == tile.TagString && v.Str == "") {
		s.Delete(row, col)
		return
	}
	if v.Tag == tile.TagString {
		// Intern on write so the id (and the interner's dirty flag) exist
		// before any chunk snapshot is encoded for persistence.
		s.interner.IDFor(v.Str)
	}

	key := chunkcoord.MakeKey(row, col)
	idx := chunkcoord.LocalIndex(row, col)
	chunk, ok := s.lookupChunk(key)
	if !ok {
		chunk = tile.NewSparse()
	}
	prev := chunk.Get(idx, s.interner)
	chunk = chunk.Set(idx, v, s.interner)
	chunk.SetDirty(true)
	s.hot.Set(key, chunk)
	s.recordHistory(row, col, prev, v)
}

// Delete clears (row, col). A no-op if the chunk is absent or the
// cell was already empty.
func (s *Sheet) Delete(row, col int) {
	row, col, ok := clampCoord(row, col)
	if !ok {
		return
	}
	key := chunkcoord.MakeKey(row, col)
	chunk, ok := s.lookupChunk(key)
	if !ok {
		return
	}
	idx := chunkcoord.LocalIndex(row, col)
	prev := chunk.Get(idx, s.interner)
	if prev.IsEmpty() {
		return
	}
	next, removed := chunk.Delete(idx, s.interner)
	if removed {
		s.hot.Delete(key)
	} else {
		next.SetDirty(true)
		s.hot.Set(key, next)
	}
	s.recordHistory(row, col, prev, tile.Empty)
}

// recordHistory forwards a pre/post image to the transaction log,
// unless a replay (Undo/Redo) is currently in progress, in which case
// recording is suppressed to avoid feeding replay writes back into the
// log.
func (s *Sheet) recordHistory(row, col int, prev, next tile.Value) {
	if s.replaying {
		return
	}
	s.log.Record(row, col, prev, next)
}

// lookupChunk returns the chunk for key from the hot cache, demand
// loading it from the attached repository on a miss if one is
// attached.
func (s *Sheet) lookupChunk(key chunkcoord.Key) (tile.Chunk, bool) {
	if c, ok := s.hot.Get(key); ok {
		return c, true
	}
	if s.repo == nil {
		return nil, false
	}
	data, ok, err := s.repo.GetBytes(context.Background(), uint64(key))
	if err != nil {
		log.L().Error("sheet: repository read failed", zap.Uint64("chunk_key", uint64(key)), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	chunk, err := codec.DecodeChunk(data, s.interner)
	if err != nil {
		log.L().Error("sheet: chunk decode failed", zap.Uint64("chunk_key", uint64(key)), zap.Error(err))
		return nil, false
	}
	s.hot.Set(key, chunk)
	return chunk, true
}

// onEvict is the hot cache's write-back hook: a dirty chunk evicted
// from memory is handed to the persist queue before it's dropped.
func (s *Sheet) onEvict(key chunkcoord.Key, chunk tile.Chunk) {
	if !chunk.Dirty() || s.queue == nil {
		return
	}
	s.enqueuePersist(key, chunk)
}

func (s *Sheet) enqueuePersist(key chunkcoord.Key, chunk tile.Chunk) {
	// Hand the queue a copy, not the live chunk the main flow keeps writing.
	var snap tile.Chunk
	switch c := chunk.(type) {
	case *tile.DenseChunk:
		cp := *c
		snap = &cp
	case *tile.SparseChunk:
		snap = tile.NewSparseFromEntries(c.Snapshot())
	default:
		snap = chunk
	}
	interner := s.interner
	s.queue.EnqueueChunk(uint64(key), func() []byte {
		return codec.EncodeChunk(snap, interner)
	})
}

// SetBlock writes a rectangular block of values with (top, left) as
// its upper-left corner, treating empty values as deletions. Returns
// the count of cells written (including deletions of previously
// non-empty cells). Not automatically transactional.
func (s *Sheet) SetBlock(top, left int, rows [][]tile.Value) int {
	written := 0
	for dr, row := range rows {
		for dc, v := range row {
			r, c := top+dr, left+dc
			before := s.Has(r, c)
			s.Set(r, c, v)
			if before || !v.IsEmpty() {
				written++
			}
		}
	}
	return written
}

// DeleteBlock clears every cell in [top,left]..[bottom,right]
// inclusive, self-wrapping in a transaction, and returns the count of
// cells that were non-empty before deletion.
func (s *Sheet) DeleteBlock(top, left, bottom, right int) int {
	deleted := 0
	_ = s.log.Transact(func() error {
		for r := top; r <= bottom; r++ {
			for c := left; c <= right; c++ {
				if s.Has(r, c) {
					deleted++
				}
				s.Delete(r, c)
			}
		}
		return nil
	}, nil)
	return deleted
}

// IndexedCell pairs a coordinate with its value for iteration results.
type IndexedCell struct {
	Row, Col int
	Value    tile.Value
}

// EntriesInRect iterates every non-empty cell within
// [top,left]..[bottom,right] inclusive, in row-major order (row by
// row, columns ascending within a row).
func (s *Sheet) EntriesInRect(top, left, bottom, right int) []IndexedCell {
	var out []IndexedCell
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			v := s.Get(r, c)
			if !v.IsEmpty() {
				out = append(out, IndexedCell{Row: r, Col: c, Value: v})
			}
		}
	}
	return out
}

// Entries iterates every non-empty cell in the sheet's current bounds.
func (s *Sheet) Entries() []IndexedCell {
	return s.EntriesInRect(0, 0, s.rowCount-1, s.colCount-1)
}

// SerializeRangeToTSV renders [top,left]..[bottom,right] as TSV text.
func (s *Sheet) SerializeRangeToTSV(top, left, bottom, right int) string {
	rows := make([][]tile.Value, 0, bottom-top+1)
	for r := top; r <= bottom; r++ {
		row := make([]tile.Value, 0, right-left+1)
		for c := left; c <= right; c++ {
			row = append(row, s.Get(r, c))
		}
		rows = append(rows, row)
	}
	return tsv.Serialize(rows)
}

// DeserializeTSV parses text as TSV and writes it starting at
// (top, left), self-wrapping in a transaction. Returns the row count,
// column count, and the number of cells written.
func (s *Sheet) DeserializeTSV(top, left int, text string) (rows, cols, written int) {
	parsed, c, w := tsv.Parse(text)
	_ = s.log.Transact(func() error {
		for dr, row := range parsed {
			for dc, v := range row {
				s.Set(top+dr, left+dc, v)
			}
		}
		return nil
	}, nil)
	return len(parsed), c, w
}

// Transact runs f within an undo/redo transaction scope.
func (s *Sheet) Transact(f func() error) error {
	return s.log.Transact(f, nil)
}

// Undo and Redo replay the most recent transaction log entry, writing
// through ApplyHistory so recording is suppressed during replay.
func (s *Sheet) Undo() bool { return s.log.Undo(s) }
func (s *Sheet) Redo() bool { return s.log.Redo(s) }

// CanUndo and CanRedo report transaction log availability.
func (s *Sheet) CanUndo() bool { return s.log.CanUndo() }
func (s *Sheet) CanRedo() bool { return s.log.CanRedo() }

// ApplyHistory implements txlog.Applier: it writes v at (row, col)
// during Undo/Redo replay with recording suppressed.
func (s *Sheet) ApplyHistory(row, col int, v tile.Value) {
	s.replaying = true
	defer func() { s.replaying = false }()
	if v.IsEmpty() {
		s.Delete(row, col)
	} else {
		s.Set(row, col, v)
	}
}

// CacheStats is the non-invasive introspection surface (no private
// field access needed): hot-cache entry count, dirty-chunk count, and
// interner size.
type CacheStats struct {
	HotChunks    int
	DirtyChunks  int
	InternerSize int
}

// Stats returns a snapshot of cache/interner occupancy.
func (s *Sheet) Stats() CacheStats {
	dirty := 0
	for _, k := range s.hot.Keys() {
		if c, ok := s.hot.Peek(k); ok && c.Dirty() {
			dirty++
		}
	}
	return CacheStats{
		HotChunks:    s.hot.Len(),
		DirtyChunks:  dirty,
		InternerSize: s.interner.Len(),
	}
}

// EstimatedBytesInHotCache approximates memory occupied by hot chunks:
// a dense chunk's fixed-size SoA footprint, or a sparse chunk's
// per-entry footprint, summed across every cached chunk.
func (s *Sheet) EstimatedBytesInHotCache() int64 {
	const (
		denseBytes  = int64(chunkcoord.CellsPerChunk) * (1 + 8 + 4)
		sparseEntry = int64(8 + 16) // local index + CellValue overhead
	)
	var total int64
	for _, k := range s.hot.Keys() {
		c, ok := s.hot.Peek(k)
		if !ok {
			continue
		}
		if _, isDense := c.(*tile.DenseChunk); isDense {
			total += denseBytes
		} else {
			total += int64(c.NonEmptyCount()) * sparseEntry
		}
	}
	return total
}
