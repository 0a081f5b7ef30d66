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

package sheet

import (
	"context"

	"github.com/fincapy/radsheet-sub000/chunkcoord"
	"github.com/fincapy/radsheet-sub000/codec"
	"github.com/fincapy/radsheet-sub000/log"
	"github.com/fincapy/radsheet-sub000/persist"
	"go.uber.org/zap"
)

// UseStore attaches repo as the Sheet's backing repository and builds
// its background persist queue. If the repository already holds a
// string list, it is loaded into the interner before UseStore returns.
func (s *Sheet) UseStore(repo persist.ChunkRepository) error {
	s.repo = repo
	s.queue = persist.New(repo, s.persistConcurrency, s.persistMetrics)

	list, ok, err := repo.GetStringList(context.Background())
	if err != nil {
		return err
	}
	if ok {
		s.interner.LoadFrom(list)
	}
	return nil
}

// chunksIntersecting returns the set of chunk keys intersecting the
// rectangle [top,left]..[bottom,right].
func chunksIntersecting(top, left, bottom, right int) []chunkcoord.Key {
	seen := map[chunkcoord.Key]struct{}{}
	var keys []chunkcoord.Key
	for r := top; r <= bottom; r += chunkcoord.ChunkSize {
		for c := left; c <= right; c += chunkcoord.ChunkSize {
			k := chunkcoord.MakeKey(r, c)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// LoadRange demand-loads every chunk intersecting [top,left]..
// [bottom,right] that is absent from the hot cache, fetching in
// parallel, decoding, and inserting. If the interner ends up with
// unpersisted changes (new ids assigned while absent chunks loaded
// strings the caller hadn't seen), the string list is flushed to the
// repository.
func (s *Sheet) LoadRange(ctx context.Context, top, left, bottom, right int) error {
	if s.repo == nil {
		return nil
	}
	var missing []uint64
	for _, k := range chunksIntersecting(top, left, bottom, right) {
		if _, ok := s.hot.Get(k); !ok {
			missing = append(missing, uint64(k))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	err := persist.LoadMany(ctx, s.repo, missing, func(key uint64, data []byte) error {
		chunk, err := codec.DecodeChunk(data, s.interner)
		if err != nil {
			log.L().Error("sheet: chunk decode failed during load_range",
				zap.Uint64("chunk_key", key), zap.Error(err))
			return nil
		}
		s.hot.Set(chunkcoord.Key(key), chunk)
		return nil
	})
	if err != nil {
		return err
	}

	if s.interner.HasUnpersistedChanges() {
		s.flushStringList()
	}
	return nil
}

func (s *Sheet) flushStringList() {
	if s.queue == nil {
		return
	}
	s.queue.Drain(true, s.interner.Snapshot)
	s.interner.MarkPersisted()
}

// Flush enqueues every dirty hot chunk for a background write, waits
// for the queue to drain, and flushes the string list if it is dirty.
func (s *Sheet) Flush() {
	if s.queue == nil {
		return
	}
	for _, k := range s.hot.Keys() {
		c, ok := s.hot.Get(k)
		if !ok || !c.Dirty() {
			continue
		}
		s.enqueuePersist(k, c)
	}
	include := s.interner.HasUnpersistedChanges()
	var snapshot func() []string
	if include {
		snapshot = s.interner.Snapshot
	}
	s.queue.Drain(include, snapshot)
	if include {
		s.interner.MarkPersisted()
	}
}
