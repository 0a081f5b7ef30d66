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

package persist

import (
	"context"
	"sync"

	"github.com/fincapy/radsheet-sub000/errs"
	"github.com/fincapy/radsheet-sub000/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the queue's default number of in-flight writes.
const DefaultConcurrency = 2

// Metrics are the prometheus collectors a Queue reports through.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	RepositoryError prometheus.Counter
}

// Queue is the background persist queue in front of a ChunkRepository:
// a pending map of chunk_key -> latest snapshot, drained by up to
// concurrency workers at a time.
type Queue struct {
	repo        ChunkRepository
	concurrency int64
	sem         *semaphore.Weighted
	metrics     *Metrics

	mu      sync.Mutex
	pending map[uint64]func() []byte
	active  sync.WaitGroup

	stringMu       sync.Mutex
	stringSnapshot func() []string
	stringDirty    bool
	stringRunning  bool
	stringActive   sync.WaitGroup
}

// New builds a Queue with the given concurrency in front of repo; a
// non-positive concurrency selects DefaultConcurrency.
func New(repo ChunkRepository, concurrency int, m *Metrics) *Queue {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Queue{
		repo:        repo,
		concurrency: int64(concurrency),
		sem:         semaphore.NewWeighted(int64(concurrency)),
		metrics:     m,
		pending:     make(map[uint64]func() []byte),
	}
}

// EnqueueChunk schedules key for a background write. Enqueuing an
// already-pending key replaces its snapshot closure (latest writer
// wins); the earlier closure is simply discarded without running.
func (q *Queue) EnqueueChunk(key uint64, encode func() []byte) {
	q.mu.Lock()
	_, already := q.pending[key]
	q.pending[key] = encode
	q.mu.Unlock()
	if q.metrics != nil && q.metrics.QueueDepth != nil && !already {
		q.metrics.QueueDepth.Inc()
	}
	q.active.Add(1)
	go q.dispatch(key)
}

// EnqueueStringList schedules the interner snapshot for a background
// write. Only one string-table write is ever outstanding at a time; a
// second Enqueue before the first completes replaces the pending
// snapshot.
func (q *Queue) EnqueueStringList(snapshot func() []string) {
	q.stringMu.Lock()
	q.stringSnapshot = snapshot
	q.stringDirty = true
	startWorker := !q.stringRunning
	if startWorker {
		q.stringRunning = true
	}
	q.stringMu.Unlock()
	if startWorker {
		q.stringActive.Add(1)
		go q.dispatchStringList()
	}
}

func (q *Queue) dispatch(key uint64) {
	defer q.active.Done()
	if err := q.sem.Acquire(context.Background(), 1); err != nil {
		return
	}
	defer q.sem.Release(1)

	q.mu.Lock()
	encode, ok := q.pending[key]
	if ok {
		delete(q.pending, key)
	}
	q.mu.Unlock()
	if !ok {
		// Superseded by a concurrent dispatch that already claimed it.
		return
	}
	if q.metrics != nil && q.metrics.QueueDepth != nil {
		q.metrics.QueueDepth.Dec()
	}

	data := encode()
	if err := q.repo.PutBytes(context.Background(), key, data); err != nil {
		q.recordError(err, key)
	}
}

// dispatchStringList loops until there is no pending snapshot left,
// so a write requested while one is already in flight is not lost
// (the next iteration picks up the replaced snapshot instead of
// spawning a second concurrent writer for the same logical slot).
func (q *Queue) dispatchStringList() {
	defer q.stringActive.Done()
	for {
		q.stringMu.Lock()
		if !q.stringDirty {
			q.stringRunning = false
			q.stringMu.Unlock()
			return
		}
		snapshot := q.stringSnapshot
		q.stringDirty = false
		q.stringMu.Unlock()

		if err := q.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		err := q.repo.PutStringList(context.Background(), snapshot())
		q.sem.Release(1)
		if err != nil {
			q.recordError(err, 0)
		}
	}
}

func (q *Queue) recordError(err error, key uint64) {
	if q.metrics != nil && q.metrics.RepositoryError != nil {
		q.metrics.RepositoryError.Inc()
	}
	log.L().Error("persist: repository write failed",
		zap.Uint64("chunk_key", key),
		zap.Error(errs.Wrap(errs.ErrRepositoryError, err.Error())))
}

// Drain blocks until the queue is empty and no writes are in flight.
// When includeStringTable is true and currentStringList is non-nil, the
// list it returns is also written before Drain returns; the queue does
// not itself check whether the list has changed.
func (q *Queue) Drain(includeStringTable bool, currentStringList func() []string) {
	if includeStringTable && currentStringList != nil {
		q.EnqueueStringList(currentStringList)
	}
	q.active.Wait()
	if includeStringTable {
		q.stringActive.Wait()
	}
}

// Len reports the number of chunk writes still pending (enqueued and
// not yet picked up by a worker), for introspection/tests. Writes a
// worker has already claimed are not counted.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
