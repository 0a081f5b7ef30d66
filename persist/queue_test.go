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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	bytes   map[uint64][]byte
	strings []string
	hasStr  bool
	puts    int
}

func newMemRepo() *memRepo { return &memRepo{bytes: map[uint64][]byte{}} }

func (r *memRepo) GetBytes(_ context.Context, key uint64) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bytes[key]
	return b, ok, nil
}

func (r *memRepo) PutBytes(_ context.Context, key uint64, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bytes[key] = data
	r.puts++
	return nil
}

func (r *memRepo) Delete(_ context.Context, key uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bytes, key)
	return nil
}

func (r *memRepo) GetStringList(_ context.Context) ([]string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.strings, r.hasStr, nil
}

func (r *memRepo) PutStringList(_ context.Context, list []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = list
	r.hasStr = true
	return nil
}

func (r *memRepo) get(key uint64) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bytes[key]
	return b, ok
}

func TestEnqueueChunkWritesThroughOnDrain(t *testing.T) {
	repo := newMemRepo()
	q := New(repo, 2, nil)
	q.EnqueueChunk(1, func() []byte { return []byte("one") })
	q.Drain(false, nil)

	b, ok := repo.get(1)
	require.True(t, ok)
	require.Equal(t, []byte("one"), b)
}

func TestLatestWriterWinsForSameKey(t *testing.T) {
	repo := newMemRepo()
	q := New(repo, 1, nil)

	var calls int
	q.EnqueueChunk(1, func() []byte { calls++; return []byte("first") })
	q.EnqueueChunk(1, func() []byte { calls++; return []byte("second") })
	q.Drain(false, nil)

	b, ok := repo.get(1)
	require.True(t, ok)
	require.Equal(t, []byte("second"), b)
	require.Equal(t, 1, calls)
}

func TestDrainFlushesStringTableWhenRequested(t *testing.T) {
	repo := newMemRepo()
	q := New(repo, 2, nil)
	q.Drain(true, func() []string { return []string{"a", "b"} })

	list, ok, err := repo.GetStringList(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, list)
}

func TestLoadManyFetchesInParallelAndSkipsMisses(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.PutBytes(context.Background(), 1, []byte("x")))
	require.NoError(t, repo.PutBytes(context.Background(), 3, []byte("z")))

	var mu sync.Mutex
	found := map[uint64][]byte{}
	err := LoadMany(context.Background(), repo, []uint64{1, 2, 3}, func(key uint64, data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		found[key] = data
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, map[uint64][]byte{1: []byte("x"), 3: []byte("z")}, found)
}

func TestQueueLenReflectsPendingWrites(t *testing.T) {
	repo := newMemRepo()
	q := New(repo, 1, nil)
	q.EnqueueChunk(1, func() []byte {
		time.Sleep(10 * time.Millisecond)
		return []byte("a")
	})
	require.GreaterOrEqual(t, q.Len()+1, 1)
	q.Drain(false, nil)
	require.Equal(t, 0, q.Len())
}
