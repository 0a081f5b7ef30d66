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

// Package persist implements the background persistence pipeline: a
// repository contract, a bounded-concurrency write queue with
// latest-writer-wins coalescing, and the parallel load path. Grounded
// on the asynchronous task dispatch in util/expensivequery (a
// background goroutine draining a work channel and reporting results)
// and on golang.org/x/sync usage in erigon and tidb for bounding
// concurrency with errgroup/semaphore instead of a hand-rolled worker
// pool.
package persist

import "context"

// ChunkRepository is the only persistence interface the engine depends
// on. Keys are opaque 64-bit chunk keys; values are encoded chunk byte
// blobs. Repository operations are conceptually asynchronous from the
// caller's perspective; in Go that maps naturally to synchronous
// methods taking a context, called from goroutines the queue manages
// — callers never block the main sheet flow directly.
type ChunkRepository interface {
	// GetBytes returns the encoded chunk for key, or (nil, false) if
	// absent.
	GetBytes(ctx context.Context, key uint64) ([]byte, bool, error)
	// PutBytes writes the encoded chunk for key.
	PutBytes(ctx context.Context, key uint64, data []byte) error
	// Delete removes any stored chunk for key.
	Delete(ctx context.Context, key uint64) error
	// GetStringList returns the persisted interner snapshot, or
	// (nil, false) if none has ever been written.
	GetStringList(ctx context.Context) ([]string, bool, error)
	// PutStringList writes the full interner snapshot.
	PutStringList(ctx context.Context, list []string) error
}
