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

	"golang.org/x/sync/errgroup"
)

// LoadManyConcurrency bounds the parallel fetch fan-out in LoadMany.
const LoadManyConcurrency = 8

// LoadMany fetches bytes for every key in parallel, calling onLoaded
// for each key that the repository has bytes for. onLoaded is invoked
// concurrently from multiple goroutines and must be safe to call that
// way, or must do its own serialization.
func LoadMany(ctx context.Context, repo ChunkRepository, keys []uint64, onLoaded func(key uint64, data []byte) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(LoadManyConcurrency)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			data, ok, err := repo.GetBytes(ctx, key)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			return onLoaded(key, data)
		})
	}
	return g.Wait()
}
