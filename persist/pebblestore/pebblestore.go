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

// Package pebblestore is an on-disk persist.ChunkRepository backed by
// github.com/cockroachdb/pebble, grounded on hexknight01-vecble's
// internal/storage package (a thin struct wrapping *pebble.DB, with
// Get returning the value and a closer, Set taking write options).
// This is the "browser-embedded object store" target the engine's
// repository contract is written against, made concrete for a native
// on-disk deployment.
package pebblestore

import (
	"context"
	"encoding/binary"

	"github.com/cockroachdb/pebble"
	"github.com/fincapy/radsheet-sub000/bloom"
	"github.com/fincapy/radsheet-sub000/codec"
	"github.com/fincapy/radsheet-sub000/errs"
	"github.com/fincapy/radsheet-sub000/persist"
)

var _ persist.ChunkRepository = (*Store)(nil)

// bloomWords sizes the existence filter: 1<<14 64-bit words is 128KiB
// and about a million bits. The filter sets one bit per key, so for n
// written chunk keys its false-positive rate is roughly 1-e^(-n/2^20):
// about 9% at a hundred thousand keys, about 25% at three hundred
// thousand.
const bloomWords = 1 << 14

// Store is a persist.ChunkRepository backed by a single pebble
// database. Chunk keys live under a 0x00 prefix (big-endian u64
// suffix, keeping chunk keys ordered on disk the way row-major chunk
// access tends to touch neighboring keys together); the interned
// string list lives at the single fixed key 0x01.
//
// A bloom filter over every chunk key ever written lets GetBytes skip
// the pebble lookup entirely for a key that was never persisted,
// mirroring the bloom filters an LSM tree keeps in front of its own
// SSTables. The filter is rebuilt from existing keys on Open and kept
// up to date on PutBytes; it is never cleared on Delete, so it can
// occasionally pass a deleted key through to a real (miss) lookup, but
// it never blocks a present key.
type Store struct {
	db *pebble.DB
	bf *bloom.Filter
}

var stringListKey = []byte{0x01}

// Open creates or opens a pebble database rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errs.Wrap(err, "pebblestore: open")
	}
	bf, err := bloom.NewFilter(bloomWords)
	if err != nil {
		db.Close()
		return nil, errs.Wrap(err, "pebblestore: build existence filter")
	}
	if err := populateFilter(db, bf); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, bf: bf}, nil
}

// populateFilter scans every existing chunk key so a freshly opened
// Store's bloom filter reflects data from a prior process.
func populateFilter(db *pebble.DB, bf *bloom.Filter) error {
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{0x00},
		UpperBound: []byte{0x01},
	})
	if err != nil {
		return errs.Wrap(errs.ErrRepositoryError, err.Error())
	}
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		bf.Insert(key)
	}
	return nil
}

// Close releases the underlying pebble database.
func (s *Store) Close() error {
	return s.db.Close()
}

func chunkDiskKey(key uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = 0x00
	binary.BigEndian.PutUint64(buf[1:], key)
	return buf
}

// GetBytes implements persist.ChunkRepository.
func (s *Store) GetBytes(_ context.Context, key uint64) ([]byte, bool, error) {
	diskKey := chunkDiskKey(key)
	if !s.bf.Probe(diskKey) {
		return nil, false, nil
	}
	v, closer, err := s.db.Get(diskKey)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrRepositoryError, err.Error())
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// PutBytes implements persist.ChunkRepository.
func (s *Store) PutBytes(_ context.Context, key uint64, data []byte) error {
	diskKey := chunkDiskKey(key)
	if err := s.db.Set(diskKey, data, pebble.Sync); err != nil {
		return errs.Wrap(errs.ErrRepositoryError, err.Error())
	}
	s.bf.Insert(diskKey)
	return nil
}

// Delete implements persist.ChunkRepository.
func (s *Store) Delete(_ context.Context, key uint64) error {
	if err := s.db.Delete(chunkDiskKey(key), pebble.Sync); err != nil {
		return errs.Wrap(errs.ErrRepositoryError, err.Error())
	}
	return nil
}

// GetStringList implements persist.ChunkRepository. The list is
// decoded as a varint count followed by, for each entry, a varint
// byte length and the UTF-8 bytes themselves.
func (s *Store) GetStringList(_ context.Context) ([]string, bool, error) {
	v, closer, err := s.db.Get(stringListKey)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrRepositoryError, err.Error())
	}
	defer closer.Close()

	list, err := decodeStringList(v)
	if err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// PutStringList implements persist.ChunkRepository.
func (s *Store) PutStringList(_ context.Context, list []string) error {
	if err := s.db.Set(stringListKey, encodeStringList(list), pebble.Sync); err != nil {
		return errs.Wrap(errs.ErrRepositoryError, err.Error())
	}
	return nil
}

func encodeStringList(list []string) []byte {
	buf := codec.PutUvarint(nil, uint64(len(list)))
	for _, s := range list {
		buf = codec.PutUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	return buf
}

func decodeStringList(buf []byte) ([]string, error) {
	count, offset, err := codec.ReadUvarint(buf, 0)
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		n, next, err := codec.ReadUvarint(buf, offset)
		if err != nil {
			return nil, err
		}
		offset = next
		if offset+int(n) > len(buf) {
			return nil, errs.Wrap(errs.ErrDecodeError, "pebblestore: truncated string list entry")
		}
		list = append(list, string(buf[offset:offset+int(n)]))
		offset += int(n)
	}
	return list, nil
}
