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

package pebblestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestGetBytesMissOnUnknownKey(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.GetBytes(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPutThenGetBytesRoundTrips(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutBytes(context.Background(), 7, []byte("chunk-data")))

	got, ok, err := s.GetBytes(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("chunk-data"), got)
}

func TestDeleteRemovesKey(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutBytes(context.Background(), 1, []byte("x")))
	require.NoError(t, s.Delete(context.Background(), 1))

	_, ok, err := s.GetBytes(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStringListRoundTripsIncludingEmptyStrings(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.GetStringList(context.Background())
	require.NoError(t, err)
	require.False(t, ok)

	want := []string{"hello", "", "world", "with\ttab"}
	require.NoError(t, s.PutStringList(context.Background(), want))

	got, ok, err := s.GetStringList(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestChunkKeysDoNotCollideWithStringListKey(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.PutStringList(context.Background(), []string{"strings"}))
	require.NoError(t, s.PutBytes(context.Background(), 1, []byte("chunk")))

	list, ok, err := s.GetStringList(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"strings"}, list)

	data, ok, err := s.GetBytes(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("chunk"), data)
}
