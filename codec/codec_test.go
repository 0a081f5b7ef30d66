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

package codec

import (
	"testing"

	"github.com/fincapy/radsheet-sub000/tile"
	"github.com/stretchr/testify/require"
)

type memInterner struct {
	toID map[string]uint32
	list []string
}

func newMemInterner() *memInterner { return &memInterner{toID: map[string]uint32{}} }

func (m *memInterner) IDFor(text string) uint32 {
	if id, ok := m.toID[text]; ok {
		return id
	}
	id := uint32(len(m.list))
	m.toID[text] = id
	m.list = append(m.list, text)
	return id
}

func (m *memInterner) TextFor(id uint32) (string, bool) {
	if int(id) >= len(m.list) {
		return "", false
	}
	return m.list[id], true
}

func TestVarintBoundaries(t *testing.T) {
	buf := PutUvarint(nil, 127)
	require.Len(t, buf, 1)
	v, n, err := ReadUvarint(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(127), v)
	require.Equal(t, 1, n)

	buf = PutUvarint(nil, 128)
	require.Len(t, buf, 2)
	v, _, err = ReadUvarint(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(128), v)
}

func TestRLERunOf300EncodesAsTwoPairs(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = 7
	}
	enc := RLEEncode(data)
	require.Equal(t, []byte{255, 7, 45, 7}, enc)

	dec, err := RLEDecode(enc, 300)
	require.NoError(t, err)
	require.Equal(t, data, dec)
}

func TestRLERejectsShortfall(t *testing.T) {
	_, err := RLEDecode([]byte{5, 1}, 10)
	require.Error(t, err)
}

func TestDenseChunkRoundTrip(t *testing.T) {
	in := newMemInterner()
	var c tile.Chunk = tile.NewDense()
	c = c.Set(0, tile.Text("hello"), in)
	c = c.Set(600, tile.Number(42), in)
	c = c.Set(4095, tile.Boolean(true), in)

	buf := EncodeChunk(c, in)
	require.Equal(t, MagicDense, buf[0])
	require.Equal(t, Version, buf[1])

	decoded, err := DecodeChunk(buf, in)
	require.NoError(t, err)
	require.Equal(t, tile.Text("hello"), decoded.Get(0, in))
	require.Equal(t, tile.Number(42), decoded.Get(600, in))
	require.Equal(t, tile.Boolean(true), decoded.Get(4095, in))
	require.Equal(t, 3, decoded.NonEmptyCount())
}

func TestSparseChunkRoundTrip(t *testing.T) {
	in := newMemInterner()
	var c tile.Chunk = tile.NewSparse()
	c = c.Set(3, tile.Number(3.14), in)
	c = c.Set(17, tile.Text("x"), in)
	c = c.Set(4000, tile.Boolean(false), in)

	buf := EncodeChunk(c, in)
	require.Equal(t, MagicSparse, buf[0])

	decoded, err := DecodeChunk(buf, in)
	require.NoError(t, err)
	require.Equal(t, tile.Number(3.14), decoded.Get(3, in))
	require.Equal(t, tile.Text("x"), decoded.Get(17, in))
	require.Equal(t, tile.Boolean(false), decoded.Get(4000, in))
}

func TestDecodeChunkRejectsUnknownMagic(t *testing.T) {
	in := newMemInterner()
	_, err := DecodeChunk([]byte{0x99, Version, 0}, in)
	require.Error(t, err)
}

func TestDecodeChunkRejectsUnknownVersion(t *testing.T) {
	in := newMemInterner()
	_, err := DecodeChunk([]byte{MagicDense, 0x02, 0}, in)
	require.Error(t, err)
}

func TestDecodeChunkRejectsTruncatedInput(t *testing.T) {
	in := newMemInterner()
	_, err := DecodeChunk([]byte{MagicSparse, Version}, in)
	require.Error(t, err)
}

func TestEncodeIsDeterministic(t *testing.T) {
	in := newMemInterner()
	var c tile.Chunk = tile.NewSparse()
	c = c.Set(1, tile.Number(1), in)
	c = c.Set(2, tile.Text("a"), in)

	buf1 := EncodeChunk(c, in)
	buf2 := EncodeChunk(c, in)
	require.Equal(t, buf1, buf2)
}
