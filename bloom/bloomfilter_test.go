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

package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertedKeyIsAlwaysProbedPresent(t *testing.T) {
	f, err := NewFilter(64)
	require.NoError(t, err)

	f.Insert([]byte("chunk-1"))
	f.Insert([]byte("chunk-2"))

	require.True(t, f.Probe([]byte("chunk-1")))
	require.True(t, f.Probe([]byte("chunk-2")))
}

func TestUninsertedKeyIsUsuallyProbedAbsent(t *testing.T) {
	f, err := NewFilter(256)
	require.NoError(t, err)
	f.Insert([]byte("present"))

	require.False(t, f.Probe([]byte("absent")))
}

func TestNewFilterRejectsNonPositiveLength(t *testing.T) {
	_, err := NewFilter(0)
	require.Error(t, err)
}
