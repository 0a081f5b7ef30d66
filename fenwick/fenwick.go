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

// Package fenwick implements a binary indexed tree over a 0/1 bitmap,
// giving O(log n) prefix-sum and order-statistic ("find the k-th set
// bit") queries. This backs the visual-row index in the
// view package: row visibility is a 0/1 signal, and a visual row
// number is a rank over the physical rows that are currently visible.
package fenwick

// Tree is a 1-indexed binary indexed tree over n positions, each
// holding a small non-negative delta (here always 0 or 1, but Add
// accepts any int so demotions/promotions of a run are cheap).
type Tree struct {
	bit []int64
	n   int
}

// New returns a Tree of size n with every position at zero.
func New(n int) *Tree {
	return &Tree{bit: make([]int64, n+1), n: n}
}

// FromBitmap builds a Tree in O(n) from an initial 0/1 signal, where
// bits[i] != 0 means position i (0-based) starts set.
func FromBitmap(bits []bool) *Tree {
	t := New(len(bits))
	for i, b := range bits {
		if b {
			t.bit[i+1]++
		}
	}
	for i := 1; i <= t.n; i++ {
		parent := i + (i & -i)
		if parent <= t.n {
			t.bit[parent] += t.bit[i]
		}
	}
	return t
}

// Len returns the tree's position count.
func (t *Tree) Len() int { return t.n }

// Add applies delta at 0-based position i.
func (t *Tree) Add(i int, delta int64) {
	for p := i + 1; p <= t.n; p += p & -p {
		t.bit[p] += delta
	}
}

// Set adds 1 at position i when on is true and subtracts 1 when it is
// false. It does not read the position's current value, so positions
// stay 0 or 1 only when it is called on an actual change of state.
func (t *Tree) Set(i int, on bool) {
	if on {
		t.Add(i, 1)
	} else {
		t.Add(i, -1)
	}
}

// Sum returns the prefix sum over positions [0, k) (0-based, exclusive
// upper bound). Sum(0) is 0; Sum(Len()) is the grand total.
func (t *Tree) Sum(k int) int64 {
	if k <= 0 {
		return 0
	}
	if k > t.n {
		k = t.n
	}
	var s int64
	for p := k; p > 0; p -= p & -p {
		s += t.bit[p]
	}
	return s
}

// Total returns the sum over all positions.
func (t *Tree) Total() int64 { return t.Sum(t.n) }

// FindKth returns the 0-based position of the k-th set bit (1-based
// rank: k=1 finds the first set bit), and true if it exists. Ties
// cannot occur for a 0/1 signal; the search deterministically returns
// the smallest qualifying index. Returns (0, false) if k <= 0 or k
// exceeds the total count of set bits.
func (t *Tree) FindKth(k int64) (int, bool) {
	if k <= 0 || k > t.Total() {
		return 0, false
	}
	pos := 0
	logn := 1
	for (1 << logn) <= t.n {
		logn++
	}
	remaining := k
	for bitPos := logn; bitPos >= 0; bitPos-- {
		next := pos + (1 << uint(bitPos))
		if next <= t.n && t.bit[next] < remaining {
			pos = next
			remaining -= t.bit[next]
		}
	}
	return pos, true
}
