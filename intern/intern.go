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

// Package intern implements the process-wide (per-Sheet) string interner:
// a bidirectional string<->id table with a dirty flag for persistence,
// grounded on vogtb-go-spreadsheet's reference-counted id table
// pattern (vogtb-go-spreadsheet's WorksheetTable assigns dense ids and
// tracks definition state); this interner is simpler — ids are permanent
// once assigned, no reference counting or eviction.
package intern

import "sync"

// Interner maps strings to densely-assigned, permanent ids and back.
// Id 0 is a valid id, assigned to the first inserted string (not reserved
// for the empty/absent value).
type Interner struct {
	mu          sync.RWMutex
	toID        map[string]uint32
	toText      []string
	unpersisted bool
}

// New returns an empty interner.
func New() *Interner {
	return &Interner{
		toID: make(map[string]uint32),
	}
}

// IDFor returns the existing id for text, or allocates and returns the
// next dense id, raising HasUnpersistedChanges on allocation.
func (in *Interner) IDFor(text string) uint32 {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.toID[text]; ok {
		return id
	}
	id := uint32(len(in.toText))
	in.toID[text] = id
	in.toText = append(in.toText, text)
	in.unpersisted = true
	return id
}

// TextFor looks up the string for an id. Returns false if the id has
// never been assigned.
func (in *Interner) TextFor(id uint32) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.toText) {
		return "", false
	}
	return in.toText[id], true
}

// HasUnpersistedChanges reports whether any id has been allocated since
// the last LoadFrom or MarkPersisted.
func (in *Interner) HasUnpersistedChanges() bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.unpersisted
}

// MarkPersisted clears the dirty flag after a successful persist of the
// string list. Only the persistence pipeline should call this, and
// only after the repository write it guards has completed: the dirty
// flag must stay set for the whole round trip, not just while the
// write is enqueued.
func (in *Interner) MarkPersisted() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.unpersisted = false
}

// LoadFrom replaces the interner's contents with list, assigning dense
// ids in list order, and clears the dirty flag.
func (in *Interner) LoadFrom(list []string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.toID = make(map[string]uint32, len(list))
	in.toText = make([]string, len(list))
	for i, s := range list {
		in.toID[s] = uint32(i)
		in.toText[i] = s
	}
	in.unpersisted = false
}

// Snapshot returns an immutable copy of the current string list, in id
// order, suitable for handing to a background persistence worker without
// sharing mutable state.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]string, len(in.toText))
	copy(out, in.toText)
	return out
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.toText)
}
