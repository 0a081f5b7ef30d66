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

// Package errs defines the engine's error taxonomy, built on
// github.com/pingcap/errors the way tidb's util/dbterror builds its
// own error classes on the same library.
package errs

import (
	"github.com/pingcap/errors"
)

// Sentinel kinds. Call sites wrap these with errors.Annotatef to attach
// context (chunk key, row/col, repository key) while preserving Is/Cause
// matching against the sentinel.
var (
	// ErrOutOfBounds is part of the taxonomy for completeness but is
	// never returned to a caller: by policy, coordinates outside a
	// sheet's bounds are clamped or silently ignored rather than
	// surfaced as an error. Kept as a sentinel so call sites that want
	// to assert the policy explicitly (tests, future instrumentation)
	// have one to match against.
	ErrOutOfBounds = errors.New("radsheet: out of bounds")

	// ErrDecodeError is returned when a byte blob fails to parse as a
	// chunk: bad magic, unknown version, unknown value tag, or truncated
	// input. The affected chunk is treated as absent; the cache stays
	// consistent.
	ErrDecodeError = errors.New("radsheet: decode error")

	// ErrRepositoryError wraps a failure from the external blob
	// repository (get/put/delete). The pipeline does not retry
	// automatically; the hot cache's dirty flag remains set.
	ErrRepositoryError = errors.New("radsheet: repository error")

	// ErrTransactionDiscarded is returned by Transact when the supplied
	// function returns an error; the pending ops are dropped without
	// touching the undo/redo stacks.
	ErrTransactionDiscarded = errors.New("radsheet: transaction discarded")

	// ErrWorkerCommunicationError indicates the persistence worker link
	// failed during init or a pending request; outstanding futures are
	// rejected with this error.
	ErrWorkerCommunicationError = errors.New("radsheet: worker communication error")
)

// Is reports whether err is, or wraps, target using pingcap/errors'
// cause-chain semantics.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap annotates err with a message while keeping it matchable against its
// original sentinel via Is.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Annotate(err, msg)
}

// Wrapf is the formatted form of Wrap.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Annotatef(err, format, args...)
}
