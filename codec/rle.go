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

import "github.com/fincapy/radsheet-sub000/errs"

const maxRunLength = 255

// RLEEncode emits (run_length, value) pairs over data, each run capped at
// maxRunLength (255) bytes; a run of length 300 of the same byte encodes
// as two pairs: (255, v)(45, v).
func RLEEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)/4+2)
	i := 0
	for i < len(data) {
		v := data[i]
		j := i + 1
		for j < len(data) && data[j] == v && j-i < maxRunLength {
			j++
		}
		out = append(out, byte(j-i), v)
		i = j
	}
	return out
}

// RLEDecode inflates (run_length, value) pairs into a byte slice of
// exactly n bytes. Returns a DecodeError on truncated input or if the
// runs don't sum to exactly n.
func RLEDecode(data []byte, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := 0; i < len(data); i += 2 {
		if i+1 >= len(data) {
			return nil, errs.Wrap(errs.ErrDecodeError, "truncated RLE pair")
		}
		run, v := data[i], data[i+1]
		if run == 0 {
			return nil, errs.Wrap(errs.ErrDecodeError, "zero-length RLE run")
		}
		for k := byte(0); k < run; k++ {
			out = append(out, v)
		}
		if len(out) > n {
			return nil, errs.Wrap(errs.ErrDecodeError, "RLE runs overflow expected length")
		}
	}
	if len(out) != n {
		return nil, errs.Wrap(errs.ErrDecodeError, "RLE runs don't sum to expected length")
	}
	return out, nil
}
