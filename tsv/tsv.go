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

// Package tsv implements the clipboard transcoder:
// tab-separated serialization of a rectangular block of cell values,
// and parsing of pasted TSV text back into typed values by inferring
// each field's type the way a spreadsheet's paste handler does.
package tsv

import (
	"math"
	"strconv"
	"strings"

	"github.com/fincapy/radsheet-sub000/tile"
)

// Serialize renders rows of cell values as TSV text: tab-separated
// fields, newline-separated rows, no trailing newline. Empty cells
// produce an empty field; numbers use their canonical decimal form;
// booleans serialize as TRUE/FALSE; text is written verbatim (no
// escaping of embedded tabs or newlines — round-trip for such fields
// is not guaranteed).
func Serialize(rows [][]tile.Value) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		fields := make([]string, len(row))
		for j, v := range row {
			fields[j] = serializeCell(v)
		}
		lines[i] = strings.Join(fields, "\t")
	}
	return strings.Join(lines, "\n")
}

func serializeCell(v tile.Value) string {
	switch v.Tag {
	case tile.TagEmpty:
		return ""
	case tile.TagNumber:
		return FormatNumber(v.Num)
	case tile.TagBoolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case tile.TagString:
		return v.Str
	default:
		return ""
	}
}

// Parse splits TSV text into rows of typed values, classifying each
// field by inferring its literal type. Returns the rows, the maximum row
// width observed (cols), and the count of non-empty cells produced.
func Parse(text string) (rows [][]tile.Value, cols int, written int) {
	lines := splitLines(text)
	rows = make([][]tile.Value, len(lines))
	for i, line := range lines {
		fields := strings.Split(line, "\t")
		row := make([]tile.Value, len(fields))
		for j, f := range fields {
			v := classifyField(f)
			row[j] = v
			if !v.IsEmpty() {
				written++
			}
		}
		rows[i] = row
		if len(row) > cols {
			cols = len(row)
		}
	}
	return rows, cols, written
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if normalized == "" {
		return nil
	}
	lines := strings.Split(normalized, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func classifyField(f string) tile.Value {
	trimmed := strings.TrimSpace(f)
	if trimmed == "" {
		return tile.Empty
	}
	if trimmed == "TRUE" {
		return tile.Boolean(true)
	}
	if trimmed == "FALSE" {
		return tile.Boolean(false)
	}
	if n, ok := parseCanonicalNumber(trimmed); ok {
		return tile.Number(n)
	}
	return tile.Text(f)
}

// parseCanonicalNumber reports whether s is a finite number whose
// canonical decimal re-serialization equals s exactly
// ("String(Number(s)) === s.trim()"). This rejects inputs like "1.0"
// or "+5" that parse as numbers but aren't canonical spellings of
// them, so they round-trip as text instead.
func parseCanonicalNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if FormatNumber(n) != s {
		return 0, false
	}
	return n, true
}

// FormatNumber spells n in canonical form, as JavaScript's String(n)
// does: plain decimal for magnitudes from 1e-6 up to (not including)
// 1e21, exponent form such as "1e+21" or "1e-7" outside that range,
// and "0" for both zeros.
func FormatNumber(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs == 0:
		return "0"
	case abs < 1e-6 || abs >= 1e21:
		return strings.Replace(strconv.FormatFloat(n, 'g', -1, 64), "e-0", "e-", 1)
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}
