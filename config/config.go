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

// Package config loads the engine's TOML configuration file into a
// struct pre-populated with defaults, following util/logutil and the
// rest of the ambient stack's "construct with sane defaults, override
// from file" convention.
package config

import (
	"github.com/BurntSushi/toml"
)

// Config holds the hot-cache capacity, persistence concurrency, the
// on-disk data directory for the pebble-backed repository, and initial
// sheet dimensions. Every field has a documented default so an absent
// or partial config file still yields a working engine.
type Config struct {
	// DataDir is the directory of the pebble database that holds the
	// chunk blobs and the interned string list.
	DataDir string `toml:"data_dir"`

	// HotCacheCapacity is the hot cache's maximum entry count before
	// write-back eviction kicks in.
	HotCacheCapacity int `toml:"hot_cache_capacity"`

	// PersistConcurrency bounds the number of in-flight chunk encodes
	// the background persist queue runs at once.
	PersistConcurrency int `toml:"persist_concurrency"`

	// InitialRows and InitialCols size a newly constructed sheet before
	// any persisted state is loaded. Overriding these is mainly useful
	// in tests; loading chunks with LoadRange does not change a sheet's
	// row or column count.
	InitialRows int `toml:"initial_rows"`
	InitialCols int `toml:"initial_cols"`
}

// Default returns a Config populated with the engine's built-in
// defaults, used both as the starting point for Load and directly by
// callers that have no config file at all.
func Default() Config {
	return Config{
		DataDir:            "radsheet-data",
		HotCacheCapacity:   2000,
		PersistConcurrency: 2,
		InitialRows:        1000,
		InitialCols:        26,
	}
}

// Load reads path as TOML over Default's values, so a config file only
// needs to set the fields it wants to override. A missing or malformed
// file is returned as an error; callers that want to tolerate an
// absent file should check os.IsNotExist themselves before calling Load.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
