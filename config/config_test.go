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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsAWorkingConfig(t *testing.T) {
	cfg := Default()
	require.NotEmpty(t, cfg.DataDir)
	require.Greater(t, cfg.HotCacheCapacity, 0)
	require.Greater(t, cfg.PersistConcurrency, 0)
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radsheet.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
hot_cache_capacity = 5000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5000, cfg.HotCacheCapacity)
	require.Equal(t, Default().PersistConcurrency, cfg.PersistConcurrency)
	require.Equal(t, Default().DataDir, cfg.DataDir)
}

func TestLoadSurfacesErrorForMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}

func TestLoadSurfacesErrorForMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
