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

// Command radsheetctl is a CLI harness that drives the sheet engine
// end to end against a pebble-backed repository: load TSV into it,
// dump a range back out, force a flush, or print cache stats.
package main

import (
	"context"
	"os"

	"github.com/fincapy/radsheet-sub000/config"
	"github.com/fincapy/radsheet-sub000/log"
	"github.com/fincapy/radsheet-sub000/persist/pebblestore"
	"github.com/fincapy/radsheet-sub000/sheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "radsheetctl",
		Short: "Drive the radsheet core engine from the command line",
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "pebble data directory (overrides the config file's data_dir)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newLoadCmd(), newDumpCmd(), newFlushCmd(), newStatsCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.L().Error("radsheetctl: command failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.L().Error("radsheetctl: failed to load config, using defaults", zap.String("path", configPath), zap.Error(err))
		} else {
			cfg = loaded
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg
}

// openSheet opens the pebble store at cfg.DataDir, constructs a Sheet
// over it, and loads the persisted string table. Callers must Close
// the returned store once done.
func openSheet(cfg config.Config) (*sheet.Sheet, *pebblestore.Store, error) {
	store, err := pebblestore.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	s := sheet.New(
		sheet.WithDimensions(cfg.InitialRows, cfg.InitialCols),
		sheet.WithCacheCapacity(cfg.HotCacheCapacity),
		sheet.WithPersistConcurrency(cfg.PersistConcurrency),
	)
	if err := s.UseStore(store); err != nil {
		store.Close()
		return nil, nil, err
	}
	return s, store, nil
}
