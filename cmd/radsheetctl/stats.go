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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print hot-cache and interner occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			s, store, err := openSheet(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			st := s.Stats()
			fmt.Printf("hot_chunks=%d dirty_chunks=%d interner_size=%d estimated_bytes=%d\n",
				st.HotChunks, st.DirtyChunks, st.InternerSize, s.EstimatedBytesInHotCache())
			return nil
		},
	}
}
