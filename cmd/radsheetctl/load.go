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
	"os"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	var top, left int
	cmd := &cobra.Command{
		Use:   "load <tsv-file>",
		Short: "Parse a TSV file and write it into the sheet starting at (--top, --left)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			cfg := loadConfig()
			s, store, err := openSheet(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, cols, written := s.DeserializeTSV(top, left, string(text))
			s.Flush()

			fmt.Printf("loaded %d rows x %d cols, %d cells written\n", rows, cols, written)
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "top row to start writing at")
	cmd.Flags().IntVar(&left, "left", 0, "left column to start writing at")
	return cmd
}
