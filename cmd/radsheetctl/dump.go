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
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var top, left, bottom, right int
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a rectangular range of the sheet as TSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			s, store, err := openSheet(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := s.LoadRange(context.Background(), top, left, bottom, right); err != nil {
				return err
			}
			fmt.Println(s.SerializeRangeToTSV(top, left, bottom, right))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "top row")
	cmd.Flags().IntVar(&left, "left", 0, "left column")
	cmd.Flags().IntVar(&bottom, "bottom", 63, "bottom row")
	cmd.Flags().IntVar(&right, "right", 25, "right column")
	return cmd
}
