// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/kaomoji/cmd/kaomoji/opts"
	"github.com/walteh/kaomoji/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		limit     int
		threshold float64
		exact     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Show the dataset entries matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if threshold < 0 || threshold >= 1 {
				return errors.Errorf("--threshold must be in [0, 1), got %v", threshold)
			}
			if threshold == 0 {
				threshold = o.Replace.Config().Threshold
			}

			if _, err := o.LoadDataset(ctx); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			candidates := o.Search.Search(query, search.Options{
				Threshold: threshold,
				Limit:     limit,
				ExactOnly: exact,
			})

			return o.Printer.Candidates(query, candidates)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum candidates to show, 0 for all")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "minimum fuzzy similarity")
	cmd.Flags().BoolVar(&exact, "exact", false, "only keyword and alias matches")

	return cmd
}
