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
	"github.com/spf13/cobra"
	"github.com/walteh/kaomoji/cmd/kaomoji/opts"
	"github.com/walteh/kaomoji/pkg/dataset"
	"github.com/walteh/kaomoji/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates the validate command
func NewValidateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every configured dataset source",
		Long: `Validate fetches and decodes each dataset source on its own and reports how many
entries it holds. Duplicate keywords and aliases are logged as warnings.
It fails if any source is unusable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			sources, err := o.Sources()
			if err != nil {
				return errors.Errorf("building dataset sources: %w", err)
			}
			if len(sources) == 0 {
				return errors.New("no dataset sources configured")
			}

			failed := 0
			for _, src := range sources {
				store := dataset.New()
				entries, err := src.Entries(ctx)
				if err == nil {
					err = store.Load(ctx, entries)
				}
				if err != nil {
					failed++
				}
				o.Printer.Validation(src.Name(), store.Len(), err)
			}

			if failed > 0 {
				logger.Errorf("%d of %d dataset sources failed", failed, len(sources))
				return errors.Errorf("%d of %d dataset sources failed", failed, len(sources))
			}
			logger.Successf("all %d dataset sources are valid", len(sources))
			return nil
		},
	}

	return cmd
}
