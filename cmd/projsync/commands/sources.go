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
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/projsync/cmd/projsync/opts"
	"gitlab.com/tozd/go/errors"
)

// NewSourcesCmd creates a new sources command
func NewSourcesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List every binding with its expression and resolved value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bindings := opts.Bindings

			data := pterm.TableData{{"NAME", "EXPRESSION", "VALUE"}}
			failed := 0
			for _, name := range bindings.Names() {
				expr, _ := bindings.Expression(name)
				value, err := bindings.GetString(ctx, name)
				if err != nil {
					failed++
					value = color.RedString("error: %v", err)
				}
				data = append(data, []string{name, expr.String(), value})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)

			if failed > 0 {
				return errors.Errorf("%d source(s) failed to resolve", failed)
			}
			return nil
		},
	}

	return cmd
}
