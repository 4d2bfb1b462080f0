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

	"github.com/spf13/cobra"
	"github.com/walteh/projsync/cmd/projsync/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRenderCmd creates a new render command
func NewRenderCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render TEMPLATE...",
		Short: "Substitute placeholders in each argument and print the result",
		Example: `  projsync render '${project.name} ${version}'
  projsync render '${version ~ semver::major(value) ~}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine := opts.Bindings.Engine()

			for _, tmpl := range args {
				out, err := engine.Substitute(ctx, tmpl)
				if err != nil {
					return errors.Errorf("rendering %q: %w", tmpl, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	return cmd
}
