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
)

// NewFunctionsCmd creates a new functions command
func NewFunctionsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "functions",
		Short:       "List the functions available in placeholder filters",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AnnotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sig := range opts.Functions.Describe() {
				fmt.Fprintln(cmd.OutOrStdout(), sig)
			}
			return nil
		},
	}

	return cmd
}
