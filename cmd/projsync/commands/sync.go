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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/projsync/cmd/projsync/opts"
	"github.com/walteh/projsync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewSyncCmd creates a new sync command
func NewSyncCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		only     []string
		showDiff bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rewrite target files from the project's bindings",
		Long: `Sync renders every enabled target and replaces the lines its rules match.
Every modified file is backed up to the quarantine directory first. With
--dry-run nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			targets, err := filterTargets(opts.Config.Descriptors(), only)
			if err != nil {
				return err
			}

			if opts.DryRun {
				opts.Console.Header("dry run, nothing will be written")
			}

			syncer, err := operation.NewSyncer(opts.Operation())
			if err != nil {
				return errors.Errorf("creating syncer: %w", err)
			}

			op := &operation.SyncOperation{Syncer: syncer, Targets: targets, DryRun: opts.DryRun}
			runErr := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op)

			if showDiff {
				for _, res := range op.Results {
					printDiff(cmd.OutOrStdout(), res.Target, res.Diff())
				}
			}

			if runErr != nil {
				return errors.Errorf("syncing targets: %w", runErr)
			}

			modified := 0
			for _, res := range op.Results {
				if res.Modified {
					modified++
				}
			}
			if opts.DryRun {
				opts.Console.Infof("%d target(s) would change", modified)
			} else {
				opts.Console.Successf("%d target(s) updated", modified)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&only, "target", "t", nil, "only sync the named targets")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff of every change")

	return cmd
}
