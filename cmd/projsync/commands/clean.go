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
	"github.com/walteh/projsync/pkg/config"
	"github.com/walteh/projsync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		aggressive     bool
		dists          bool
		hardDelete     bool
		keepQuarantine bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Move build and cache artifacts into quarantine",
		Long: `Clean walks the project and moves every path matched by a trash rule into
the quarantine directory, mirroring its relative location. The previous
quarantine is destroyed first unless --keep-quarantine is given.
Flags left unset fall back to the project options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.Config

			if !cmd.Flags().Changed("aggressive") {
				aggressive = cfg.Option(config.OptionAggressive)
			}
			if !cmd.Flags().Changed("dists") {
				dists = cfg.Option(config.OptionDists)
			}
			if !cmd.Flags().Changed("hard-delete") {
				hardDelete = cfg.Option(config.OptionHardDelete)
			}
			destroy := cfg.Option(config.OptionDestroyQuarantine) && !keepQuarantine

			if opts.DryRun {
				opts.Console.Header("dry run, nothing will be moved or deleted")
			}

			cleaner, err := operation.NewCleaner(opts.Operation())
			if err != nil {
				return errors.Errorf("creating cleaner: %w", err)
			}

			op := &operation.CleanOperation{
				Cleaner: cleaner,
				Root:    opts.Workspace.Root(),
				Rules:   cfg.TrashRules(dists, aggressive),
				Options: operation.CleanOptions{
					HardDelete:        hardDelete,
					DryRun:            opts.DryRun,
					DestroyQuarantine: destroy,
				},
			}
			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
				return errors.Errorf("cleaning: %w", err)
			}

			switch {
			case opts.DryRun:
				opts.Console.Infof("%d path(s) would be trashed", len(op.Trashed))
			case hardDelete:
				opts.Console.Successf("%d path(s) deleted", len(op.Trashed))
			default:
				opts.Console.Successf("%d path(s) quarantined in %s", len(op.Trashed), opts.Workspace.QuarantineDir())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&aggressive, "aggressive", "a", false, "also match aggressive-tier rules")
	cmd.Flags().BoolVar(&dists, "dists", false, "also trash the dists directory")
	cmd.Flags().BoolVar(&hardDelete, "hard-delete", false, "delete instead of quarantining")
	cmd.Flags().BoolVar(&keepQuarantine, "keep-quarantine", false, "keep the previous quarantine contents")

	return cmd
}
