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
	"github.com/walteh/projsync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrOutOfSync is returned by status --check when a sync would change files
var ErrOutOfSync = errors.Base("targets are out of sync")

// NewStatusCmd creates a new status command
func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		only     []string
		showDiff bool
		check    bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check which targets a sync would change",
		Long: `Status renders every enabled target without writing anything and reports
whether its file is in sync with the bindings. With --check it exits with
an error when any target is out of sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			targets, err := filterTargets(opts.Config.Descriptors(), only)
			if err != nil {
				return err
			}

			syncer, err := operation.NewSyncer(opts.Operation())
			if err != nil {
				return errors.Errorf("creating syncer: %w", err)
			}

			statuses, err := syncer.Status(ctx, targets)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			for _, st := range statuses {
				var mark string
				switch {
				case st.Missing:
					mark = "⏭️  missing"
				case st.InSync:
					mark = "👍 in sync"
				default:
					mark = "📝 out of sync"
				}
				fmt.Fprintf(out, "%-15s %-35s %s\n", st.Target, st.Path, mark)
				if showDiff {
					printDiff(out, st.Target, st.Diff)
				}
			}

			if !operation.NeedsSync(statuses) {
				opts.Console.Success("all targets are in sync")
				return nil
			}
			if check {
				return errors.WithStack(ErrOutOfSync)
			}
			stale := 0
			for _, st := range statuses {
				if !st.InSync {
					stale++
				}
			}
			opts.Console.Warningf("%d target(s) out of sync, run sync to update them", stale)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&only, "target", "t", nil, "only check the named targets")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff for every out-of-sync target")
	cmd.Flags().BoolVar(&check, "check", false, "fail when any target is out of sync")

	return cmd
}
