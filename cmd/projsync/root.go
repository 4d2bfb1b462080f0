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

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/projsync/cmd/projsync/commands"
	"github.com/walteh/projsync/cmd/projsync/opts"
	"github.com/walteh/projsync/pkg/config"
	"github.com/walteh/projsync/pkg/functions"
	"github.com/walteh/projsync/pkg/log"
	"github.com/walteh/projsync/pkg/remote"
	"github.com/walteh/projsync/pkg/remote/cache"
	"github.com/walteh/projsync/pkg/runctx"
	"github.com/walteh/projsync/pkg/settings"
	"github.com/walteh/projsync/pkg/source"
	"github.com/walteh/projsync/pkg/template"
	"github.com/walteh/projsync/pkg/workspace"
	"gitlab.com/tozd/go/errors"

	_ "github.com/walteh/projsync/pkg/remote/github"
)

// clock is replaced in tests
var clock = time.Now

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &opts.RootOpts{Out: stdout}

	cmd := &cobra.Command{
		Use:   "projsync",
		Short: "Keep project metadata files in sync with one source of truth",
		Long: `projsync reads bindings from the project configuration and rewrites the
matching lines of headers, recipes, Dockerfiles and citation files. It can
also sweep build and cache artifacts into a quarantine directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(stderr, o.Debug)
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			if err := newRootOpts(ctx, o, logger); err != nil {
				return err
			}
			if cmd.Annotations[commands.AnnotationStandalone] == "true" {
				return nil
			}
			return loadProject(ctx, o)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewSyncCmd(o),
		commands.NewCleanCmd(o),
		commands.NewStatusCmd(o),
		commands.NewSourcesCmd(o),
		commands.NewRenderCmd(o),
		commands.NewFunctionsCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "project config file (default: discovered in the project root)")
	cmd.PersistentFlags().StringVar(&o.SettingsFile, "settings", settings.DefaultFile(), "user settings file")
	cmd.PersistentFlags().StringVarP(&o.Root, "root", "r", ".", "project root")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.DryRun, "dry-run", "n", false, "report changes without touching any file")
}

// setupLogging builds the process logger based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// newRootOpts fills in everything that does not depend on a project
func newRootOpts(ctx context.Context, o *opts.RootOpts, logger zerolog.Logger) error {
	s, err := settings.Load(settings.WithFile(o.SettingsFile))
	if err != nil {
		return errors.Errorf("loading settings: %w", err)
	}
	o.Settings = s

	o.RunContext = runctx.New(clock(), runctx.WithLogger(logger), runctx.WithDryRun(o.DryRun))

	provider, err := newProvider(ctx, s)
	if err != nil {
		return err
	}
	o.Functions = functions.New(o.RunContext,
		functions.WithRegistryClient(provider),
		functions.WithLicenseClient(provider),
	)

	reporterLog := logger
	if !o.Debug {
		reporterLog = logger.Level(zerolog.WarnLevel)
	}
	o.Console = log.New(o.Out, reporterLog)
	return nil
}

func newProvider(ctx context.Context, s *settings.Settings) (remote.Provider, error) {
	p, err := remote.New(ctx, s.Provider, remote.Options{
		Token:   s.GitHub.Token,
		Timeout: s.GitHub.Timeout,
	})
	if err != nil {
		return nil, errors.Errorf("creating provider: %w", err)
	}
	if !s.Cache.Enabled {
		return p, nil
	}
	return cache.New(p, cache.WithDir(s.Cache.Dir), cache.WithTTL(s.Cache.TTL)), nil
}

// loadProject reads the project configuration and binds it to the workspace
func loadProject(ctx context.Context, o *opts.RootOpts) error {
	path := o.ConfigFile
	if path == "" {
		found, err := config.Discover(o.Root)
		if err != nil {
			return errors.Errorf("finding project config: %w", err)
		}
		path = found
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return err
	}
	o.Config = cfg

	quarantine := cfg.Trash.Quarantine
	if o.Settings.Quarantine.Dir != "" {
		quarantine = o.Settings.Quarantine.Dir
	}
	ws, err := workspace.New(o.Root, o.RunContext, workspace.WithQuarantineDir(quarantine))
	if err != nil {
		return errors.Errorf("opening workspace: %w", err)
	}
	o.Workspace = ws

	o.Bindings = source.NewTable(cfg.Doc, cfg.Sources, o.Functions,
		template.WithMaxDepth(o.Settings.Substitution.Depth),
	).WithLogger(o.RunContext.Logger())

	zerolog.Ctx(ctx).Debug().
		Str("config", cfg.String()).
		Str("root", ws.Root()).
		Str("quarantine", ws.QuarantineDir()).
		Msg("project loaded")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{commands.AnnotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
			return err
		},
	}
}
