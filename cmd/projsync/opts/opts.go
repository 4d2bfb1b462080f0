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

package opts

import (
	"io"

	"github.com/walteh/projsync/pkg/config"
	"github.com/walteh/projsync/pkg/functions"
	"github.com/walteh/projsync/pkg/log"
	"github.com/walteh/projsync/pkg/operation"
	"github.com/walteh/projsync/pkg/runctx"
	"github.com/walteh/projsync/pkg/settings"
	"github.com/walteh/projsync/pkg/source"
	"github.com/walteh/projsync/pkg/workspace"
)

// RootOpts contains shared options used by all commands. The flag fields
// are bound before parsing; the rest is filled in once flags are known.
type RootOpts struct {
	ConfigFile   string
	SettingsFile string
	Root         string
	Debug        bool
	DryRun       bool

	Out io.Writer

	Settings   *settings.Settings
	Config     *config.Config
	RunContext *runctx.RunContext
	Workspace  *workspace.Workspace
	Functions  *functions.Registry
	Bindings   *source.Table
	Console    *log.Logger
}

// Operation returns the options every operation constructor takes
func (o *RootOpts) Operation() operation.Options {
	return operation.Options{
		Workspace:  o.Workspace,
		RunContext: o.RunContext,
		Bindings:   o.Bindings,
		Reporter:   o.Console,
	}
}
