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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/runctx"
	"github.com/walteh/projsync/pkg/source"
	"github.com/walteh/projsync/pkg/status"
	"github.com/walteh/projsync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work the runner executes
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// 🔧 Options contains the collaborators every operation needs
type Options struct {
	// Workspace performs all filesystem mutations
	Workspace *workspace.Workspace
	// RunContext carries the clock, logger and dry-run switch
	RunContext *runctx.RunContext
	// Bindings render sync templates; clean does not need them
	Bindings *source.Table
	// Reporter receives per-file events; defaults to status.Nop
	Reporter status.Reporter
}

func (o Options) validate(needBindings bool) error {
	if o.Workspace == nil {
		return errors.Errorf("workspace is required")
	}
	if o.RunContext == nil {
		return errors.Errorf("run context is required")
	}
	if needBindings && o.Bindings == nil {
		return errors.Errorf("source bindings are required")
	}
	return nil
}

// BaseOperation holds what Syncer and Cleaner share
type BaseOperation struct {
	ws       *workspace.Workspace
	rc       *runctx.RunContext
	reporter status.Reporter
}

func newBase(opts Options) BaseOperation {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = status.Nop{}
	}
	return BaseOperation{
		ws:       opts.Workspace,
		rc:       opts.RunContext,
		reporter: reporter,
	}
}

func (b *BaseOperation) logger() *zerolog.Logger {
	return b.rc.Logger()
}

// relative returns path relative to the project root for reporting
func (b *BaseOperation) relative(path string) string {
	rel, err := b.ws.Rel(path)
	if err != nil {
		return path
	}
	return rel
}
