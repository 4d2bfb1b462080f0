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
	"github.com/walteh/projsync/pkg/target"
	"github.com/walteh/projsync/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations one after another. Operations
// never run concurrently so every backup lands before its write.
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{logger: logger}
}

// 🏃 Run executes the operations in order and stops at the first error
// or when ctx is done
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		r.logger.Debug().Str("operation", op.Name()).Msg("starting operation")
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("executing %s: %w", op.Name(), err)
		}
		r.logger.Debug().Str("operation", op.Name()).Msg("finished operation")
	}
	return nil
}

// SyncOperation adapts a Syncer to the runner
type SyncOperation struct {
	Syncer  *Syncer
	Targets []target.Descriptor
	DryRun  bool

	Results []*SyncResult
}

func (op *SyncOperation) Name() string { return "sync" }

func (op *SyncOperation) Execute(ctx context.Context) error {
	results, err := op.Syncer.SyncAll(ctx, op.Targets, op.DryRun)
	op.Results = results
	return err
}

// CleanOperation adapts a Cleaner to the runner
type CleanOperation struct {
	Cleaner *Cleaner
	Root    string
	Rules   []trash.Rule
	Options CleanOptions

	Trashed []Trashed
}

func (op *CleanOperation) Name() string { return "clean" }

func (op *CleanOperation) Execute(ctx context.Context) error {
	trashed, err := op.Cleaner.Clean(ctx, op.Root, op.Rules, op.Options)
	op.Trashed = trashed
	return err
}
