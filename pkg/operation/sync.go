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
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/walteh/projsync/pkg/source"
	"github.com/walteh/projsync/pkg/status"
	"github.com/walteh/projsync/pkg/target"
	"github.com/walteh/projsync/pkg/text"
	"github.com/walteh/projsync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// ❌ TargetNotFoundError is returned when a target file does not exist
type TargetNotFoundError struct {
	Target string
	Path   string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target %s: file %s not found", e.Target, e.Path)
}

// ❌ PatchError reports the line a target failed on. The file is left as
// it was.
type PatchError struct {
	Path  string
	Line  int
	Cause error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("patching %s at line %d: %v", e.Path, e.Line, e.Cause)
}

func (e *PatchError) Unwrap() error { return e.Cause }

// TargetFailure pairs a target with the error that stopped it
type TargetFailure struct {
	Target string
	Err    error
}

// ❌ SyncFailures collects every failed target of a SyncAll run
type SyncFailures struct {
	Failures []TargetFailure
}

func (e *SyncFailures) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Target, f.Err))
	}
	return fmt.Sprintf("%d target(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *SyncFailures) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Err)
	}
	return out
}

// 📝 SyncResult describes one patched target
type SyncResult struct {
	Target   string
	Path     string
	Lines    []string
	Backup   *workspace.BackupRecord
	Modified bool
	DryRun   bool

	original []byte
	patched  []byte
}

// 🔄 Syncer propagates source bindings into target files
type Syncer struct {
	BaseOperation
	bindings *source.Table
}

// 🏭 NewSyncer creates a syncer
func NewSyncer(opts Options) (*Syncer, error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}
	return &Syncer{
		BaseOperation: newBase(opts),
		bindings:      opts.Bindings,
	}, nil
}

func (s *Syncer) render(ctx context.Context, tmpl string) (string, error) {
	return s.bindings.Engine().Substitute(ctx, tmpl)
}

// 🔧 Apply patches one target. The file is backed up before it is written,
// even when nothing changes. A dry run renders the same lines but skips
// the backup and the write.
func (s *Syncer) Apply(ctx context.Context, d target.Descriptor, dryRun bool) (*SyncResult, error) {
	rel, err := d.RenderPath(ctx, s.render)
	if err != nil {
		return nil, err
	}
	path := s.ws.Abs(rel)
	if err := s.ws.Check(path); err != nil {
		return nil, err
	}

	original, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStack(&TargetNotFoundError{Target: d.Name, Path: s.relative(path)})
		}
		return nil, errors.Errorf("reading target %s: %w", d.Name, err)
	}

	patched, err := text.Patch(ctx, bytes.NewReader(original), d.Rules, s.render)
	if err != nil {
		var lineErr *text.LineError
		if errors.As(err, &lineErr) {
			return nil, errors.WithStack(&PatchError{Path: s.relative(path), Line: lineErr.Line, Cause: lineErr.Cause})
		}
		return nil, errors.Errorf("patching target %s: %w", d.Name, err)
	}

	result := &SyncResult{
		Target:   d.Name,
		Path:     path,
		Lines:    patched.Rendered,
		Modified: patched.WasModified,
		DryRun:   dryRun,
		original: patched.OriginalContent,
		patched:  patched.ModifiedContent,
	}

	s.logger().Debug().
		Str("target", d.Name).
		Str("path", path).
		Int("replacements", patched.ReplacementCount).
		Bool("modified", patched.WasModified).
		Bool("dry_run", dryRun).
		Msg("rendered target")

	if dryRun {
		return result, nil
	}

	rec, err := s.ws.Backup(ctx, path)
	if err != nil {
		return nil, errors.Errorf("backing up target %s: %w", d.Name, err)
	}
	result.Backup = rec

	if !patched.WasModified {
		return result, nil
	}

	if err := s.ws.WriteFileAtomic(ctx, path, patched.ModifiedContent); err != nil {
		if rerr := s.ws.Restore(ctx, rec); rerr != nil {
			return nil, errors.Errorf("writing target %s: %w (restore also failed: %v)", d.Name, err, rerr)
		}
		return nil, errors.Errorf("writing target %s: %w", d.Name, err)
	}
	return result, nil
}

// 🔄 SyncAll applies every target in order. Failures are collected into a
// SyncFailures error after the last target; a PathEscapeError stops the
// run at once. Absent optional targets are skipped.
func (s *Syncer) SyncAll(ctx context.Context, targets []target.Descriptor, dryRun bool) ([]*SyncResult, error) {
	s.reporter.StartOperation(ctx, "sync", len(targets))
	defer s.reporter.FinishOperation(ctx)

	var results []*SyncResult
	var failures []TargetFailure

	for _, d := range targets {
		res, err := s.Apply(ctx, d, dryRun)
		if err == nil {
			results = append(results, res)
			s.reporter.Report(ctx, s.event(res))
			continue
		}

		var escape *workspace.PathEscapeError
		if errors.As(err, &escape) {
			s.reporter.Report(ctx, status.Event{Operation: "sync", Name: d.Name, Path: escape.Path, Status: status.StatusFailed, DryRun: dryRun, Error: err})
			return results, err
		}

		var missing *TargetNotFoundError
		if errors.As(err, &missing) && d.Optional {
			s.logger().Debug().Str("target", d.Name).Str("path", missing.Path).Msg("optional target absent")
			s.reporter.Report(ctx, status.Event{Operation: "sync", Name: d.Name, Path: missing.Path, Status: status.StatusSkipped, DryRun: dryRun})
			continue
		}

		s.logger().Warn().Err(err).Str("target", d.Name).Msg("target failed")
		s.reporter.Report(ctx, status.Event{Operation: "sync", Name: d.Name, Path: d.Path, Status: status.StatusFailed, DryRun: dryRun, Error: err})
		failures = append(failures, TargetFailure{Target: d.Name, Err: err})
	}

	if len(failures) > 0 {
		return results, errors.WithStack(&SyncFailures{Failures: failures})
	}
	return results, nil
}

func (s *Syncer) event(res *SyncResult) status.Event {
	ev := status.Event{
		Operation:    "sync",
		Name:         res.Target,
		Path:         s.relative(res.Path),
		Status:       status.StatusUnchanged,
		Replacements: len(res.Lines),
		DryRun:       res.DryRun,
	}
	if res.Modified {
		ev.Status = status.StatusModified
	}
	if res.Backup != nil {
		ev.Backup = s.relative(res.Backup.Backup)
	}
	return ev
}

// 🔍 Preview renders a target without touching the filesystem and returns
// a line diff of the change
func (s *Syncer) Preview(ctx context.Context, d target.Descriptor) (string, error) {
	res, err := s.Apply(ctx, d, true)
	if err != nil {
		return "", err
	}
	return res.Diff(), nil
}

// Diff is the line diff between the file before and after patching
func (r *SyncResult) Diff() string {
	return text.Diff(string(r.original), string(r.patched))
}
