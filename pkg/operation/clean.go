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
	"io/fs"
	"path/filepath"

	"github.com/walteh/projsync/pkg/status"
	"github.com/walteh/projsync/pkg/trash"
	"github.com/walteh/projsync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// skippedDirs are never descended into
var skippedDirs = map[string]bool{
	".git":    true,
	".hg":     true,
	".svn":    true,
	".idea":   true,
	".vscode": true,
}

// CleanOptions controls a clean run
type CleanOptions struct {
	// HardDelete removes matches instead of quarantining them
	HardDelete bool
	DryRun     bool
	// DestroyQuarantine removes the previous quarantine directory first.
	// Never applied on a dry run.
	DestroyQuarantine bool
}

// DefaultCleanOptions quarantines matches and clears the previous quarantine
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{DestroyQuarantine: true}
}

// 🗑️ Trashed is one matched path and where it went. Backup is empty for
// hard deletes.
type Trashed struct {
	Path   string
	Rule   trash.Rule
	Backup string
}

// 🧹 Cleaner moves disposable paths into the quarantine directory
type Cleaner struct {
	BaseOperation
}

// 🏭 NewCleaner creates a cleaner
func NewCleaner(opts Options) (*Cleaner, error) {
	if err := opts.validate(false); err != nil {
		return nil, err
	}
	return &Cleaner{BaseOperation: newBase(opts)}, nil
}

// Find walks root depth-first in lexical order and returns every path a
// rule matches. Matched directories are not descended into.
func (c *Cleaner) Find(ctx context.Context, root string, rules []trash.Rule) ([]Trashed, error) {
	if root == "" {
		root = c.ws.Root()
	}
	root = c.ws.Abs(root)
	if root != c.ws.Root() {
		if err := c.ws.Check(root); err != nil {
			return nil, err
		}
	}

	var found []Trashed
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			c.logger().Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() && (skippedDirs[d.Name()] || c.ws.InQuarantine(path)) {
			return filepath.SkipDir
		}

		rel, err := c.ws.Rel(path)
		if err != nil {
			return err
		}
		rule, ok := trash.Match(rules, filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		found = append(found, Trashed{Path: path, Rule: rule})
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}
	return found, nil
}

// 🧹 Clean finds matches under root and then quarantines or deletes them
// in order. A dry run returns the same matches, with the backup paths a
// real run would use, and leaves the filesystem alone. Paths that cannot
// be moved are skipped with a warning.
func (c *Cleaner) Clean(ctx context.Context, root string, rules []trash.Rule, opts CleanOptions) ([]Trashed, error) {
	if opts.DestroyQuarantine && !opts.DryRun {
		existed, err := c.ws.DestroyQuarantine(ctx)
		if err != nil {
			return nil, err
		}
		if existed {
			c.logger().Info().Str("path", c.ws.QuarantineDir()).Msg("removed previous quarantine")
		}
	}

	found, err := c.Find(ctx, root, rules)
	if err != nil {
		return nil, err
	}

	c.reporter.StartOperation(ctx, "clean", len(found))
	defer c.reporter.FinishOperation(ctx)

	out := make([]Trashed, 0, len(found))
	for _, t := range found {
		ev := status.Event{
			Operation: "clean",
			Name:      t.Rule.Value,
			Path:      c.relative(t.Path),
			DryRun:    opts.DryRun,
		}

		switch {
		case opts.HardDelete:
			if !opts.DryRun {
				if err := c.ws.Delete(ctx, t.Path); err != nil {
					if isEscape(err) {
						return out, err
					}
					c.skip(ctx, ev, err)
					continue
				}
			}
			ev.Status = status.StatusDeleted

		case opts.DryRun:
			backup, err := c.ws.BackupPath(t.Path)
			if err != nil {
				return out, err
			}
			t.Backup = backup
			ev.Status = status.StatusQuarantined

		default:
			rec, err := c.ws.Quarantine(ctx, t.Path)
			if err != nil {
				if isEscape(err) {
					return out, err
				}
				c.skip(ctx, ev, err)
				continue
			}
			t.Backup = rec.Backup
			ev.Status = status.StatusQuarantined
		}

		if t.Backup != "" {
			ev.Backup = c.relative(t.Backup)
		}
		c.logger().Debug().Str("path", t.Path).Str("rule", t.Rule.String()).Str("backup", t.Backup).Msg("trashed")
		c.reporter.Report(ctx, ev)
		out = append(out, t)
	}
	return out, nil
}

func (c *Cleaner) skip(ctx context.Context, ev status.Event, err error) {
	c.logger().Warn().Err(err).Str("path", ev.Path).Msg("could not trash path, skipping")
	ev.Status = status.StatusFailed
	ev.Error = err
	c.reporter.Report(ctx, ev)
}

func isEscape(err error) bool {
	var escape *workspace.PathEscapeError
	return errors.As(err, &escape)
}
