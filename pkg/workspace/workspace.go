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

package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/walteh/projsync/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

// DefaultQuarantineDir is created under the project root
const DefaultQuarantineDir = ".projsync"

// ❌ PathEscapeError is returned for any path that is not a strict
// descendant of the project root
type PathEscapeError struct {
	Path string
	Root string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("path %q escapes project root %q", e.Path, e.Root)
}

// 💾 BackupRecord ties an original path to its recoverable copy
type BackupRecord struct {
	Original  string
	Backup    string
	Timestamp time.Time
}

// 🏠 Workspace performs every filesystem mutation under a project root
type Workspace struct {
	root       string
	quarantine string
	rc         *runctx.RunContext
}

// Option configures a Workspace
type Option func(*Workspace) error

// WithQuarantineDir sets the quarantine directory, relative to the root
// unless absolute. It must itself be a strict descendant of the root.
func WithQuarantineDir(dir string) Option {
	return func(w *Workspace) error {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(w.root, dir)
		}
		dir = filepath.Clean(dir)
		if _, err := w.Rel(dir); err != nil {
			return err
		}
		w.quarantine = dir
		return nil
	}
}

// 🏭 New creates a workspace rooted at root
func New(root string, rc *runctx.RunContext, opts ...Option) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving project root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("checking project root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("project root %s is not a directory", abs)
	}

	w := &Workspace{
		root:       abs,
		quarantine: filepath.Join(abs, DefaultQuarantineDir),
		rc:         rc,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Workspace) Root() string { return w.root }

func (w *Workspace) QuarantineDir() string { return w.quarantine }

// Abs resolves path against the root
func (w *Workspace) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.root, path)
}

// 🔒 Rel returns path relative to the root, or a PathEscapeError when it is
// the root itself or lies outside it. Symlinked parents are resolved.
func (w *Workspace) Rel(path string) (string, error) {
	abs := w.Abs(path)
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.WithStack(&PathEscapeError{Path: path, Root: w.root})
	}
	return rel, nil
}

// Check is Rel without the result
func (w *Workspace) Check(path string) error {
	_, err := w.Rel(path)
	return err
}

// InQuarantine reports whether path is the quarantine directory or inside it
func (w *Workspace) InQuarantine(path string) bool {
	abs := w.Abs(path)
	return abs == w.quarantine || strings.HasPrefix(abs, w.quarantine+string(filepath.Separator))
}

// BackupPath returns <quarantine>/<rel>.<stamp>.bak, adding a counter
// when that name is taken
func (w *Workspace) BackupPath(path string) (string, error) {
	rel, err := w.Rel(path)
	if err != nil {
		return "", err
	}
	base := filepath.Join(w.quarantine, rel) + "." + w.rc.Stamp()
	candidate := base + ".bak"
	for i := 1; ; i++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Errorf("checking backup path %s: %w", candidate, err)
		}
		candidate = base + "-" + strconv.Itoa(i) + ".bak"
	}
}

// 📦 Backup copies a file into the quarantine directory
func (w *Workspace) Backup(ctx context.Context, path string) (*BackupRecord, error) {
	abs := w.Abs(path)
	if err := w.Check(abs); err != nil {
		return nil, err
	}
	backup, err := w.BackupPath(abs)
	if err != nil {
		return nil, err
	}
	if err := copyFile(abs, backup); err != nil {
		return nil, errors.Errorf("creating backup: %w", err)
	}
	w.rc.Logger().Debug().Str("path", abs).Str("backup", backup).Msg("backed up file")
	return &BackupRecord{Original: abs, Backup: backup, Timestamp: w.rc.Now()}, nil
}

// Restore copies a backup over its original. The backup is kept.
func (w *Workspace) Restore(ctx context.Context, rec *BackupRecord) error {
	if rec == nil {
		return errors.Errorf("no backup to restore")
	}
	if err := w.Check(rec.Original); err != nil {
		return err
	}
	if err := copyFile(rec.Backup, rec.Original); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}
	w.rc.Logger().Debug().Str("path", rec.Original).Str("backup", rec.Backup).Msg("restored file")
	return nil
}

// ✍️ WriteFileAtomic writes through a temp file and a rename, keeping the
// original mode when the file exists
func (w *Workspace) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	abs := w.Abs(path)
	if err := w.Check(abs); err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting mode: %w", err)
	}
	if err := os.Rename(tempPath, abs); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// 🚚 Quarantine moves a file or directory to its backup path
func (w *Workspace) Quarantine(ctx context.Context, path string) (*BackupRecord, error) {
	abs := w.Abs(path)
	if err := w.Check(abs); err != nil {
		return nil, err
	}
	if w.InQuarantine(abs) {
		return nil, errors.Errorf("refusing to quarantine %s: already in quarantine", abs)
	}
	backup, err := w.BackupPath(abs)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(backup), 0755); err != nil {
		return nil, errors.Errorf("creating quarantine directory: %w", err)
	}
	if err := os.Rename(abs, backup); err != nil {
		return nil, errors.Errorf("moving to quarantine: %w", err)
	}
	return &BackupRecord{Original: abs, Backup: backup, Timestamp: w.rc.Now()}, nil
}

// 🗑️ Delete removes a file or directory without a backup
func (w *Workspace) Delete(ctx context.Context, path string) error {
	abs := w.Abs(path)
	if err := w.Check(abs); err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return errors.Errorf("deleting %s: %w", abs, err)
	}
	return nil
}

// DestroyQuarantine removes the quarantine directory and reports whether
// it existed
func (w *Workspace) DestroyQuarantine(ctx context.Context) (bool, error) {
	if _, err := os.Lstat(w.quarantine); os.IsNotExist(err) {
		return false, nil
	}
	if err := w.Check(w.quarantine); err != nil {
		return false, err
	}
	if err := os.RemoveAll(w.quarantine); err != nil {
		return false, errors.Errorf("removing quarantine: %w", err)
	}
	return true, nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source mode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}
	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}
	return nil
}
