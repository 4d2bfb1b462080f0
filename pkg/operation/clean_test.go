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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projsync/pkg/status"
	"github.com/walteh/projsync/pkg/target"
	"github.com/walteh/projsync/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

func relPaths(t *testing.T, root string, trashed []Trashed) []string {
	t.Helper()
	out := []string{}
	for _, tr := range trashed {
		rel, err := filepath.Rel(root, tr.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestClean(t *testing.T) {
	tree := map[string]string{
		"src/__pycache__/mod.cpython-312.pyc": "x",
		"src/real_code.py":                    "print('hi')",
		"src/stale.pyc":                       "x",
		"b/__pycache__/a.pyc":                 "x",
		"a/__pycache__/nested/__pycache__/x":  "x",
		".git/__pycache__/x":                  "x",
		".vscode/cache.tmp":                   "x",
		"dist/demo-0.1.0.tar.gz":              "x",
		"demo.egg-info/PKG-INFO":              "x",
		"notes~tmp":                           "x",
	}

	tests := []struct {
		name       string
		aggressive bool
		want       []string
	}{
		{
			name: "normal_tier",
			want: []string{
				"a/__pycache__",
				"b/__pycache__",
				"demo.egg-info",
				"src/__pycache__",
				"src/stale.pyc",
			},
		},
		{
			name:       "aggressive_tier",
			aggressive: true,
			want: []string{
				"a/__pycache__",
				"b/__pycache__",
				"demo.egg-info",
				"dist",
				"notes~tmp",
				"src/__pycache__",
				"src/stale.pyc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for rel, content := range tree {
				f.write(t, rel, content)
			}
			cleaner, err := NewCleaner(f.opts)
			require.NoError(t, err)

			rules := trash.Enabled(trash.Defaults(false), tt.aggressive)
			trashed, err := cleaner.Clean(f.ctx, "", rules, DefaultCleanOptions())
			require.NoError(t, err)

			assert.Equal(t, tt.want, relPaths(t, f.ws.Root(), trashed))
			for _, tr := range trashed {
				assert.NoFileExists(t, tr.Path)
				assert.NoDirExists(t, tr.Path)
				assert.True(t, strings.HasPrefix(tr.Backup, f.ws.QuarantineDir()+string(filepath.Separator)), tr.Backup)
				_, err := os.Lstat(tr.Backup)
				assert.NoError(t, err)
			}

			assert.FileExists(t, filepath.Join(f.ws.Root(), "src", "real_code.py"))
			assert.FileExists(t, filepath.Join(f.ws.Root(), ".git", "__pycache__", "x"))
			assert.FileExists(t, filepath.Join(f.ws.Root(), ".vscode", "cache.tmp"))
		})
	}
}

func TestCleanMirrorsRelativePath(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/__pycache__/mod.pyc", "bytes")
	f.write(t, "src/real_code.py", "code")

	cleaner, err := NewCleaner(f.opts)
	require.NoError(t, err)

	rules := []trash.Rule{{Kind: trash.ExactName, Value: "__pycache__", Tier: trash.Normal}}
	trashed, err := cleaner.Clean(f.ctx, "", rules, DefaultCleanOptions())
	require.NoError(t, err)
	require.Len(t, trashed, 1)

	want := filepath.Join(f.ws.QuarantineDir(), "src", "__pycache__."+f.rc.Stamp()+".bak")
	assert.Equal(t, want, trashed[0].Backup)
	assert.FileExists(t, filepath.Join(want, "mod.pyc"))
	assert.Equal(t, "code", f.read(t, "src/real_code.py"))
	assert.Equal(t, []string{"src/__pycache__"}, f.recorder.Paths(status.StatusQuarantined))
}

func TestCleanDryRun(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/__pycache__/mod.pyc", "bytes")
	f.write(t, "src/a.pyc", "bytes")
	f.write(t, ".projsync/old.txt.bak", "previous run")

	cleaner, err := NewCleaner(f.opts)
	require.NoError(t, err)
	rules := trash.Enabled(trash.Defaults(false), false)

	before := snapshot(t, f.ws.Root())
	opts := DefaultCleanOptions()
	opts.DryRun = true
	dry, err := cleaner.Clean(f.ctx, "", rules, opts)
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(t, f.ws.Root()), "dry run leaves the tree untouched")

	for _, tr := range dry {
		assert.NotEmpty(t, tr.Backup)
	}
	for _, ev := range f.recorder.Events() {
		assert.True(t, ev.DryRun)
	}

	applied, err := cleaner.Clean(f.ctx, "", rules, DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, relPaths(t, f.ws.Root(), dry), relPaths(t, f.ws.Root(), applied))
	assert.NoFileExists(t, filepath.Join(f.ws.QuarantineDir(), "old.txt.bak"), "previous quarantine destroyed")
}

func TestCleanKeepQuarantine(t *testing.T) {
	f := newFixture(t)
	f.write(t, ".projsync/old.txt.bak", "previous run")
	f.write(t, "x.pyc", "bytes")

	cleaner, err := NewCleaner(f.opts)
	require.NoError(t, err)

	trashed, err := cleaner.Clean(f.ctx, "", trash.Defaults(false), CleanOptions{})
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.FileExists(t, filepath.Join(f.ws.QuarantineDir(), "old.txt.bak"))
}

func TestCleanHardDelete(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/__pycache__/mod.pyc", "bytes")

	cleaner, err := NewCleaner(f.opts)
	require.NoError(t, err)

	trashed, err := cleaner.Clean(f.ctx, "", trash.Defaults(false), CleanOptions{HardDelete: true})
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Empty(t, trashed[0].Backup)
	assert.NoDirExists(t, filepath.Join(f.ws.Root(), "src", "__pycache__"))
	assert.NoDirExists(t, f.ws.QuarantineDir())
	assert.Equal(t, []string{"src/__pycache__"}, f.recorder.Paths(status.StatusDeleted))
}

func TestCleanSubdirectoryRoot(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a/x.pyc", "x")
	f.write(t, "b/y.pyc", "y")

	cleaner, err := NewCleaner(f.opts)
	require.NoError(t, err)

	trashed, err := cleaner.Clean(f.ctx, "b", trash.Defaults(false), DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"b/y.pyc"}, relPaths(t, f.ws.Root(), trashed))
	assert.FileExists(t, filepath.Join(f.ws.Root(), "a", "x.pyc"))

	_, err = cleaner.Clean(f.ctx, "..", trash.Defaults(false), CleanOptions{})
	require.Error(t, err)
}

type failingOp struct {
	name string
	err  error
	ran  *[]string
}

func (o failingOp) Name() string { return o.name }

func (o failingOp) Execute(ctx context.Context) error {
	*o.ran = append(*o.ran, o.name)
	return o.err
}

func TestRunner(t *testing.T) {
	f := newFixture(t)
	runner := NewRunner(f.rc.Logger())

	var ran []string
	err := runner.Run(f.ctx,
		failingOp{name: "first", ran: &ran},
		failingOp{name: "second", err: errors.New("boom"), ran: &ran},
		failingOp{name: "third", ran: &ran},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing second")
	assert.Equal(t, []string{"first", "second"}, ran)

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	ran = nil
	err = NewRunner(nil).Run(ctx, failingOp{name: "never", ran: &ran})
	require.Error(t, err)
	assert.Empty(t, ran)
}

func TestRunnerWithOperations(t *testing.T) {
	f := newFixture(t)
	f.write(t, "setup.cfg", setupCfg)
	f.write(t, "x.pyc", "x")

	syncer, err := NewSyncer(f.opts)
	require.NoError(t, err)
	cleaner, err := NewCleaner(f.opts)
	require.NoError(t, err)

	syncOp := &SyncOperation{Syncer: syncer, Targets: []target.Descriptor{versionTarget("setup.cfg")}}
	cleanOp := &CleanOperation{Cleaner: cleaner, Rules: trash.Defaults(false), Options: DefaultCleanOptions()}

	require.NoError(t, NewRunner(f.rc.Logger()).Run(f.ctx, syncOp, cleanOp))
	require.Len(t, syncOp.Results, 1)
	require.Len(t, cleanOp.Trashed, 1)
	assert.Contains(t, f.read(t, "setup.cfg"), `version = "0.1.0"`)
}
