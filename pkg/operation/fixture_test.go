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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/functions"
	"github.com/walteh/projsync/pkg/runctx"
	"github.com/walteh/projsync/pkg/source"
	"github.com/walteh/projsync/pkg/status"
	"github.com/walteh/projsync/pkg/workspace"
)

var testNow = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	rc       *runctx.RunContext
	ws       *workspace.Workspace
	recorder *status.Recorder
	opts     Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	rc := runctx.New(testNow, runctx.WithLogger(logger))

	ws, err := workspace.New(t.TempDir(), rc)
	require.NoError(t, err)

	doc, err := document.NewBuilder().
		Set("tool.pkg.name", document.String("demo")).
		Set("tool.pkg.version", document.String("0.1.0")).
		Set("tool.pkg.description", document.String("A demo package")).
		Build()
	require.NoError(t, err)

	bindings := source.NewTable(doc, map[string]document.Value{
		"version":     document.String("tool.pkg.version"),
		"description": document.String("tool.pkg.description"),
		"status":      document.String("'${version ~ semver::status(value).dunder ~}'"),
	}, functions.New(rc))

	rec := status.NewRecorder()
	return &fixture{
		ctx:      logger.WithContext(context.Background()),
		rc:       rc,
		ws:       ws,
		recorder: rec,
		opts: Options{
			Workspace:  ws,
			RunContext: rc,
			Bindings:   bindings,
			Reporter:   rec,
		},
	}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.ws.Root(), rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.ws.Root(), rel))
	require.NoError(t, err)
	return string(data)
}

// snapshot maps every file under root to its content
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
