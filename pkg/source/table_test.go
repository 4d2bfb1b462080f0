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

package source

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/functions"
	"github.com/walteh/projsync/pkg/remote"
	"github.com/walteh/projsync/pkg/runctx"
	"github.com/walteh/projsync/pkg/template"
	"gitlab.com/tozd/go/errors"
)

type countingRegistry struct {
	mock.Mock
}

func (m *countingRegistry) LatestVersion(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

var _ remote.RegistryClient = (*countingRegistry)(nil)

func newTestTable(t *testing.T, exprs map[string]document.Value, opts ...functions.Option) (context.Context, *Table) {
	t.Helper()
	doc, err := document.NewBuilder().
		Set("project.name", document.String("demo")).
		Set("project.version", document.String("0.3.1")).
		Set("project.authors", document.Strings("Ada", "Grace")).
		Set("project.year", document.Int(2021)).
		Set("project.home", document.String("https://example.com/${project.name}")).
		Build()
	require.NoError(t, err)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	rc := runctx.New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), runctx.WithLogger(logger))
	table := NewTable(doc, exprs, functions.New(rc, opts...)).WithLogger(&logger)
	return logger.WithContext(context.Background()), table
}

func TestTableGet(t *testing.T) {
	ctx, table := newTestTable(t, map[string]document.Value{
		"name":      document.String("project.name"),
		"year":      document.String("project.year"),
		"home":      document.String("project.home"),
		"status":    document.String("'${project.version ~ semver::status(value).dunder ~}'"),
		"copyright": document.String("'Copyright ${~ time::year(time::now_utc()) ~} ${project.authors ~ text::join(value, \", \") ~}'"),
		"authors":   document.String("project.authors"),
		"both":      document.List(document.String("project.name"), document.String("'v${project.version}'")),
		"flag":      document.Bool(true),
		"chained":   document.String("'${status} / ${name}'"),
	})

	tests := []struct {
		name string
		want string
	}{
		{name: "name", want: "demo"},
		{name: "year", want: "2021"},
		{name: "home", want: "https://example.com/demo"},
		{name: "status", want: "Development"},
		{name: "authors", want: `["Ada","Grace"]`},
		{name: "both", want: `["demo","v0.3.1"]`},
		{name: "flag", want: "true"},
		{name: "copyright", want: "Copyright 2024 Ada, Grace"},
		{name: "chained", want: "Development / demo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.GetString(ctx, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableBareListStaysList(t *testing.T) {
	ctx, table := newTestTable(t, map[string]document.Value{
		"both": document.List(document.String("project.name"), document.String("project.version")),
	})

	v, err := table.Get(ctx, "both")
	require.NoError(t, err)
	assert.Equal(t, document.KindList, v.Kind())
	assert.True(t, document.Strings("demo", "0.3.1").Equal(v))
}

func TestTableUnknownSource(t *testing.T) {
	ctx, table := newTestTable(t, map[string]document.Value{
		"name": document.String("project.name"),
	})

	_, err := table.Get(ctx, "license")
	var us *UnknownSourceError
	require.True(t, errors.As(err, &us))
	assert.Equal(t, "license", us.Name)
}

func TestTableCycle(t *testing.T) {
	ctx, table := newTestTable(t, map[string]document.Value{
		"a":    document.String("'${b}'"),
		"b":    document.String("'${a}'"),
		"self": document.String("'x${self}'"),
	})

	for _, name := range []string{"a", "self"} {
		_, err := table.Get(ctx, name)
		var sc *template.SubstitutionCycleError
		assert.True(t, errors.As(err, &sc), "%s: %v", name, err)
	}
}

func TestTablePathNotFound(t *testing.T) {
	ctx, table := newTestTable(t, map[string]document.Value{
		"missing": document.String("project.license"),
	})

	_, err := table.Get(ctx, "missing")
	assert.True(t, document.IsPathNotFound(err))
}

func TestTableMemoizes(t *testing.T) {
	client := &countingRegistry{}
	client.On("LatestVersion", mock.Anything, "walteh/projsync").Return("v1.0.0", nil).Once()

	ctx, table := newTestTable(t, map[string]document.Value{
		"latest": document.String("'${~ registry::latest(\"walteh/projsync\") ~}'"),
		"line":   document.String("'latest is ${latest}'"),
	}, functions.WithRegistryClient(client))

	for i := 0; i < 3; i++ {
		got, err := table.GetString(ctx, "latest")
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", got)
	}
	got, err := table.GetString(ctx, "line")
	require.NoError(t, err)
	assert.Equal(t, "latest is v1.0.0", got)

	client.AssertExpectations(t)
}

func TestResolveAll(t *testing.T) {
	ctx, table := newTestTable(t, map[string]document.Value{
		"name":    document.String("project.name"),
		"version": document.String("project.version"),
	})

	all, err := table.ResolveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "version"}, table.Names())
	assert.Equal(t, "demo", all["name"].String())
	assert.Equal(t, "0.3.1", all["version"].String())
}
