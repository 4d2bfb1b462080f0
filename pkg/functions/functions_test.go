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

package functions

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/remote"
	"github.com/walteh/projsync/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) LatestVersion(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) License(ctx context.Context, spdxID string) (*remote.License, error) {
	args := m.Called(ctx, spdxID)
	lic, _ := args.Get(0).(*remote.License)
	return lic, args.Error(1)
}

var testNow = time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)

func newTestRegistry(t *testing.T, opts ...Option) (context.Context, *Registry) {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	rc := runctx.New(testNow, runctx.WithLogger(logger))
	return logger.WithContext(context.Background()), New(rc, opts...)
}

func TestPureFunctions(t *testing.T) {
	ctx, reg := newTestRegistry(t)

	tests := []struct {
		name string
		fn   string
		args []document.Value
		want string
	}{
		{name: "now_utc", fn: "time::now_utc", want: "2024-03-01T14:05:09Z"},
		{name: "year", fn: "time::year", args: []document.Value{document.String("2021-07-04")}, want: "2021"},
		{name: "date", fn: "time::date", args: []document.Value{document.String("2021-07-04T10:00:00Z")}, want: "2021-07-04"},
		{name: "format", fn: "time::format", args: []document.Value{document.String("2021-07-04T10:03:00"), document.String("%Y/%m/%d %H:%M %%")}, want: "2021/07/04 10:03 %"},
		{name: "format_names", fn: "time::format", args: []document.Value{document.String("2021-07-04"), document.String("%A %d %B %y")}, want: "Sunday 04 July 21"},
		{name: "semver_max", fn: "semver::max", args: []document.Value{document.Strings("1.2.0", "1.10.0", "junk", "1.9.9")}, want: "1.10.0"},
		{name: "semver_min", fn: "semver::min", args: []document.Value{document.Strings("v2.0.0", "1.0.0-rc.1", "1.0.0")}, want: "1.0.0-rc.1"},
		{name: "major", fn: "semver::major", args: []document.Value{document.String("3.4.5")}, want: "3"},
		{name: "minor", fn: "semver::minor", args: []document.Value{document.String("v3.4.5-beta.2")}, want: "4"},
		{name: "patch", fn: "semver::patch", args: []document.Value{document.String("3.4.5-beta.2")}, want: "5"},
		{name: "patch_short", fn: "semver::patch", args: []document.Value{document.String("3.4")}, want: "0"},
		{name: "upper", fn: "text::upper", args: []document.Value{document.String("abc")}, want: "ABC"},
		{name: "title", fn: "text::title", args: []document.Value{document.String("pre-alpha state")}, want: "Pre-Alpha State"},
		{name: "join", fn: "text::join", args: []document.Value{document.Strings("a", "b"), document.String(", ")}, want: "a, b"},
		{name: "join_mixed", fn: "text::join", args: []document.Value{document.List(document.Int(1), document.String("b")), document.String("-")}, want: "1-b"},
		{name: "yaml", fn: "text::yaml", args: []document.Value{document.Strings("a", "b")}, want: "- a\n- b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Call(ctx, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNowIsCapturedOnce(t *testing.T) {
	ctx, reg := newTestRegistry(t)

	first, err := reg.Call(ctx, "time::now_local")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := reg.Call(ctx, "time::now_local")
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestFunctionErrors(t *testing.T) {
	ctx, reg := newTestRegistry(t)

	tests := []struct {
		name string
		fn   string
		args []document.Value
	}{
		{name: "too_many_args", fn: "time::year", args: []document.Value{document.String("2021-01-01"), document.String("x")}},
		{name: "too_few_args", fn: "time::format", args: []document.Value{document.String("2021-01-01")}},
		{name: "wrong_type", fn: "semver::max", args: []document.Value{document.String("1.0.0")}},
		{name: "unconvertible_element", fn: "text::join", args: []document.Value{document.List(document.Strings("a")), document.String(",")}},
		{name: "bad_date", fn: "time::year", args: []document.Value{document.String("yesterday")}},
		{name: "bad_directive", fn: "time::format", args: []document.Value{document.String("2021-01-01"), document.String("%Q")}},
		{name: "bad_version", fn: "semver::major", args: []document.Value{document.String("one")}},
		{name: "no_versions", fn: "semver::max", args: []document.Value{document.Strings("x", "y")}},
		{name: "no_client", fn: "registry::latest", args: []document.Value{document.String("a/b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Call(ctx, tt.fn, tt.args...)
			var fe *FunctionError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.fn, fe.Name)
		})
	}

	_, err := reg.Call(ctx, "time::tomorrow")
	var uf *UnknownFunctionError
	require.True(t, errors.As(err, &uf))
	assert.Equal(t, "time::tomorrow", uf.Name)
}

func TestRemoteFunctions(t *testing.T) {
	client := &mockProvider{}
	client.On("LatestVersion", mock.Anything, "walteh/projsync").Return("v0.4.0", nil)
	client.On("License", mock.Anything, "MIT").Return(&remote.License{ID: "MIT", Name: "MIT License", URL: "https://x", Text: "..."}, nil)
	client.On("License", mock.Anything, "Nope").Return(nil, remote.ErrNotFound)

	ctx, reg := newTestRegistry(t, WithRegistryClient(client), WithLicenseClient(client))

	v, err := reg.Call(ctx, "registry::latest", document.String("walteh/projsync"))
	require.NoError(t, err)
	assert.Equal(t, "v0.4.0", v.String())

	lic, err := reg.Call(ctx, "spdx::license", document.String("MIT"))
	require.NoError(t, err)
	tbl, ok := lic.AsTable()
	require.True(t, ok)
	name, _ := tbl.Get("name")
	assert.Equal(t, "MIT License", name.String())

	_, err = reg.Call(ctx, "spdx::license", document.String("Nope"))
	var fe *FunctionError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestRegistryNames(t *testing.T) {
	_, reg := newTestRegistry(t)

	names := reg.Names()
	assert.Contains(t, names, "time::now_utc")
	assert.Contains(t, names, "spdx::license")
	for _, name := range names {
		assert.True(t, reg.Has(name), name)
	}
	assert.True(t, reg.Has(LatestFunction))
	assert.True(t, reg.Has("semver::status"))
	assert.False(t, reg.Has("status"))
	assert.Contains(t, reg.Describe(), "time::format(datetime string, format string)")
}

func TestGuessDevStatus(t *testing.T) {
	tests := []struct {
		version string
		want    DevStatus
		pypi    string
		dunder  string
	}{
		{version: "0.0.0", want: StatusPlanning, pypi: "1 - Planning", dunder: "Development"},
		{version: "0.0.3", want: StatusPreAlpha, pypi: "2 - Pre-Alpha", dunder: "Development"},
		{version: "0.4.1", want: StatusAlpha, pypi: "3 - Alpha", dunder: "Development"},
		{version: "1.0.0-beta.1", want: StatusBeta, pypi: "4 - Beta", dunder: "Development"},
		{version: "1.0.0-alpha", want: StatusAlpha, pypi: "3 - Alpha", dunder: "Development"},
		{version: "v1.3.0", want: StatusProduction, pypi: "5 - Production", dunder: "Production"},
		{version: "4.0.0", want: StatusMature, pypi: "6 - Mature", dunder: "Production"},
		{version: "garbage", want: StatusPlanning, pypi: "1 - Planning", dunder: "Development"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got := GuessDevStatus(tt.version)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.pypi, got.PyPI())
			assert.Equal(t, tt.dunder, got.Dunder())
		})
	}

	assert.Equal(t, "an alpha state", StatusAlpha.Description())
	assert.Equal(t, "a beta state", StatusBeta.Description())
}
