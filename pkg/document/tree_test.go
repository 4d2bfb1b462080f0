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

package document

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func sampleTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewBuilder().
		Set("project.name", String("demo")).
		Set("project.version", String("1.2.3")).
		Set("project.keywords", Strings("a", "b")).
		Set("tool.black.line-length", Int(88)).
		Set("tool.projsync.options.align", Bool(true)).
		Set("tool.projsync.ratio", Float(0.5)).
		Set("release.date", Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))).
		Build()
	require.NoError(t, err)
	return tree
}

func TestResolve(t *testing.T) {
	tree := sampleTree(t)

	tests := []struct {
		name        string
		path        string
		want        Value
		wantSegment string
	}{
		{name: "leaf", path: "project.name", want: String("demo")},
		{name: "nested_int", path: "tool.black.line-length", want: Int(88)},
		{name: "missing_leaf", path: "project.license", wantSegment: "license"},
		{name: "missing_branch", path: "nope.name", wantSegment: "nope"},
		{name: "through_leaf", path: "project.name.first", wantSegment: "first"},
		{name: "empty_path", path: "", wantSegment: ""},
		{name: "empty_segment", path: "project..name", wantSegment: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tree, tt.path)
			if tt.want.Kind() == KindNull {
				require.Error(t, err)
				var pnf *PathNotFoundError
				require.True(t, errors.As(err, &pnf))
				assert.Equal(t, tt.path, pnf.Path)
				assert.Equal(t, tt.wantSegment, pnf.Segment)
				assert.True(t, IsPathNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestResolveTable(t *testing.T) {
	tree := sampleTree(t)

	v, err := tree.Get("tool.projsync.options")
	require.NoError(t, err)
	tbl, ok := v.AsTable()
	require.True(t, ok)
	assert.Equal(t, []string{"align"}, tbl.Keys())
}

func TestTypedExtraction(t *testing.T) {
	tree := sampleTree(t)

	s, err := tree.GetString("project.name")
	require.NoError(t, err)
	assert.Equal(t, "demo", s)

	i, err := tree.GetInt("tool.black.line-length")
	require.NoError(t, err)
	assert.Equal(t, int64(88), i)

	f, err := tree.GetFloat("tool.black.line-length")
	require.NoError(t, err)
	assert.Equal(t, 88.0, f)

	b, err := tree.GetBool("tool.projsync.options.align")
	require.NoError(t, err)
	assert.True(t, b)

	l, err := tree.GetStringList("project.keywords")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l)

	_, err = tree.GetInt("project.name")
	var tm *TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, KindInt, tm.Expected)
	assert.Equal(t, KindString, tm.Actual)
	assert.Equal(t, "project.name", tm.Path)

	_, err = tree.GetString("project.missing")
	assert.True(t, IsPathNotFound(err))
}

func TestTryGetAndContains(t *testing.T) {
	tree := sampleTree(t)

	v, ok := tree.TryGet("project.version")
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", v.String())

	_, ok = tree.TryGet("project.version.major")
	assert.False(t, ok)

	assert.True(t, tree.Contains("tool.black"))
	assert.False(t, tree.Contains("tool.ruff"))
}

func TestLeavesAndBranches(t *testing.T) {
	tree := sampleTree(t)

	leaves := tree.Leaves()
	assert.Len(t, leaves, 7)
	assert.Equal(t, "88", leaves["tool.black.line-length"].String())

	assert.Equal(t, []string{
		"project",
		"release",
		"tool",
		"tool.black",
		"tool.projsync",
		"tool.projsync.options",
	}, tree.Branches())
}

func TestSub(t *testing.T) {
	tree := sampleTree(t)

	sub, err := tree.Sub("tool.projsync")
	require.NoError(t, err)
	assert.True(t, sub.Contains("options.align"))

	_, err = tree.Sub("project.name")
	var tm *TypeMismatchError
	assert.True(t, errors.As(err, &tm))
}

func TestInvalidKeys(t *testing.T) {
	_, err := NewTable(map[string]Value{"a.b": Int(1)})
	var ik *InvalidKeyError
	require.True(t, errors.As(err, &ik))
	assert.Equal(t, "a.b", ik.Key)

	_, err = NewTable(map[string]Value{"": Int(1)})
	require.True(t, errors.As(err, &ik))

	_, err = NewBuilder().Set("a..b", Int(1)).Build()
	require.True(t, errors.As(err, &ik))

	_, err = FromMap(map[string]any{"outer": map[string]any{"in.ner": 1}})
	require.True(t, errors.As(err, &ik))
}

func TestBuilderOverwritesLeaf(t *testing.T) {
	tree, err := NewBuilder().
		Set("a", String("leaf")).
		Set("a.b", Int(2)).
		Build()
	require.NoError(t, err)

	v, err := tree.Get("a.b")
	require.NoError(t, err)
	assert.True(t, Int(2).Equal(v))
}

func TestValueString(t *testing.T) {
	dt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tbl := MustTable(map[string]Value{"b": Int(1), "a": Strings("x")})

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "null", value: Null(), want: ""},
		{name: "bool", value: Bool(false), want: "false"},
		{name: "int", value: Int(-4), want: "-4"},
		{name: "float", value: Float(1.5), want: "1.5"},
		{name: "string", value: String("x y"), want: "x y"},
		{name: "date", value: Date(dt), want: "2024-03-01"},
		{name: "datetime", value: DateTime(dt), want: "2024-03-01T12:30:00Z"},
		{name: "list", value: List(Int(1), String("a")), want: `[1,"a"]`},
		{name: "table", value: TableValue(tbl), want: `{"a":["x"],"b":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestCtyConversion(t *testing.T) {
	tbl := MustTable(map[string]Value{
		"name":  String("demo"),
		"count": Int(3),
		"ratio": Float(0.25),
		"ok":    Bool(true),
		"tags":  Strings("a", "b"),
	})
	in := TableValue(tbl)

	out, err := FromCty(ToCty(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out), "got %s", out)

	empty, err := FromCty(ToCty(List()))
	require.NoError(t, err)
	assert.Equal(t, KindList, empty.Kind())
	assert.Equal(t, 0, empty.Len())
}

func TestFromGoIntegers(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{name: "uint8", in: uint8(200), want: 200},
		{name: "uint32", in: uint32(4000000000), want: 4000000000},
		{name: "uint64_max_int", in: uint64(math.MaxInt64), want: math.MaxInt64},
		{name: "uint64_overflow", in: uint64(math.MaxInt64) + 1, wantErr: true},
		{name: "uint_overflow", in: ^uint(0), wantErr: true},
		{name: "negative_int", in: -7, want: -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromGo(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "overflows int64")
				return
			}
			require.NoError(t, err)
			got, ok := v.AsInt()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
