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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Placeholder
	}{
		{
			name:  "none",
			input: "plain text with $ and } and {",
		},
		{
			name:  "path",
			input: "v${project.version}!",
			want:  []Placeholder{{Start: 1, End: 19, Path: "project.version"}},
		},
		{
			name:  "whitespace",
			input: "${  a.b  }",
			want:  []Placeholder{{Start: 0, End: 10, Path: "a.b"}},
		},
		{
			name:  "literal",
			input: "${'hi there'}",
			want:  []Placeholder{{Start: 0, End: 13, Path: "hi there", Literal: true}},
		},
		{
			name:  "filter",
			input: "${a ~ upper(value) ~}",
			want:  []Placeholder{{Start: 0, End: 21, Path: "a", Filter: "upper(value)", HasFilter: true}},
		},
		{
			name:  "filter_with_braces",
			input: "${a ~ {x = 1}.x ~}",
			want:  []Placeholder{{Start: 0, End: 18, Path: "a", Filter: "{x = 1}.x", HasFilter: true}},
		},
		{
			name:  "filter_only",
			input: "${~ time::now_utc() ~}",
			want:  []Placeholder{{Start: 0, End: 22, Filter: "time::now_utc()", HasFilter: true}},
		},
		{
			name:  "two",
			input: "${a}-${b}",
			want: []Placeholder{
				{Start: 0, End: 4, Path: "a"},
				{Start: 5, End: 9, Path: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanMalformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		position int
	}{
		{name: "unclosed", input: "abc ${project.name", position: 4},
		{name: "bad_char", input: "${a b}", position: 4},
		{name: "empty", input: "x${}", position: 1},
		{name: "unterminated_literal", input: "${'abc}", position: 2},
		{name: "unterminated_filter", input: "${a ~ upper(value) }", position: 4},
		{name: "empty_filter", input: "${a ~ ~}", position: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(tt.input)
			var mp *MalformedPlaceholderError
			require.True(t, errors.As(err, &mp), "got %v", err)
			assert.Equal(t, tt.position, mp.Position)
		})
	}
}
