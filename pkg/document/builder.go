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

import "gitlab.com/tozd/go/errors"

// 🔨 Builder assembles a Tree by dotted path
type Builder struct {
	root *Table
	err  error
}

func NewBuilder() *Builder {
	return &Builder{root: emptyTable()}
}

// Set stores v at path, creating intermediate tables. Setting through a
// non-table value replaces it. The first error sticks and is returned by Build.
func (b *Builder) Set(path string, v Value) *Builder {
	if b.err != nil {
		return b
	}
	segs := SplitPath(path)
	for _, seg := range segs {
		if err := ValidateKey(seg); err != nil {
			b.err = errors.Errorf("setting %q: %w", path, err)
			return b
		}
	}
	b.root = setIn(b.root, segs, v)
	return b
}

func setIn(tbl *Table, segs []string, v Value) *Table {
	if len(segs) == 1 {
		return tbl.with(segs[0], v)
	}
	child := emptyTable()
	if existing, ok := tbl.Get(segs[0]); ok {
		if sub, ok := existing.AsTable(); ok {
			child = sub
		}
	}
	return tbl.with(segs[0], TableValue(setIn(child, segs[1:], v)))
}

func (b *Builder) Build() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewTree(b.root), nil
}
