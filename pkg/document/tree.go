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
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 🌳 Tree is a read-only document rooted at a table
type Tree struct {
	table *Table
}

// 🏭 NewTree wraps a root table. A nil table yields an empty tree.
func NewTree(root *Table) *Tree {
	if root == nil {
		root = emptyTable()
	}
	return &Tree{table: root}
}

func (t *Tree) root() *Table {
	if t == nil || t.table == nil {
		return emptyTable()
	}
	return t.table
}

// Root returns the root table
func (t *Tree) Root() *Table {
	return t.root()
}

// Value returns the whole tree as a table value
func (t *Tree) Value() Value {
	return TableValue(t.root())
}

// Get returns the value at path or a PathNotFoundError
func (t *Tree) Get(path string) (Value, error) {
	return Resolve(t, path)
}

// TryGet is the non-failing variant of Get
func (t *Tree) TryGet(path string) (Value, bool) {
	v, err := Resolve(t, path)
	if err != nil {
		return Value{}, false
	}
	return v, true
}

// Contains reports whether path resolves
func (t *Tree) Contains(path string) bool {
	_, ok := t.TryGet(path)
	return ok
}

func (t *Tree) typed(path string, want Kind) (Value, error) {
	v, err := Resolve(t, path)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != want {
		return Value{}, errors.WithStack(&TypeMismatchError{Path: path, Expected: want, Actual: v.Kind()})
	}
	return v, nil
}

func (t *Tree) GetString(path string) (string, error) {
	v, err := t.typed(path, KindString)
	if err != nil {
		return "", err
	}
	s, _ := v.AsString()
	return s, nil
}

func (t *Tree) GetBool(path string) (bool, error) {
	v, err := t.typed(path, KindBool)
	if err != nil {
		return false, err
	}
	b, _ := v.AsBool()
	return b, nil
}

func (t *Tree) GetInt(path string) (int64, error) {
	v, err := t.typed(path, KindInt)
	if err != nil {
		return 0, err
	}
	i, _ := v.AsInt()
	return i, nil
}

// GetFloat accepts integer values too
func (t *Tree) GetFloat(path string) (float64, error) {
	v, err := Resolve(t, path)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, errors.WithStack(&TypeMismatchError{Path: path, Expected: KindFloat, Actual: v.Kind()})
	}
	return f, nil
}

func (t *Tree) GetList(path string) ([]Value, error) {
	v, err := t.typed(path, KindList)
	if err != nil {
		return nil, err
	}
	l, _ := v.AsList()
	return l, nil
}

// GetStringList requires every element to be a string
func (t *Tree) GetStringList(path string) ([]string, error) {
	l, err := t.GetList(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(l))
	for _, e := range l {
		s, ok := e.AsString()
		if !ok {
			return nil, errors.WithStack(&TypeMismatchError{Path: path, Expected: KindString, Actual: e.Kind()})
		}
		out = append(out, s)
	}
	return out, nil
}

func (t *Tree) GetTable(path string) (*Table, error) {
	v, err := t.typed(path, KindTable)
	if err != nil {
		return nil, err
	}
	tbl, _ := v.AsTable()
	return tbl, nil
}

// Sub returns the subtree rooted at path
func (t *Tree) Sub(path string) (*Tree, error) {
	tbl, err := t.GetTable(path)
	if err != nil {
		return nil, err
	}
	return NewTree(tbl), nil
}

// 🍃 Leaves flattens the tree into dotted paths for every non-table value
func (t *Tree) Leaves() map[string]Value {
	out := map[string]Value{}
	walk(t.root(), "", func(path string, v Value) {
		if v.Kind() != KindTable {
			out[path] = v
		}
	})
	return out
}

// 🌿 Branches lists the dotted path of every nested table, sorted
func (t *Tree) Branches() []string {
	var out []string
	walk(t.root(), "", func(path string, v Value) {
		if v.Kind() == KindTable {
			out = append(out, path)
		}
	})
	sort.Strings(out)
	return out
}

func walk(tbl *Table, prefix string, fn func(path string, v Value)) {
	for _, k := range tbl.Keys() {
		v, _ := tbl.Get(k)
		path := k
		if prefix != "" {
			path = prefix + Separator + k
		}
		fn(path, v)
		if sub, ok := v.AsTable(); ok {
			walk(sub, path, fn)
		}
	}
}
