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
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind identifies the variant stored in a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDate
	KindDateTime
	KindList
	KindTable
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

const (
	// DateLayout is used to stringify Date values
	DateLayout = "2006-01-02"
	// DateTimeLayout is used to stringify DateTime values
	DateTimeLayout = time.RFC3339
)

// 📦 Value is a tagged variant holding one document value.
// The zero Value is Null.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	t     time.Time
	list  []Value
	table *Table
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// List copies its elements, so later changes to the slice are not observed
func List(vs ...Value) Value {
	out := make([]Value, len(vs))
	copy(out, vs)
	return Value{kind: KindList, list: out}
}

// TableValue wraps a Table. A nil table becomes an empty one.
func TableValue(t *Table) Value {
	if t == nil {
		t = emptyTable()
	}
	return Value{kind: KindTable, table: t}
}

// Strings builds a List of String values
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{kind: KindList, list: vs}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindDate || v.kind == KindDateTime }
func (v Value) AsTable() (*Table, bool) { return v.table, v.kind == KindTable }

// AsFloat accepts integers as well
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsList returns a copy of the elements
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out, true
}

// Len reports the number of list elements or table entries
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindTable:
		return v.table.Len()
	default:
		return 0
	}
}

// Equal compares two values structurally
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindDate, KindDateTime:
		return v.t.Equal(o.t)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindTable:
		return v.table.Equal(o.table)
	default:
		return false
	}
}

// String renders the value the way placeholders are substituted
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format(DateLayout)
	case KindDateTime:
		return v.t.Format(DateTimeLayout)
	case KindList, KindTable:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// Interface converts the value to plain Go types (nil, bool, int64, float64,
// string, time.Time, []any, map[string]any). Dates become YYYY-MM-DD strings.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format(DateLayout)
	case KindDateTime:
		return v.t
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindTable:
		out := make(map[string]any, v.table.Len())
		for _, k := range v.table.Keys() {
			e, _ := v.table.Get(k)
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// 🗂️ Table is an immutable mapping from keys to values.
// Keys are non-empty and never contain the path separator.
type Table struct {
	keys    []string
	entries map[string]Value
}

// NewTable validates every key and returns the table
func NewTable(entries map[string]Value) (*Table, error) {
	t := &Table{entries: make(map[string]Value, len(entries))}
	for k, v := range entries {
		if err := ValidateKey(k); err != nil {
			return nil, err
		}
		t.entries[k] = v
		t.keys = append(t.keys, k)
	}
	sort.Strings(t.keys)
	return t, nil
}

// MustTable is NewTable for static input, panicking on an invalid key
func MustTable(entries map[string]Value) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

func emptyTable() *Table {
	return &Table{entries: map[string]Value{}}
}

// ValidateKey reports whether k can be used as a table key
func ValidateKey(k string) error {
	if k == "" {
		return errors.WithStack(&InvalidKeyError{Key: k, Reason: "empty key"})
	}
	if strings.Contains(k, Separator) {
		return errors.WithStack(&InvalidKeyError{Key: k, Reason: "key contains " + strconv.Quote(Separator)})
	}
	return nil
}

// Keys returns the keys in sorted order
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Table) Get(k string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.entries[k]
	return v, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Equal compares two tables structurally
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	for _, k := range t.Keys() {
		a, _ := t.Get(k)
		b, ok := o.Get(k)
		if !ok || !a.Equal(b) {
			return false
		}
	}
	return true
}

// with returns a copy of t with k set to v
func (t *Table) with(k string, v Value) *Table {
	out := &Table{entries: make(map[string]Value, t.Len()+1)}
	for _, key := range t.Keys() {
		out.entries[key] = t.entries[key]
	}
	if _, exists := out.entries[k]; !exists {
		out.keys = append(t.Keys(), k)
		sort.Strings(out.keys)
	} else {
		out.keys = t.Keys()
	}
	out.entries[k] = v
	return out
}
