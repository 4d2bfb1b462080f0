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
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func fromUnsigned(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, errors.Errorf("integer %d overflows int64", x)
	}
	return Int(int64(x)), nil
}

// 🔄 FromGo converts decoded TOML, YAML or JSON data into a Value
func FromGo(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUnsigned(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUnsigned(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, errors.Errorf("parsing number %q: %w", x.String(), err)
		}
		return Float(f), nil
	case time.Time:
		return DateTime(x), nil
	case toml.LocalDate:
		return Date(x.AsTime(time.UTC)), nil
	case toml.LocalDateTime:
		return DateTime(x.AsTime(time.Local)), nil
	case toml.LocalTime:
		return String(x.String()), nil
	case []any:
		out := make([]Value, 0, len(x))
		for i, e := range x {
			v, err := FromGo(e)
			if err != nil {
				return Value{}, errors.Errorf("index %d: %w", i, err)
			}
			out = append(out, v)
		}
		return List(out...), nil
	case []string:
		return Strings(x...), nil
	case map[string]any:
		entries := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := FromGo(e)
			if err != nil {
				return Value{}, errors.Errorf("key %q: %w", k, err)
			}
			entries[k] = v
		}
		t, err := NewTable(entries)
		if err != nil {
			return Value{}, err
		}
		return TableValue(t), nil
	case map[any]any:
		conv := make(map[string]any, len(x))
		for k, e := range x {
			conv[fmt.Sprint(k)] = e
		}
		return FromGo(conv)
	default:
		return Value{}, errors.Errorf("unsupported type %s", reflect.TypeOf(in))
	}
}

// FromMap builds a tree from a decoded document
func FromMap(m map[string]any) (*Tree, error) {
	v, err := FromGo(m)
	if err != nil {
		return nil, err
	}
	tbl, _ := v.AsTable()
	return NewTree(tbl), nil
}

// 🔄 ToCty converts a value for use in HCL expressions. Lists become tuples
// and tables become objects so heterogeneous elements survive.
func ToCty(v Value) cty.Value {
	switch v.Kind() {
	case KindBool:
		return cty.BoolVal(v.b)
	case KindInt:
		return cty.NumberIntVal(v.i)
	case KindFloat:
		return cty.NumberFloatVal(v.f)
	case KindString, KindDate, KindDateTime:
		return cty.StringVal(v.String())
	case KindList:
		if len(v.list) == 0 {
			return cty.EmptyTupleVal
		}
		vals := make([]cty.Value, len(v.list))
		for i, e := range v.list {
			vals[i] = ToCty(e)
		}
		return cty.TupleVal(vals)
	case KindTable:
		if v.table.Len() == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, v.table.Len())
		for _, k := range v.table.Keys() {
			e, _ := v.table.Get(k)
			attrs[k] = ToCty(e)
		}
		return cty.ObjectVal(attrs)
	default:
		return cty.NullVal(cty.DynamicPseudoType)
	}
}

// 🔄 FromCty converts an evaluated HCL value back into a Value
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Null(), nil
	}
	if !v.IsWhollyKnown() {
		return Value{}, errors.Errorf("value is not known")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return String(v.AsString()), nil
	case ty == cty.Bool:
		return Bool(v.True()), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return Int(i), nil
			}
		}
		f, _ := bf.Float64()
		return Float(f), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]Value, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, e := it.Element()
			conv, err := FromCty(e)
			if err != nil {
				return Value{}, err
			}
			out = append(out, conv)
		}
		return List(out...), nil
	case ty.IsObjectType() || ty.IsMapType():
		entries := map[string]Value{}
		it := v.ElementIterator()
		for it.Next() {
			k, e := it.Element()
			conv, err := FromCty(e)
			if err != nil {
				return Value{}, errors.Errorf("in attribute %q: %w", k.AsString(), err)
			}
			entries[k.AsString()] = conv
		}
		t, err := NewTable(entries)
		if err != nil {
			return Value{}, err
		}
		return TableValue(t), nil
	default:
		return Value{}, errors.Errorf("unsupported cty type %s", ty.FriendlyName())
	}
}

// SortedKeys returns the keys of m in sorted order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
