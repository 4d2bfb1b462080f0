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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/walteh/projsync/pkg/runctx"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISO accepts the ISO-8601 shapes found in project documents
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("not an ISO-8601 date or datetime: %q", s)
}

func timeFunctions(rc *runctx.RunContext) map[string]function.Function {
	now := func(t time.Time) function.Function {
		return function.New(&function.Spec{
			Params: []function.Parameter{},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
				return cty.StringVal(t.Format(time.RFC3339)), nil
			},
		})
	}

	onTime := func(f func(t time.Time) (string, error), extra ...function.Parameter) function.Function {
		return function.New(&function.Spec{
			Params: append([]function.Parameter{stringParam("datetime")}, extra...),
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
				t, err := ParseISO(args[0].AsString())
				if err != nil {
					return cty.UnknownVal(cty.String), err
				}
				out, err := f(t)
				if err != nil {
					return cty.UnknownVal(cty.String), err
				}
				return cty.StringVal(out), nil
			},
		})
	}

	format := function.New(&function.Spec{
		Params: []function.Parameter{stringParam("datetime"), stringParam("format")},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			t, err := ParseISO(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			out, err := Strftime(t, args[1].AsString())
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			return cty.StringVal(out), nil
		},
	})

	return map[string]function.Function{
		"now_utc":   now(rc.NowUTC()),
		"now_local": now(rc.Now()),
		"format":    format,
		"year": onTime(func(t time.Time) (string, error) {
			return strconv.Itoa(t.Year()), nil
		}),
		"date": onTime(func(t time.Time) (string, error) {
			return t.Format("2006-01-02"), nil
		}),
	}
}

// 📅 Strftime formats t with C-style directives (%Y, %m, %d, %H, %M, %S,
// %y, %b, %B, %a, %A, %j, %I, %p, %f, %z, %Z, %%)
func Strftime(t time.Time, format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", errors.Errorf("dangling %% at end of format %q", format)
		}
		switch format[i] {
		case 'Y':
			b.WriteString(strconv.Itoa(t.Year()))
		case 'y':
			b.WriteString(t.Format("06"))
		case 'm':
			b.WriteString(t.Format("01"))
		case 'd':
			b.WriteString(t.Format("02"))
		case 'H':
			b.WriteString(t.Format("15"))
		case 'I':
			b.WriteString(t.Format("03"))
		case 'M':
			b.WriteString(t.Format("04"))
		case 'S':
			b.WriteString(t.Format("05"))
		case 'p':
			b.WriteString(t.Format("PM"))
		case 'b':
			b.WriteString(t.Format("Jan"))
		case 'B':
			b.WriteString(t.Format("January"))
		case 'a':
			b.WriteString(t.Format("Mon"))
		case 'A':
			b.WriteString(t.Format("Monday"))
		case 'j':
			b.WriteString(t.Format("002"))
		case 'f':
			b.WriteString(fmt.Sprintf("%06d", t.Nanosecond()/1000))
		case 'z':
			b.WriteString(t.Format("-0700"))
		case 'Z':
			b.WriteString(t.Format("MST"))
		case '%':
			b.WriteByte('%')
		default:
			return "", errors.Errorf("unsupported directive %%%c in format %q", format[i], format)
		}
	}
	return b.String(), nil
}
