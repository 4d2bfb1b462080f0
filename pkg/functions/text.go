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
	"strings"

	"github.com/walteh/projsync/pkg/document"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

func textFunctions() map[string]function.Function {
	mapString := func(f func(string) string) function.Function {
		return function.New(&function.Spec{
			Params: []function.Parameter{stringParam("text")},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
				return cty.StringVal(f(args[0].AsString())), nil
			},
		})
	}

	toYAML := function.New(&function.Spec{
		Params: []function.Parameter{{
			Name:      "value",
			Type:      cty.DynamicPseudoType,
			AllowNull: true,
		}},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			v, err := document.FromCty(args[0])
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			out, err := yaml.Marshal(v.Interface())
			if err != nil {
				return cty.UnknownVal(cty.String), errors.Errorf("encoding yaml: %w", err)
			}
			return cty.StringVal(strings.TrimSuffix(string(out), "\n")), nil
		},
	})

	join := function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "items", Type: cty.List(cty.String)},
			stringParam("separator"),
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			var items []string
			for it := args[0].ElementIterator(); it.Next(); {
				_, v := it.Element()
				items = append(items, v.AsString())
			}
			return cty.StringVal(strings.Join(items, args[1].AsString())), nil
		},
	})

	title := cases.Title(language.English)

	return map[string]function.Function{
		"yaml":  toYAML,
		"join":  join,
		"upper": mapString(strings.ToUpper),
		"lower": mapString(strings.ToLower),
		"title": mapString(title.String),
	}
}
