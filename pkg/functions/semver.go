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

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/semver"
)

// canonical maps "1.2" or "v1.2.3-rc.1" to the semver canonical form.
// Versions that do not parse return "".
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// 🔢 VersionPart returns the major (0), minor (1) or patch (2) number
func VersionPart(v string, idx int) (string, error) {
	c := canonical(v)
	if c == "" {
		return "", errors.Errorf("not a semantic version: %q", v)
	}
	core := strings.TrimPrefix(c, "v")
	if pre := semver.Prerelease(c); pre != "" {
		core = strings.TrimSuffix(core, pre)
	}
	parts := strings.SplitN(core, ".", 3)
	return parts[idx], nil
}

// Extreme returns the highest (sign 1) or lowest (sign -1) valid version.
// Invalid entries are skipped.
func Extreme(versions []string, sign int) (string, error) {
	best := ""
	for _, v := range versions {
		if canonical(v) == "" {
			continue
		}
		if best == "" || semver.Compare(canonical(v), canonical(best))*sign > 0 {
			best = v
		}
	}
	if best == "" {
		return "", errors.Errorf("no valid semantic version among %d candidates", len(versions))
	}
	return best, nil
}

func semverFunctions() map[string]function.Function {
	extreme := func(sign int) function.Function {
		return function.New(&function.Spec{
			Params: []function.Parameter{{Name: "versions", Type: cty.List(cty.String)}},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
				var versions []string
				for it := args[0].ElementIterator(); it.Next(); {
					_, v := it.Element()
					versions = append(versions, v.AsString())
				}
				out, err := Extreme(versions, sign)
				if err != nil {
					return cty.UnknownVal(cty.String), err
				}
				return cty.StringVal(out), nil
			},
		})
	}

	part := func(idx int) function.Function {
		return function.New(&function.Spec{
			Params: []function.Parameter{stringParam("version")},
			Type:   function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
				out, err := VersionPart(args[0].AsString(), idx)
				if err != nil {
					return cty.UnknownVal(cty.String), err
				}
				return cty.StringVal(out), nil
			},
		})
	}

	status := function.New(&function.Spec{
		Params: []function.Parameter{stringParam("version")},
		Type:   function.StaticReturnType(devStatusType),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return GuessDevStatus(args[0].AsString()).ctyValue(), nil
		},
	})

	return map[string]function.Function{
		"max":    extreme(1),
		"min":    extreme(-1),
		"major":  part(0),
		"minor":  part(1),
		"patch":  part(2),
		"status": status,
	}
}
