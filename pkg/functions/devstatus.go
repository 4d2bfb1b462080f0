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
	"strings"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/mod/semver"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 🚦 DevStatus is a package development stage, numbered like PyPI classifiers
type DevStatus int

const (
	StatusPlanning DevStatus = iota + 1
	StatusPreAlpha
	StatusAlpha
	StatusBeta
	StatusProduction
	StatusMature
	StatusInactive
)

var devStatusNames = map[DevStatus]string{
	StatusPlanning:   "planning",
	StatusPreAlpha:   "pre-alpha",
	StatusAlpha:      "alpha",
	StatusBeta:       "beta",
	StatusProduction: "production",
	StatusMature:     "mature",
	StatusInactive:   "inactive",
}

var devStatusType = cty.Object(map[string]cty.Type{
	"name":        cty.String,
	"pypi":        cty.String,
	"dunder":      cty.String,
	"description": cty.String,
})

func (s DevStatus) String() string {
	return devStatusNames[s]
}

// PyPI returns the trove classifier fragment, e.g. "4 - Beta"
func (s DevStatus) PyPI() string {
	return fmt.Sprintf("%d - %s", int(s), cases.Title(language.English).String(s.String()))
}

// Dunder is the value used for a module-level __status__
func (s DevStatus) Dunder() string {
	if s >= StatusProduction {
		return "Production"
	}
	return "Development"
}

// Description reads like "an alpha state"
func (s DevStatus) Description() string {
	name := s.String()
	article := "a"
	if strings.ContainsAny(name[:1], "aeiou") {
		article = "an"
	}
	return article + " " + name + " state"
}

func (s DevStatus) ctyValue() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"name":        cty.StringVal(s.String()),
		"pypi":        cty.StringVal(s.PyPI()),
		"dunder":      cty.StringVal(s.Dunder()),
		"description": cty.StringVal(s.Description()),
	})
}

// GuessDevStatus makes a rough guess from a version string
func GuessDevStatus(version string) DevStatus {
	c := canonical(version)
	if c == "" {
		return StatusPlanning
	}
	pre := strings.TrimPrefix(semver.Prerelease(c), "-")
	switch {
	case strings.HasPrefix(c, "v0.0.0"):
		return StatusPlanning
	case semver.MajorMinor(c) == "v0.0":
		return StatusPreAlpha
	case strings.HasPrefix(pre, "a"):
		return StatusAlpha
	case strings.HasPrefix(pre, "b"), strings.HasPrefix(pre, "rc"):
		return StatusBeta
	case semver.Major(c) == "v0":
		return StatusAlpha
	case semver.Major(c) == "v1":
		return StatusProduction
	default:
		return StatusMature
	}
}
