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

package target

import (
	"github.com/walteh/projsync/pkg/text"
)

const (
	ociVersion     = "org.opencontainers.image.version"
	ociDescription = "org.opencontainers.image.description"
)

// DefaultSources are bound when the project does not declare them
var DefaultSources = map[string]string{
	"version":     "project.version",
	"description": "project.description",
	"status":      "'${version ~ semver::status(value).dunder ~}'",
	"date":        "'${~ time::date(time::now_utc()) ~}'",
	"copyright":   "'Copyright ${~ time::year(time::now_utc()) ~}'",
	"header_path": "'${project.name}/__init__.py'",
	"environment": "'environment.yml'",
	"recipe":      "'recipes/${project.name}/meta.yaml'",
}

// Builtins returns the built-in catalog in sync order
func Builtins() []Descriptor {
	return []Descriptor{
		{
			Name: "header",
			Path: "${header_path}",
			Rules: []text.Rule{
				text.PrefixRule("__status__ = ", `__status__ = "${status}"`),
				text.PrefixRule("__copyright__ = ", `__copyright__ = "${copyright}"`),
				text.PrefixRule("__date__ = ", `__date__ = "${date}"`),
			},
		},
		{
			Name:     "dockerfile",
			Path:     "Dockerfile",
			Optional: true,
			Rules: []text.Rule{
				text.PrefixRule("LABEL version=", `LABEL version="${version}"`),
				text.PrefixRule("LABEL "+ociVersion+"=", `LABEL `+ociVersion+`="${version}"`),
				text.PrefixRule("LABEL "+ociDescription+"=", `LABEL `+ociDescription+`="${description}"`),
			},
		},
		{
			Name:     "citation",
			Path:     "CITATION.cff",
			Optional: true,
			Rules: []text.Rule{
				text.PrefixRule("version:", "version: ${version}"),
				text.MustPatternRule(`abstract:.*`, "abstract: ${description}"),
			},
		},
		{
			Name:     "codemeta",
			Path:     "codemeta.json",
			Optional: true,
			Rules: []text.Rule{
				text.MustPatternRule(`\s*"version"\s*:.*`, `    "version": "${version}",`),
				text.MustPatternRule(`\s*"description"\s*:.*`, `    "description": "${description}",`),
			},
		},
		{
			Name: "recipe",
			Path: "${recipe}",
			Rules: []text.Rule{
				text.PrefixRule("{% set version = ", `{% set version = "${version}" %}`),
			},
		},
		{
			Name:     "environment",
			Path:     "${environment}",
			Optional: true,
			Rules: []text.Rule{
				text.PrefixRule("name: ", "name: ${project.name}"),
			},
		},
	}
}

// Builtin looks up a built-in descriptor by name
func Builtin(name string) (Descriptor, bool) {
	for _, d := range Builtins() {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// BuiltinNames lists the catalog in sync order
func BuiltinNames() []string {
	var names []string
	for _, d := range Builtins() {
		names = append(names, d.Name)
	}
	return names
}
