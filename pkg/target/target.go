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
	"context"
	"sort"

	"github.com/walteh/projsync/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Descriptor names a file and the line rules that keep it in sync.
// Path is a template rendered against the source bindings and resolved
// relative to the project root.
type Descriptor struct {
	Name  string
	Path  string
	Rules []text.Rule
	// Optional descriptors are skipped instead of failing when the file is absent
	Optional bool
}

// PathRenderer renders a path template
type PathRenderer func(ctx context.Context, tmpl string) (string, error)

// RenderPath resolves the descriptor path template
func (d Descriptor) RenderPath(ctx context.Context, render PathRenderer) (string, error) {
	p, err := render(ctx, d.Path)
	if err != nil {
		return "", errors.Errorf("rendering path of target %s: %w", d.Name, err)
	}
	if p == "" {
		return "", errors.Errorf("target %s has an empty path", d.Name)
	}
	return p, nil
}

// Select returns the active built-ins in catalog order followed by the
// custom descriptors sorted by name. A built-in is active when enabled;
// a custom descriptor is active unless explicitly disabled and replaces
// the built-in of the same name.
func Select(enabled map[string]bool, custom []Descriptor) []Descriptor {
	overrides := make(map[string]Descriptor, len(custom))
	for _, d := range custom {
		overrides[d.Name] = d
	}

	disabled := func(name string) bool {
		on, set := enabled[name]
		return set && !on
	}

	var out []Descriptor
	for _, d := range Builtins() {
		o, overridden := overrides[d.Name]
		delete(overrides, d.Name)
		switch {
		case overridden && !disabled(d.Name):
			out = append(out, o)
		case enabled[d.Name]:
			out = append(out, d)
		}
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if disabled(name) {
			continue
		}
		out = append(out, overrides[name])
	}
	return out
}
