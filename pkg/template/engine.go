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

package template

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/functions"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxDepth bounds how many rescans a template may need
const DefaultMaxDepth = 16

// ❌ SubstitutionCycleError is returned when placeholders keep producing
// placeholders past the rescan bound
type SubstitutionCycleError struct {
	Template string
}

func (e *SubstitutionCycleError) Error() string {
	return fmt.Sprintf("substitution cycle in %q", e.Template)
}

// Lookup resolves a dotted path for the engine
type Lookup func(ctx context.Context, path string) (document.Value, error)

// TreeLookup resolves paths straight from a document
func TreeLookup(tree *document.Tree) Lookup {
	return func(ctx context.Context, path string) (document.Value, error) {
		return document.Resolve(tree, path)
	}
}

// 🔄 Engine substitutes placeholders. It never mutates what it reads.
type Engine struct {
	lookup   Lookup
	funcs    *functions.Registry
	maxDepth int
}

// Option configures an Engine
type Option func(*Engine)

// WithMaxDepth sets the rescan bound
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// 🏭 New creates an engine. funcs may be nil, in which case every
// function call in a filter is unknown.
func New(lookup Lookup, funcs *functions.Registry, opts ...Option) *Engine {
	e := &Engine{
		lookup:   lookup,
		funcs:    funcs,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// 📝 Substitute replaces every placeholder and rescans until nothing is left
func (e *Engine) Substitute(ctx context.Context, s string) (string, error) {
	cur := s
	for pass := 0; pass < e.maxDepth; pass++ {
		placeholders, err := Scan(cur)
		if err != nil {
			return "", err
		}
		if len(placeholders) == 0 {
			return cur, nil
		}
		next, err := e.replace(ctx, cur, placeholders)
		if err != nil {
			return "", err
		}
		cur = next
	}

	placeholders, err := Scan(cur)
	if err != nil {
		return "", err
	}
	if len(placeholders) == 0 {
		return cur, nil
	}
	return "", errors.WithStack(&SubstitutionCycleError{Template: s})
}

func (e *Engine) replace(ctx context.Context, s string, placeholders []Placeholder) (string, error) {
	var b strings.Builder
	last := 0
	for _, p := range placeholders {
		v, err := e.Evaluate(ctx, p)
		if err != nil {
			return "", errors.Errorf("substituting %s: %w", p.Raw(s), err)
		}
		b.WriteString(s[last:p.Start])
		b.WriteString(v.String())
		last = p.End
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// 🎯 Render is Substitute that keeps the type when s is exactly one
// placeholder, so a list stays a list
func (e *Engine) Render(ctx context.Context, s string) (document.Value, error) {
	placeholders, err := Scan(s)
	if err != nil {
		return document.Value{}, err
	}
	if len(placeholders) == 1 && placeholders[0].Start == 0 && placeholders[0].End == len(s) {
		v, err := e.Evaluate(ctx, placeholders[0])
		if err != nil {
			return document.Value{}, errors.Errorf("substituting %s: %w", s, err)
		}
		str, ok := v.AsString()
		if !ok {
			return v, nil
		}
		out, err := e.Substitute(ctx, str)
		if err != nil {
			return document.Value{}, err
		}
		return document.String(out), nil
	}

	out, err := e.Substitute(ctx, s)
	if err != nil {
		return document.Value{}, err
	}
	return document.String(out), nil
}

// Evaluate resolves one placeholder without rescanning the result
func (e *Engine) Evaluate(ctx context.Context, p Placeholder) (document.Value, error) {
	var v document.Value
	switch {
	case p.Literal:
		v = document.String(p.Path)
	case p.Path == "":
		v = document.Null()
	default:
		var err error
		v, err = e.lookup(ctx, p.Path)
		if err != nil {
			return document.Value{}, err
		}
	}

	if !p.HasFilter {
		return v, nil
	}
	return e.applyFilter(ctx, p, v)
}
