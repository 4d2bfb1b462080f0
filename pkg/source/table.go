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

// Package source resolves named bindings such as "status" or "copyright"
// from a project document, once per run.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/functions"
	"github.com/walteh/projsync/pkg/template"
	"gitlab.com/tozd/go/errors"
)

// ❌ UnknownSourceError is returned for names that were never declared
type UnknownSourceError struct {
	Name string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source %q", e.Name)
}

// 🔗 Table memoizes binding resolution. Not safe for concurrent use.
type Table struct {
	doc       *document.Tree
	exprs     map[string]document.Value
	cache     map[string]document.Value
	resolving map[string]bool
	engine    *template.Engine
	logger    *zerolog.Logger
}

// 🏭 NewTable declares the bindings. Nothing is resolved until requested.
func NewTable(doc *document.Tree, exprs map[string]document.Value, funcs *functions.Registry, opts ...template.Option) *Table {
	nop := zerolog.Nop()
	t := &Table{
		doc:       doc,
		exprs:     make(map[string]document.Value, len(exprs)),
		cache:     map[string]document.Value{},
		resolving: map[string]bool{},
		logger:    &nop,
	}
	for k, v := range exprs {
		t.exprs[k] = v
	}
	t.engine = template.New(t.Lookup, funcs, opts...)
	return t
}

// WithLogger sets the logger used for resolution traces
func (t *Table) WithLogger(l *zerolog.Logger) *Table {
	t.logger = l
	return t
}

// Engine returns the substitution engine whose lookups see the bindings
func (t *Table) Engine() *template.Engine {
	return t.engine
}

// Names lists the declared bindings, sorted
func (t *Table) Names() []string {
	return document.SortedKeys(t.exprs)
}

func (t *Table) Has(name string) bool {
	_, ok := t.exprs[name]
	return ok
}

// Expression returns the declared expression for name
func (t *Table) Expression(name string) (document.Value, bool) {
	v, ok := t.exprs[name]
	return v, ok
}

// 🎯 Get resolves name, or returns the cached result
func (t *Table) Get(ctx context.Context, name string) (document.Value, error) {
	if v, ok := t.cache[name]; ok {
		return v, nil
	}
	expr, ok := t.exprs[name]
	if !ok {
		return document.Value{}, errors.WithStack(&UnknownSourceError{Name: name})
	}
	if t.resolving[name] {
		return document.Value{}, errors.WithStack(&template.SubstitutionCycleError{Template: expr.String()})
	}

	t.resolving[name] = true
	defer delete(t.resolving, name)

	v, err := t.resolve(ctx, expr)
	if err != nil {
		return document.Value{}, errors.Errorf("resolving source %s: %w", name, err)
	}
	t.logger.Debug().Str("source", name).Str("value", v.String()).Msg("resolved source")
	t.cache[name] = v
	return v, nil
}

// GetString resolves name and stringifies the result
func (t *Table) GetString(ctx context.Context, name string) (string, error) {
	v, err := t.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// ResolveAll resolves every binding in name order, stopping at the first error
func (t *Table) ResolveAll(ctx context.Context) (map[string]document.Value, error) {
	out := make(map[string]document.Value, len(t.exprs))
	for _, name := range t.Names() {
		v, err := t.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Lookup resolves a template path: a binding name wins over the document
func (t *Table) Lookup(ctx context.Context, path string) (document.Value, error) {
	if t.Has(path) {
		return t.Get(ctx, path)
	}
	return document.Resolve(t.doc, path)
}

// resolve applies the expression rules: 'quoted' is a template, bare is a
// document path, a list resolves element-wise, other scalars are literals
func (t *Table) resolve(ctx context.Context, expr document.Value) (document.Value, error) {
	switch expr.Kind() {
	case document.KindString:
		s, _ := expr.AsString()
		if literal, ok := unquote(s); ok {
			return t.engine.Render(ctx, literal)
		}
		v, err := document.Resolve(t.doc, strings.TrimSpace(s))
		if err != nil {
			return document.Value{}, err
		}
		if str, ok := v.AsString(); ok {
			out, err := t.engine.Substitute(ctx, str)
			if err != nil {
				return document.Value{}, err
			}
			return document.String(out), nil
		}
		return document.String(v.String()), nil
	case document.KindList:
		items, _ := expr.AsList()
		out := make([]document.Value, 0, len(items))
		for i, item := range items {
			v, err := t.resolve(ctx, item)
			if err != nil {
				return document.Value{}, errors.Errorf("item %d: %w", i, err)
			}
			out = append(out, v)
		}
		return document.List(out...), nil
	case document.KindTable:
		return document.Value{}, errors.Errorf("a source cannot be a table")
	default:
		return document.String(expr.String()), nil
	}
}

func unquote(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1], true
	}
	return "", false
}
