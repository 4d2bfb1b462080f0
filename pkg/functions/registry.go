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
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/remote"
	"github.com/walteh/projsync/pkg/runctx"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
)

// NamespaceSeparator joins a namespace and a function name
const NamespaceSeparator = "::"

// Names of the functions that reach a remote client
const (
	LicenseFunction = "spdx" + NamespaceSeparator + "license"
	LatestFunction  = "registry" + NamespaceSeparator + "latest"
)

// ❌ UnknownFunctionError is returned for names outside the registry
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// ❌ FunctionError wraps a failed call, including signature violations
type FunctionError struct {
	Name  string
	Cause error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %q: %v", e.Name, e.Cause)
}

func (e *FunctionError) Unwrap() error {
	return e.Cause
}

// 🧮 Registry is the closed set of functions callable from a filter
type Registry struct {
	rc       *runctx.RunContext
	registry remote.RegistryClient
	licenses remote.LicenseClient
	pure     map[string]function.Function
}

// Option configures a Registry
type Option func(*Registry)

// WithRegistryClient enables registry::latest
func WithRegistryClient(c remote.RegistryClient) Option {
	return func(r *Registry) { r.registry = c }
}

// WithLicenseClient enables spdx::license
func WithLicenseClient(c remote.LicenseClient) Option {
	return func(r *Registry) { r.licenses = c }
}

// 🏭 New creates the registry. The clock comes from rc and is never re-sampled.
func New(rc *runctx.RunContext, opts ...Option) *Registry {
	r := &Registry{rc: rc}
	for _, opt := range opts {
		opt(r)
	}
	r.pure = map[string]function.Function{}
	for name, fn := range timeFunctions(rc) {
		r.pure["time"+NamespaceSeparator+name] = fn
	}
	for name, fn := range semverFunctions() {
		r.pure["semver"+NamespaceSeparator+name] = fn
	}
	for name, fn := range textFunctions() {
		r.pure["text"+NamespaceSeparator+name] = fn
	}
	return r
}

// Functions returns every function keyed by its namespaced name. I/O
// functions are bound to ctx.
func (r *Registry) Functions(ctx context.Context) map[string]function.Function {
	out := make(map[string]function.Function, len(r.pure)+2)
	for k, v := range r.pure {
		out[k] = v
	}
	out[LicenseFunction] = licenseFunction(ctx, r.licenses)
	out[LatestFunction] = latestFunction(ctx, r.registry)
	return out
}

// Names lists the namespaced function names, sorted
func (r *Registry) Names() []string {
	return document.SortedKeys(r.Functions(context.Background()))
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	if _, ok := r.pure[name]; ok {
		return true
	}
	return name == LicenseFunction || name == LatestFunction
}

// 📞 Call invokes a function directly, validating arguments against its signature
func (r *Registry) Call(ctx context.Context, name string, args ...document.Value) (document.Value, error) {
	fn, ok := r.Functions(ctx)[name]
	if !ok {
		return document.Value{}, errors.WithStack(&UnknownFunctionError{Name: name})
	}

	params := fn.Params()
	in := make([]cty.Value, len(args))
	for i, a := range args {
		in[i] = document.ToCty(a)

		var want cty.Type
		switch {
		case i < len(params):
			want = params[i].Type
		case fn.VarParam() != nil:
			want = fn.VarParam().Type
		default:
			// arity is reported by fn.Call
			continue
		}
		converted, err := convert.Convert(in[i], want)
		if err != nil {
			return document.Value{}, errors.WithStack(&FunctionError{
				Name:  name,
				Cause: errors.Errorf("argument %d: %w", i+1, err),
			})
		}
		in[i] = converted
	}

	out, err := fn.Call(in)
	if err != nil {
		return document.Value{}, errors.WithStack(&FunctionError{Name: name, Cause: err})
	}
	v, err := document.FromCty(out)
	if err != nil {
		return document.Value{}, errors.WithStack(&FunctionError{Name: name, Cause: err})
	}
	return v, nil
}

// Describe renders "name(param type, ...)" for every function, sorted
func (r *Registry) Describe() []string {
	fns := r.Functions(context.Background())
	out := make([]string, 0, len(fns))
	for name, fn := range fns {
		params := make([]string, 0, len(fn.Params()))
		for _, p := range fn.Params() {
			params = append(params, p.Name+" "+p.Type.FriendlyName())
		}
		out = append(out, fmt.Sprintf("%s(%s)", name, strings.Join(params, ", ")))
	}
	sort.Strings(out)
	return out
}

func stringParam(name string) function.Parameter {
	return function.Parameter{Name: name, Type: cty.String}
}
