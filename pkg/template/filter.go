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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/functions"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
)

// ValueVariable names the resolved value inside a filter
const ValueVariable = "value"

// ❌ FilterError is returned when a filter fails for a reason other than a
// function call, such as a missing attribute
type FilterError struct {
	Filter string
	Detail string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %q: %s", e.Filter, e.Detail)
}

// 🔬 applyFilter evaluates the filter as an HCL expression. The value is
// bound to `value`; when it is a table its keys are bound too, so a bare
// `name` projects a field.
func (e *Engine) applyFilter(ctx context.Context, p Placeholder, v document.Value) (document.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(p.Filter), "filter", hcl.InitialPos)
	if diags.HasErrors() {
		return document.Value{}, errors.WithStack(&MalformedPlaceholderError{Position: p.Start, Reason: diags.Error()})
	}

	fns := map[string]function.Function{}
	if e.funcs != nil {
		fns = e.funcs.Functions(ctx)
	}

	if err := checkCalls(expr, fns); err != nil {
		return document.Value{}, err
	}

	evalCtx := &hcl.EvalContext{
		Variables: filterVariables(v),
		Functions: fns,
	}
	out, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return document.Value{}, diagnosticsError(p, diags)
	}

	res, err := document.FromCty(out)
	if err != nil {
		return document.Value{}, errors.WithStack(&FilterError{Filter: p.Filter, Detail: err.Error()})
	}
	return res, nil
}

// checkCalls walks the expression for calls outside fns or with the wrong
// number of arguments, before anything is evaluated
func checkCalls(expr hclsyntax.Expression, fns map[string]function.Function) error {
	var found error
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		call, ok := n.(*hclsyntax.FunctionCallExpr)
		if !ok || found != nil {
			return nil
		}
		fn, known := fns[call.Name]
		if !known {
			found = errors.WithStack(&functions.UnknownFunctionError{Name: call.Name})
			return nil
		}
		if call.ExpandFinal {
			return nil
		}
		want := len(fn.Params())
		got := len(call.Args)
		if got < want || (got > want && fn.VarParam() == nil) {
			found = errors.WithStack(&functions.FunctionError{
				Name:  call.Name,
				Cause: errors.Errorf("expected %d arguments, got %d", want, got),
			})
		}
		return nil
	})
	return found
}

func filterVariables(v document.Value) map[string]cty.Value {
	vars := map[string]cty.Value{}
	if tbl, ok := v.AsTable(); ok {
		for _, k := range tbl.Keys() {
			if !hclsyntax.ValidIdentifier(k) {
				continue
			}
			field, _ := tbl.Get(k)
			vars[k] = document.ToCty(field)
		}
	}
	vars[ValueVariable] = document.ToCty(v)
	return vars
}

func diagnosticsError(p Placeholder, diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		if extra, ok := hcl.DiagnosticExtra[hclsyntax.FunctionCallDiagExtra](diag); ok {
			cause := extra.FunctionCallError()
			if cause == nil {
				cause = errors.New(diag.Detail)
			}
			return errors.WithStack(&functions.FunctionError{Name: extra.CalledFunctionName(), Cause: cause})
		}
	}
	return errors.WithStack(&FilterError{Filter: p.Filter, Detail: diags.Error()})
}
