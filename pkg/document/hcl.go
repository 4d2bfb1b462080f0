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

package document

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"gitlab.com/tozd/go/errors"
)

// 📄 HCLParser handles .hcl documents. Attributes are evaluated without
// variables; a block `tool "projsync" { ... }` nests under tool.projsync.
type HCLParser struct{}

func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Tree, error) {
	file, diags := hclsyntax.ParseConfig(data, "document.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing hcl: %w", diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, errors.Errorf("unexpected hcl body type %T", file.Body)
	}
	b := NewBuilder()
	if err := collectBody(b, "", body); err != nil {
		return nil, err
	}
	return b.Build()
}

func collectBody(b *Builder, prefix string, body *hclsyntax.Body) error {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := body.Attributes[name]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return errors.Errorf("evaluating %s: %w", join(prefix, name), diags)
		}
		v, err := FromCty(val)
		if err != nil {
			return errors.Errorf("converting %s: %w", join(prefix, name), err)
		}
		b.Set(join(prefix, name), v)
	}

	for _, block := range body.Blocks {
		path := join(prefix, block.Type)
		for _, label := range block.Labels {
			path = join(path, label)
		}
		if err := collectBody(b, path, block.Body); err != nil {
			return err
		}
	}
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Separator + key
}
