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

	"github.com/walteh/projsync/pkg/remote"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
)

var licenseType = cty.Object(map[string]cty.Type{
	"id":   cty.String,
	"name": cty.String,
	"url":  cty.String,
	"text": cty.String,
})

func licenseFunction(ctx context.Context, client remote.LicenseClient) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{stringParam("id")},
		Type:   function.StaticReturnType(licenseType),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if client == nil {
				return cty.UnknownVal(licenseType), errors.New("no license client configured")
			}
			lic, err := client.License(ctx, args[0].AsString())
			if err != nil {
				return cty.UnknownVal(licenseType), err
			}
			return cty.ObjectVal(map[string]cty.Value{
				"id":   cty.StringVal(lic.ID),
				"name": cty.StringVal(lic.Name),
				"url":  cty.StringVal(lic.URL),
				"text": cty.StringVal(lic.Text),
			}), nil
		},
	})
}

func latestFunction(ctx context.Context, client remote.RegistryClient) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{stringParam("name")},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if client == nil {
				return cty.UnknownVal(cty.String), errors.New("no registry client configured")
			}
			v, err := client.LatestVersion(ctx, args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			return cty.StringVal(v), nil
		},
	})
}
