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

package remote

import (
	"context"
	"sort"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned when a package or license does not exist
var ErrNotFound = errors.Base("not found")

// 📦 RegistryClient looks up published package versions
type RegistryClient interface {
	// LatestVersion returns the newest released version of a package
	LatestVersion(ctx context.Context, name string) (string, error)
}

// 📜 LicenseClient looks up license metadata by SPDX identifier
type LicenseClient interface {
	License(ctx context.Context, spdxID string) (*License, error)
}

// Provider is a remote metadata source (e.g. "github")
type Provider interface {
	// Name returns the name of the provider
	Name() string
	RegistryClient
	LicenseClient
}

// License is the metadata returned for an SPDX identifier
type License struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Options configures a provider
type Options struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Factory creates a provider
type Factory func(ctx context.Context, opts Options) (Provider, error)

var registry = map[string]Factory{}

// 📝 Register registers a provider factory under name
func Register(name string, f Factory) {
	registry[name] = f
}

// 🎯 New creates the provider registered under name
func New(ctx context.Context, name string, opts Options) (Provider, error) {
	f, ok := registry[name]
	if !ok {
		options := make([]string, 0, len(registry))
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	p, err := f(ctx, opts)
	if err != nil {
		return nil, errors.Errorf("creating provider %s: %w", name, err)
	}
	return p, nil
}
