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

// Package cache keeps remote lookups on disk so repeated runs stay offline
// until the entries expire.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// DefaultTTL is how long an entry stays fresh
const DefaultTTL = 24 * time.Hour

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type entry[T any] struct {
	FetchedAt time.Time `json:"fetched_at"`
	Value     T         `json:"value"`
}

// 💾 Provider decorates a remote.Provider with a disk cache
type Provider struct {
	next remote.Provider
	dir  string
	ttl  time.Duration
	now  func() time.Time
}

var _ remote.Provider = (*Provider)(nil)

// Option configures the cache
type Option func(*Provider)

func WithDir(dir string) Option { return func(p *Provider) { p.dir = dir } }

func WithTTL(ttl time.Duration) Option { return func(p *Provider) { p.ttl = ttl } }

// WithClock sets the time used for expiry checks
func WithClock(now func() time.Time) Option { return func(p *Provider) { p.now = now } }

// DefaultDir is $XDG_CACHE_HOME/projsync
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "projsync")
}

// 🏭 New wraps next
func New(next remote.Provider, opts ...Option) *Provider {
	p := &Provider{
		next: next,
		dir:  DefaultDir(),
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return p.next.Name() + "+cache"
}

func (p *Provider) LatestVersion(ctx context.Context, name string) (string, error) {
	return load(ctx, p, "versions", name, func() (string, error) {
		return p.next.LatestVersion(ctx, name)
	})
}

func (p *Provider) License(ctx context.Context, spdxID string) (*remote.License, error) {
	return load(ctx, p, "licenses", spdxID, func() (*remote.License, error) {
		return p.next.License(ctx, spdxID)
	})
}

func (p *Provider) path(kind, key string) string {
	return filepath.Join(p.dir, kind, unsafeChars.ReplaceAllString(key, "_")+".json")
}

func load[T any](ctx context.Context, p *Provider, kind, key string, fetch func() (T, error)) (T, error) {
	logger := zerolog.Ctx(ctx)
	path := p.path(kind, key)

	if data, err := os.ReadFile(path); err == nil {
		var e entry[T]
		if err := json.Unmarshal(data, &e); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("ignoring unreadable cache entry")
		} else if p.now().Sub(e.FetchedAt) < p.ttl {
			logger.Debug().Str("kind", kind).Str("key", key).Msg("cache hit")
			return e.Value, nil
		}
	}

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if err := store(path, entry[T]{FetchedAt: p.now(), Value: v}); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("writing cache entry")
	}
	return v, nil
}

func store(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Errorf("encoding cache entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating cache directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Errorf("renaming cache entry: %w", err)
	}
	return nil
}
