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

package settings

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/walteh/projsync/pkg/remote/cache"
	"github.com/walteh/projsync/pkg/template"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix marks environment variables that override settings;
// PROJSYNC_CACHE_TTL sets cache.ttl
const EnvPrefix = "PROJSYNC_"

type GitHub struct {
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

type Cache struct {
	Enabled bool          `koanf:"enabled"`
	Dir     string        `koanf:"dir"`
	TTL     time.Duration `koanf:"ttl"`
}

type Substitution struct {
	Depth int `koanf:"depth"`
}

type Quarantine struct {
	// Dir overrides the project's trash.quarantine when set
	Dir string `koanf:"dir"`
}

// ⚙️ Settings are per-user, independent of any project
type Settings struct {
	Provider     string       `koanf:"provider"`
	GitHub       GitHub       `koanf:"github"`
	Cache        Cache        `koanf:"cache"`
	Substitution Substitution `koanf:"substitution"`
	Quarantine   Quarantine   `koanf:"quarantine"`
}

// DefaultFile is $XDG_CONFIG_HOME/projsync/config.toml
func DefaultFile() string {
	return filepath.Join(xdg.ConfigHome, "projsync", "config.toml")
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"provider":           "github",
		"github.token":       "",
		"github.timeout":     "30s",
		"cache.enabled":      true,
		"cache.dir":          cache.DefaultDir(),
		"cache.ttl":          cache.DefaultTTL.String(),
		"substitution.depth": template.DefaultMaxDepth,
		"quarantine.dir":     "",
	}
}

type loadOptions struct {
	file      string
	overrides map[string]interface{}
}

// Option configures Load
type Option func(*loadOptions)

// WithFile reads settings from path instead of DefaultFile
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithOverrides applies values above every other layer, such as CLI flags
func WithOverrides(values map[string]interface{}) Option {
	return func(o *loadOptions) { o.overrides = values }
}

// 📥 Load layers defaults, the settings file and PROJSYNC_* variables, in
// increasing precedence. A missing settings file is not an error.
func Load(opts ...Option) (*Settings, error) {
	o := &loadOptions{file: DefaultFile()}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Errorf("loading defaults: %w", err)
	}

	if o.file != "" {
		if _, err := os.Stat(o.file); err == nil {
			if err := k.Load(file.Provider(o.file), toml.Parser()); err != nil {
				return nil, errors.Errorf("loading settings from %s: %w", o.file, err)
			}
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Errorf("loading environment: %w", err)
	}

	if len(o.overrides) > 0 {
		if err := k.Load(confmap.Provider(o.overrides, "."), nil); err != nil {
			return nil, errors.Errorf("loading overrides: %w", err)
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Errorf("decoding settings: %w", err)
	}

	if s.GitHub.Token == "" {
		s.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects values no component can use
func (s *Settings) Validate() error {
	if s.Substitution.Depth < 1 {
		return errors.Errorf("substitution.depth must be at least 1, got %d", s.Substitution.Depth)
	}
	if s.Cache.TTL < 0 {
		return errors.Errorf("cache.ttl must not be negative")
	}
	if s.Cache.Enabled && s.Cache.Dir == "" {
		return errors.Errorf("cache.dir is required when the cache is enabled")
	}
	return nil
}
