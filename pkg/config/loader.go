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

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/document"
	"gitlab.com/tozd/go/errors"
)

// DefaultFiles are tried in order by Discover
var DefaultFiles = []string{
	".projsync.toml",
	".projsync.yaml",
	".projsync.yml",
	".projsync.json",
	".projsync.hcl",
	"pyproject.toml",
}

// ErrNotFound is returned by Discover when no configuration file exists
var ErrNotFound = errors.Base("no configuration file found")

// 🔍 Discover returns the first DefaultFiles entry present in dir
func Discover(dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.Errorf("searching %s: %w", dir, ErrNotFound)
}

// 📥 Load parses a project document and extracts its configuration
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	doc, err := document.LoadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	cfg, err := FromTree(ctx, doc, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
