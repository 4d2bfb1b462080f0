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
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/document"
	"github.com/walteh/projsync/pkg/target"
	"github.com/walteh/projsync/pkg/text"
	"github.com/walteh/projsync/pkg/trash"
	"github.com/walteh/projsync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// Section is where the configuration lives inside pyproject.toml
const Section = "tool.projsync"

// Known option switches under [tool.projsync.options]
const (
	OptionDists             = "dists"
	OptionAggressive        = "aggressive"
	OptionHardDelete        = "hard_delete"
	OptionDestroyQuarantine = "destroy_quarantine"
)

// TrashConfig holds [tool.projsync.trash]
type TrashConfig struct {
	Quarantine string
	Rules      []trash.Rule
}

// 📦 Config is the typed view of the projsync section of a project document
type Config struct {
	location string
	section  string

	Doc     *document.Tree
	Options map[string]bool
	Targets map[string]bool
	// Sources holds the declared bindings merged over target.DefaultSources
	Sources map[string]document.Value
	Files   []target.Descriptor
	Trash   TrashConfig
}

// 🏭 FromTree extracts the configuration from a parsed document. The
// section is tool.projsync when present, otherwise the document root.
func FromTree(ctx context.Context, doc *document.Tree, location string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	cfg := &Config{
		location: location,
		Doc:      doc,
		Options:  map[string]bool{OptionDestroyQuarantine: true},
		Targets:  map[string]bool{},
		Sources:  map[string]document.Value{},
		Trash:    TrashConfig{Quarantine: workspace.DefaultQuarantineDir},
	}

	section := doc
	if sub, err := doc.Sub(Section); err == nil {
		section = sub
		cfg.section = Section
	} else {
		logger.Debug().Str("location", location).Msg("no tool.projsync section, using document root")
	}

	if err := readFlags(section, "options", cfg.Options); err != nil {
		return nil, err
	}
	if err := readFlags(section, "targets", cfg.Targets); err != nil {
		return nil, err
	}

	for name, expr := range target.DefaultSources {
		cfg.Sources[name] = document.String(expr)
	}
	if section.Contains("sources") {
		sources, err := section.GetTable("sources")
		if err != nil {
			return nil, err
		}
		for _, name := range sources.Keys() {
			v, _ := sources.Get(name)
			cfg.Sources[name] = v
		}
	}

	files, err := readFiles(section)
	if err != nil {
		return nil, err
	}
	cfg.Files = files

	if err := readTrash(section, &cfg.Trash); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func readFlags(section *document.Tree, key string, into map[string]bool) error {
	v, ok := section.TryGet(key)
	if !ok {
		return nil
	}
	switch v.Kind() {
	case document.KindTable:
		tbl, _ := v.AsTable()
		for _, name := range tbl.Keys() {
			flag, _ := tbl.Get(name)
			b, ok := flag.AsBool()
			if !ok {
				return errors.WithStack(&document.TypeMismatchError{Path: key + "." + name, Expected: document.KindBool, Actual: flag.Kind()})
			}
			into[name] = b
		}
	case document.KindList:
		// a plain list of names enables each of them
		names, err := section.GetStringList(key)
		if err != nil {
			return err
		}
		for _, name := range names {
			into[name] = true
		}
	default:
		return errors.WithStack(&document.TypeMismatchError{Path: key, Expected: document.KindTable, Actual: v.Kind()})
	}
	return nil
}

func readFiles(section *document.Tree) ([]target.Descriptor, error) {
	if !section.Contains("files") {
		return nil, nil
	}
	files, err := section.Sub("files")
	if err != nil {
		return nil, err
	}

	names := files.Root().Keys()
	sort.Strings(names)

	out := make([]target.Descriptor, 0, len(names))
	for _, name := range names {
		entry, err := files.Sub(name)
		if err != nil {
			return nil, err
		}
		path, err := entry.GetString("path")
		if err != nil {
			return nil, errors.Errorf("files.%s: %w", name, err)
		}
		optional := false
		if entry.Contains("optional") {
			if optional, err = entry.GetBool("optional"); err != nil {
				return nil, errors.Errorf("files.%s: %w", name, err)
			}
		}

		rawRules, err := entry.GetList("rules")
		if err != nil {
			return nil, errors.Errorf("files.%s: %w", name, err)
		}
		rules := make([]text.Rule, 0, len(rawRules))
		for i, raw := range rawRules {
			rule, err := parseRule(raw)
			if err != nil {
				return nil, errors.Errorf("files.%s.rules[%d]: %w", name, i, err)
			}
			rules = append(rules, rule)
		}

		out = append(out, target.Descriptor{Name: name, Path: path, Rules: rules, Optional: optional})
	}
	return out, nil
}

func parseRule(raw document.Value) (text.Rule, error) {
	tbl, ok := raw.AsTable()
	if !ok {
		return text.Rule{}, errors.Errorf("expected a table, got %s", raw.Kind())
	}
	rule := document.NewTree(tbl)

	render, err := rule.GetString("render")
	if err != nil {
		return text.Rule{}, err
	}
	prefix, hasPrefix := rule.TryGet("prefix")
	pattern, hasPattern := rule.TryGet("pattern")

	switch {
	case hasPrefix && hasPattern:
		return text.Rule{}, errors.Errorf("prefix and pattern are mutually exclusive")
	case hasPrefix:
		p, ok := prefix.AsString()
		if !ok || p == "" {
			return text.Rule{}, errors.Errorf("prefix must be a non-empty string")
		}
		return text.PrefixRule(p, render), nil
	case hasPattern:
		p, ok := pattern.AsString()
		if !ok || p == "" {
			return text.Rule{}, errors.Errorf("pattern must be a non-empty string")
		}
		return text.PatternRule(p, render)
	default:
		return text.Rule{}, errors.Errorf("one of prefix or pattern is required")
	}
}

func readTrash(section *document.Tree, into *TrashConfig) error {
	if !section.Contains("trash") {
		return nil
	}
	tr, err := section.Sub("trash")
	if err != nil {
		return err
	}
	if tr.Contains("quarantine") {
		if into.Quarantine, err = tr.GetString("quarantine"); err != nil {
			return err
		}
	}
	if !tr.Contains("rules") {
		return nil
	}
	raw, err := tr.GetList("rules")
	if err != nil {
		return err
	}
	for i, v := range raw {
		tbl, ok := v.AsTable()
		if !ok {
			return errors.Errorf("trash.rules[%d]: expected a table, got %s", i, v.Kind())
		}
		entry := document.NewTree(tbl)

		kindName, err := entry.GetString("kind")
		if err != nil {
			return errors.Errorf("trash.rules[%d]: %w", i, err)
		}
		kind, err := trash.ParseKind(kindName)
		if err != nil {
			return errors.Errorf("trash.rules[%d]: %w", i, err)
		}
		value, err := entry.GetString("value")
		if err != nil {
			return errors.Errorf("trash.rules[%d]: %w", i, err)
		}
		tier := trash.Normal
		if entry.Contains("tier") {
			t, err := entry.GetString("tier")
			if err != nil {
				return errors.Errorf("trash.rules[%d]: %w", i, err)
			}
			switch t {
			case "normal":
			case "aggressive":
				tier = trash.Aggressive
			default:
				return errors.Errorf("trash.rules[%d]: unknown tier %q", i, t)
			}
		}
		rule, err := trash.NewRule(kind, value, tier)
		if err != nil {
			return errors.Errorf("trash.rules[%d]: %w", i, err)
		}
		into.Rules = append(into.Rules, rule)
	}
	return nil
}

// Validate checks that every enabled target is known
func (cfg *Config) Validate() error {
	custom := map[string]bool{}
	for _, f := range cfg.Files {
		if len(f.Rules) == 0 {
			return errors.Errorf("files.%s: at least one rule is required", f.Name)
		}
		custom[f.Name] = true
	}
	for name, on := range cfg.Targets {
		if !on || custom[name] {
			continue
		}
		if _, ok := target.Builtin(name); !ok {
			return errors.Errorf("targets.%s: unknown target, options: %v", name, target.BuiltinNames())
		}
	}
	if cfg.Trash.Quarantine == "" {
		return errors.Errorf("trash.quarantine must not be empty")
	}
	return nil
}

// Location is the file the configuration was loaded from
func (cfg *Config) Location() string { return cfg.location }

// Option reports whether an option switch is on
func (cfg *Config) Option(name string) bool { return cfg.Options[name] }

// Descriptors returns the targets a sync run should process
func (cfg *Config) Descriptors() []target.Descriptor {
	return target.Select(cfg.Targets, cfg.Files)
}

// TrashRules returns the default rules plus the configured ones, filtered
// by tier
func (cfg *Config) TrashRules(dists, aggressive bool) []trash.Rule {
	rules := append(trash.Defaults(dists), cfg.Trash.Rules...)
	return trash.Enabled(rules, aggressive)
}

func (cfg *Config) String() string {
	section := cfg.section
	if section == "" {
		section = "<root>"
	}
	return fmt.Sprintf("%s[%s]: %d target(s), %d source(s)", cfg.location, section, len(cfg.Descriptors()), len(cfg.Sources))
}
