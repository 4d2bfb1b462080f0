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

package trash

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Kind selects how a rule value is compared against a path
type Kind int

const (
	ExactName Kind = iota
	Suffix
	Pattern
)

func (k Kind) String() string {
	switch k {
	case ExactName:
		return "exact"
	case Suffix:
		return "suffix"
	case Pattern:
		return "pattern"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the names printed by Kind.String
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "exact", "name":
		return ExactName, nil
	case "suffix":
		return Suffix, nil
	case "pattern", "glob":
		return Pattern, nil
	default:
		return 0, errors.Errorf("unknown trash rule kind %q", s)
	}
}

// Tier partitions rules into always-on and opt-in sets
type Tier int

const (
	Normal Tier = iota
	Aggressive
)

func (t Tier) String() string {
	if t == Aggressive {
		return "aggressive"
	}
	return "normal"
}

// 🗑️ Rule marks matching paths as disposable
type Rule struct {
	Kind  Kind
	Value string
	Tier  Tier
}

// NewRule validates the value for its kind
func NewRule(kind Kind, value string, tier Tier) (Rule, error) {
	if value == "" {
		return Rule{}, errors.Errorf("empty %s rule", kind)
	}
	if kind == Pattern && !doublestar.ValidatePattern(value) {
		return Rule{}, errors.Errorf("invalid pattern %q", value)
	}
	return Rule{Kind: kind, Value: value, Tier: tier}, nil
}

func (r Rule) String() string {
	return fmt.Sprintf("%s:%s (%s)", r.Kind, r.Value, r.Tier)
}

// Matches tests a slash-separated path relative to the scan root
func (r Rule) Matches(rel string) bool {
	rel = strings.Trim(rel, "/")
	base := path.Base(rel)

	switch r.Kind {
	case ExactName:
		if strings.Contains(r.Value, "/") {
			v := strings.Trim(r.Value, "/")
			return rel == v || strings.HasSuffix(rel, "/"+v)
		}
		return base == r.Value
	case Suffix:
		return strings.HasSuffix(base, r.Value)
	case Pattern:
		subject := base
		if strings.Contains(r.Value, "/") {
			subject = rel
		}
		ok, err := doublestar.Match(r.Value, subject)
		return err == nil && ok
	default:
		return false
	}
}

// Enabled filters out aggressive rules unless requested
func Enabled(rules []Rule, aggressive bool) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Tier == Aggressive && !aggressive {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Match returns the first rule that matches rel
func Match(rules []Rule, rel string) (Rule, bool) {
	for _, r := range rules {
		if r.Matches(rel) {
			return r, true
		}
	}
	return Rule{}, false
}
