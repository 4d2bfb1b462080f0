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

func exact(tier Tier, names ...string) []Rule {
	out := make([]Rule, 0, len(names))
	for _, n := range names {
		out = append(out, Rule{Kind: ExactName, Value: n, Tier: tier})
	}
	return out
}

func patterns(tier Tier, globs ...string) []Rule {
	out := make([]Rule, 0, len(globs))
	for _, g := range globs {
		out = append(out, Rule{Kind: Pattern, Value: g, Tier: tier})
	}
	return out
}

// Defaults returns the built-in rule set. Built distribution directories
// are added to the normal tier when dists is set.
func Defaults(dists bool) []Rule {
	var rules []Rule
	rules = append(rules, exact(Normal,
		".pytest_cache",
		".mypy_cache",
		"__pycache__",
		"cython_debug",
		"eggs",
		"__pypackages__",
		"docs/_html",
		"docs/_build",
	)...)
	rules = append(rules, Rule{Kind: Suffix, Value: ".egg-info", Tier: Normal})
	rules = append(rules, patterns(Normal, "*.py[cod]", "*$py.class")...)

	if dists {
		rules = append(rules, exact(Normal, "dists")...)
	}

	rules = append(rules, exact(Aggressive,
		".tox",
		"poetry.lock",
		"docs/html",
		"Thumbs.db",
		"dist",
		"sdist",
		".ipynb_checkpoints",
		".cache",
	)...)
	rules = append(rules, patterns(Aggressive, "*.swp", "*[~.]temp", "*[~.]tmp")...)
	return rules
}
