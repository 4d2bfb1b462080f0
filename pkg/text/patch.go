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

package text

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 📏 Rule replaces a whole line when it starts with Prefix or fully
// matches Pattern. Render is a template passed to the Renderer.
type Rule struct {
	Prefix  string
	Pattern *regexp.Regexp
	Render  string
}

// PrefixRule matches lines beginning with prefix
func PrefixRule(prefix, render string) Rule {
	return Rule{Prefix: prefix, Render: render}
}

// PatternRule matches lines the regular expression matches in full
func PatternRule(pattern, render string) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return Rule{}, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Render: render}, nil
}

// MustPatternRule panics when the pattern does not compile
func MustPatternRule(pattern, render string) Rule {
	r, err := PatternRule(pattern, render)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rule) String() string {
	if r.Pattern != nil {
		return "pattern " + r.Pattern.String()
	}
	return fmt.Sprintf("prefix %q", r.Prefix)
}


// Matches reports whether the rule applies to a line without its line ending
func (r Rule) Matches(line string) bool {
	if r.Pattern != nil {
		return r.Pattern.MatchString(line)
	}
	return r.Prefix != "" && strings.HasPrefix(line, r.Prefix)
}

// Renderer turns a rule template into the replacement line
type Renderer func(ctx context.Context, tmpl string) (string, error)

// ❌ LineError reports the 1-based line a patch failed on
type LineError struct {
	Line  int
	Cause error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Cause)
}

func (e *LineError) Unwrap() error { return e.Cause }

// ErrInvalidUTF8 is the cause for lines that are not valid UTF-8
var ErrInvalidUTF8 = errors.Base("invalid UTF-8")

// 📝 Result holds the outcome of a patch
type Result struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	Rendered         []string
	ReplacementCount int
	WasModified      bool
}

// 🔧 Patch rewrites every line that matches a rule, first matching rule
// wins. Line endings, including a missing final newline, are preserved.
func Patch(ctx context.Context, content io.Reader, rules []Rule, render Renderer) (*Result, error) {
	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: original,
		ModifiedContent: original,
		Rendered:        []string{},
	}
	if len(rules) == 0 {
		return result, nil
	}

	var out bytes.Buffer
	out.Grow(len(original))

	for i, raw := range splitLines(original) {
		body, ending := cutEnding(raw)

		if !utf8.Valid(body) {
			return nil, errors.WithStack(&LineError{Line: i + 1, Cause: ErrInvalidUTF8})
		}

		line := string(body)
		for _, rule := range rules {
			if !rule.Matches(line) {
				continue
			}
			rendered, err := render(ctx, rule.Render)
			if err != nil {
				return nil, errors.WithStack(&LineError{Line: i + 1, Cause: err})
			}
			if strings.ContainsAny(rendered, "\r\n") {
				return nil, errors.WithStack(&LineError{Line: i + 1, Cause: errors.Errorf("rendered %s spans multiple lines", rule)})
			}
			result.Rendered = append(result.Rendered, rendered)
			result.ReplacementCount++
			line = rendered
			break
		}

		out.WriteString(line)
		out.Write(ending)
	}

	result.ModifiedContent = out.Bytes()
	result.WasModified = !bytes.Equal(original, result.ModifiedContent)
	return result, nil
}

func splitLines(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	lines := bytes.SplitAfter(b, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func cutEnding(line []byte) ([]byte, []byte) {
	switch {
	case bytes.HasSuffix(line, []byte("\r\n")):
		return line[:len(line)-2], line[len(line)-2:]
	case bytes.HasSuffix(line, []byte("\n")):
		return line[:len(line)-1], line[len(line)-1:]
	default:
		return line, nil
	}
}
