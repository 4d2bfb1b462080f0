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

package template

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	openMarker  = "${"
	closeMarker = '}'
	filterMark  = '~'
	literalMark = '\''
)

// ❌ MalformedPlaceholderError reports unbalanced or invalid markers
type MalformedPlaceholderError struct {
	Position int
	Reason   string
}

func (e *MalformedPlaceholderError) Error() string {
	return fmt.Sprintf("malformed placeholder at position %d: %s", e.Position, e.Reason)
}

// 🧩 Placeholder is one parsed `${ path (~ filter ~)? }` occurrence
type Placeholder struct {
	// Start and End are byte offsets of the whole span in the input
	Start, End int
	// Path is the dotted path, or the literal text when Literal is set
	Path      string
	Literal   bool
	Filter    string
	HasFilter bool
}

// Raw returns the placeholder text from the input it was scanned from
func (p Placeholder) Raw(input string) string {
	return input[p.Start:p.End]
}

func isPathChar(c byte) bool {
	return c == '-' || c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// 🔍 Scan finds every placeholder in s in a single left-to-right pass.
// Markers inside a filter are not interpreted.
func Scan(s string) ([]Placeholder, error) {
	var out []Placeholder
	pos := 0
	for {
		idx := strings.Index(s[pos:], openMarker)
		if idx < 0 {
			return out, nil
		}
		start := pos + idx
		p, end, err := scanOne(s, start)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		pos = end
	}
}

func scanOne(s string, start int) (Placeholder, int, error) {
	malformed := func(at int, reason string) (Placeholder, int, error) {
		return Placeholder{}, 0, errors.WithStack(&MalformedPlaceholderError{Position: at, Reason: reason})
	}

	p := Placeholder{Start: start}
	i := start + len(openMarker)
	skip := func() {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
	}

	skip()
	if i < len(s) && s[i] == literalMark {
		end := strings.IndexByte(s[i+1:], literalMark)
		if end < 0 {
			return malformed(i, "unterminated literal")
		}
		p.Literal = true
		p.Path = s[i+1 : i+1+end]
		i += end + 2
	} else {
		tokStart := i
		for i < len(s) && isPathChar(s[i]) {
			i++
		}
		p.Path = s[tokStart:i]
	}
	skip()

	if i < len(s) && s[i] == filterMark {
		end := strings.IndexByte(s[i+1:], filterMark)
		if end < 0 {
			return malformed(i, "unterminated filter")
		}
		p.HasFilter = true
		p.Filter = strings.TrimSpace(s[i+1 : i+1+end])
		i += end + 2
		skip()
		if p.Filter == "" {
			return malformed(i, "empty filter")
		}
	}

	if i >= len(s) {
		return malformed(start, "missing closing '}'")
	}
	if s[i] != closeMarker {
		return malformed(i, fmt.Sprintf("unexpected character %q", s[i]))
	}
	if !p.Literal && p.Path == "" && !p.HasFilter {
		return malformed(start, "empty placeholder")
	}
	p.End = i + 1
	return p, p.End, nil
}
