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

package document

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Separator splits a dotted path into table keys
const Separator = "."

// SplitPath splits a dotted path into its segments
func SplitPath(path string) []string {
	return strings.Split(path, Separator)
}

// 🔍 Resolve walks the dotted path from the root of the tree.
// Every segment but the last must name a table.
func Resolve(t *Tree, path string) (Value, error) {
	cur := TableValue(t.root())
	for _, seg := range SplitPath(path) {
		tbl, ok := cur.AsTable()
		if !ok || seg == "" {
			return Value{}, errors.WithStack(&PathNotFoundError{Path: path, Segment: seg})
		}
		next, ok := tbl.Get(seg)
		if !ok {
			return Value{}, errors.WithStack(&PathNotFoundError{Path: path, Segment: seg})
		}
		cur = next
	}
	return cur, nil
}

// IsPathNotFound reports whether err wraps a PathNotFoundError
func IsPathNotFound(err error) bool {
	var pnf *PathNotFoundError
	return errors.As(err, &pnf)
}
