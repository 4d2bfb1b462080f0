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

package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/projsync/pkg/target"
	"gitlab.com/tozd/go/errors"
)

// AnnotationStandalone marks commands that run without a project config
const AnnotationStandalone = "projsync/standalone"

// filterTargets keeps the descriptors named in only, in their original
// order. An empty only keeps everything.
func filterTargets(all []target.Descriptor, only []string) ([]target.Descriptor, error) {
	if len(only) == 0 {
		return all, nil
	}

	byName := map[string]bool{}
	for _, d := range all {
		byName[d.Name] = true
	}
	var unknown []string
	want := map[string]bool{}
	for _, name := range only {
		if !byName[name] {
			unknown = append(unknown, name)
		}
		want[name] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Errorf("unknown or disabled target(s): %s", strings.Join(unknown, ", "))
	}

	out := make([]target.Descriptor, 0, len(want))
	for _, d := range all {
		if want[d.Name] {
			out = append(out, d)
		}
	}
	return out, nil
}

func printDiff(w io.Writer, name, diff string) {
	if diff == "" {
		return
	}
	fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprintf("--- %s", name))
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(w, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(w, color.RedString("%s", line))
		default:
			fmt.Fprint(w, line)
		}
	}
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(w)
	}
}
