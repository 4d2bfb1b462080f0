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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 15 // Width for target or rule name
	statusWidth = 15 // Width for status text
)

// FormatColumns renders an event as an indented, colored table row
func FormatColumns(ev Event) string {
	var prefix string
	switch ev.Status {
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusQuarantined:
		prefix = color.BlueString("⇢")
	case StatusDeleted, StatusFailed:
		prefix = color.RedString("✗")
	case StatusUnchanged:
		prefix = color.GreenString("✓")
	default:
		prefix = color.HiBlackString("-")
	}

	statusText := ev.Status.String()
	if ev.DryRun {
		statusText += "*"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		fmt.Sprintf("%-*s", nameWidth, ev.Path),
		fmt.Sprintf("%-*s", typeWidth, ev.Name),
		fmt.Sprintf("%-*s", statusWidth, statusText),
	)
}
