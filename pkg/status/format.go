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
)

// FileFormatter turns events into single-line messages
type FileFormatter interface {
	FormatEvent(ev Event) string
	FormatProgress(current, total int) string
	FormatError(err error) string
}

type DefaultFileFormatter struct{}

func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

func (f *DefaultFileFormatter) FormatEvent(ev Event) string {
	var msg string
	switch ev.Status {
	case StatusModified:
		msg = fmt.Sprintf("📝 Modified %s", ev.Path)
	case StatusQuarantined:
		msg = fmt.Sprintf("📦 Quarantined %s -> %s", ev.Path, ev.Backup)
	case StatusDeleted:
		msg = fmt.Sprintf("🗑️  Removed %s", ev.Path)
	case StatusSkipped:
		msg = fmt.Sprintf("⏭️  Skipped %s", ev.Path)
	case StatusFailed:
		msg = fmt.Sprintf("❌ Failed %s", ev.Path)
		if ev.Error != nil {
			msg += ": " + ev.Error.Error()
		}
	default:
		msg = fmt.Sprintf("👍 Unchanged %s", ev.Path)
	}
	if ev.DryRun {
		msg += " (dry run)"
	}
	return msg
}

func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
