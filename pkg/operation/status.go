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

package operation

import (
	"context"

	"github.com/walteh/projsync/pkg/target"
	"gitlab.com/tozd/go/errors"
)

// TargetStatus reports whether a target is in sync with its bindings
type TargetStatus struct {
	Target  string
	Path    string
	InSync  bool
	Missing bool
	Diff    string
}

// 🔍 Status renders every target without writing and reports which ones
// a sync would change. Absent optional targets are reported as missing.
func (s *Syncer) Status(ctx context.Context, targets []target.Descriptor) ([]TargetStatus, error) {
	out := make([]TargetStatus, 0, len(targets))
	for _, d := range targets {
		res, err := s.Apply(ctx, d, true)
		if err != nil {
			var missing *TargetNotFoundError
			if errors.As(err, &missing) {
				out = append(out, TargetStatus{Target: d.Name, Path: missing.Path, Missing: true, InSync: d.Optional})
				continue
			}
			return nil, errors.Errorf("checking target %s: %w", d.Name, err)
		}
		out = append(out, TargetStatus{
			Target: d.Name,
			Path:   s.relative(res.Path),
			InSync: !res.Modified,
			Diff:   res.Diff(),
		})
	}
	return out, nil
}

// NeedsSync reports whether any status would be changed by a sync
func NeedsSync(statuses []TargetStatus) bool {
	for _, st := range statuses {
		if !st.InSync {
			return true
		}
	}
	return false
}
