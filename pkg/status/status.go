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
	"context"
	"sort"
	"sync"
)

// FileStatus is the outcome of one file operation
type FileStatus int

const (
	StatusUnknown     FileStatus = iota
	StatusUnchanged              // Rendered content matched the file
	StatusModified               // File was rewritten
	StatusQuarantined            // Path was moved under the quarantine directory
	StatusDeleted                // Path was removed without a backup
	StatusSkipped                // Optional target was absent
	StatusFailed                 // Operation failed, see Event.Error
)

func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusQuarantined:
		return "quarantined"
	case StatusDeleted:
		return "deleted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📣 Event describes one file outcome. Dry runs emit the same events with
// DryRun set.
type Event struct {
	Operation    string // sync or clean
	Name         string // target name or matching trash rule
	Path         string // relative to the project root
	Status       FileStatus
	Backup       string
	Replacements int
	DryRun       bool
	Error        error
}

// Reporter receives progress and per-file events
type Reporter interface {
	StartOperation(ctx context.Context, name string, total int)
	Report(ctx context.Context, ev Event)
	FinishOperation(ctx context.Context)
}

// Nop discards everything
type Nop struct{}

func (Nop) StartOperation(ctx context.Context, name string, total int) {}
func (Nop) Report(ctx context.Context, ev Event) {}
func (Nop) FinishOperation(ctx context.Context) {}

// 📋 Recorder keeps every event in memory
type Recorder struct {
	mu     sync.RWMutex
	events []Event

	// Progress tracking
	operation string
	total     int
	processed int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) StartOperation(ctx context.Context, name string, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operation = name
	r.total = total
	r.processed = 0
}

func (r *Recorder) Report(ctx context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	r.processed++
}

func (r *Recorder) FinishOperation(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operation = ""
}

// Events returns a copy of everything reported so far
func (r *Recorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Progress returns the processed and total counts of the current operation
func (r *Recorder) Progress() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processed, r.total
}

// Counts tallies events by status
func (r *Recorder) Counts() map[FileStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[FileStatus]int)
	for _, ev := range r.events {
		out[ev.Status]++
	}
	return out
}

// Paths lists the reported paths with the given status, sorted
func (r *Recorder) Paths(s FileStatus) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, ev := range r.events {
		if ev.Status == s {
			out = append(out, ev.Path)
		}
	}
	sort.Strings(out)
	return out
}

// Multi fans events out to several reporters
type Multi []Reporter

func (m Multi) StartOperation(ctx context.Context, name string, total int) {
	for _, r := range m {
		r.StartOperation(ctx, name, total)
	}
}

func (m Multi) Report(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Report(ctx, ev)
	}
}

func (m Multi) FinishOperation(ctx context.Context) {
	for _, r := range m {
		r.FinishOperation(ctx)
	}
}
