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

// Package runctx carries the per-invocation state every component is built
// with: the clock sampled once at start, the logger and the dry-run switch.
package runctx

import (
	"time"

	"github.com/rs/zerolog"
)

// StampLayout names timestamped backups
const StampLayout = "2006-01-02_15-04-05"

// ⏱️ RunContext is created once per invocation and passed to constructors
type RunContext struct {
	local  time.Time
	logger zerolog.Logger
	dryRun bool
}

// Option configures a RunContext
type Option func(*RunContext)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(rc *RunContext) { rc.logger = l }
}

// WithDryRun sets the dry-run switch
func WithDryRun(dryRun bool) Option {
	return func(rc *RunContext) { rc.dryRun = dryRun }
}

// 🏭 New captures now as the single timestamp for the run
func New(now time.Time, opts ...Option) *RunContext {
	rc := &RunContext{
		local:  now.Local(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Now returns the captured local time
func (rc *RunContext) Now() time.Time { return rc.local }

// NowUTC returns the captured time in UTC
func (rc *RunContext) NowUTC() time.Time { return rc.local.UTC() }

// Stamp formats the captured local time for backup names
func (rc *RunContext) Stamp() string { return rc.local.Format(StampLayout) }

func (rc *RunContext) Logger() *zerolog.Logger { return &rc.logger }

func (rc *RunContext) DryRun() bool { return rc.dryRun }
