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

package log

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/status"
)

// 🖥️ Logger prints operation progress to a console and mirrors every
// event to zerolog. It implements status.Reporter.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex

	operation string
	counts    map[status.FileStatus]int
}

var _ status.Reporter = (*Logger)(nil)

func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		counts:  map[status.FileStatus]int{},
	}
}

func (l *Logger) StartOperation(ctx context.Context, name string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operation = name
	l.counts = map[status.FileStatus]int{}

	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(name),
		color.New(color.Faint).Sprintf("• %d item(s)", total))

	l.zlog.Info().Str("operation", name).Int("total", total).Msg("starting operation")
}

func (l *Logger) Report(ctx context.Context, ev status.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts[ev.Status]++
	fmt.Fprintln(l.console, status.FormatColumns(ev))

	zev := l.zlog.Info()
	if ev.Error != nil {
		zev = l.zlog.Warn().Err(ev.Error)
	}
	zev.
		Str("operation", ev.Operation).
		Str("name", ev.Name).
		Str("path", ev.Path).
		Str("status", ev.Status.String()).
		Str("backup", ev.Backup).
		Int("replacements", ev.Replacements).
		Bool("dry_run", ev.DryRun).
		Msg("file operation")
}

func (l *Logger) FinishOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.operation == "" {
		return
	}

	fmt.Fprintf(l.console, "%s\n\n", color.New(color.Faint).Sprint(summary(l.counts)))
	l.zlog.Info().Str("operation", l.operation).Msg("operation complete")
	l.operation = ""
}

func summary(counts map[status.FileStatus]int) string {
	if len(counts) == 0 {
		return "nothing to do"
	}
	keys := make([]status.FileStatus, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return strings.Join(parts, ", ")
}

func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("projsync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
