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
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/replace"
)

// 🎨 Display configuration
const (
	recordIndent = 4  // spaces to indent token records
	keywordWidth = 20 // width for the raw keyword
	outcomeWidth = 18 // width for the outcome
)

// 🎯 Logger pairs colored console lines with a zerolog record for every event
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	input   string
	records int
}

// 🏭 New creates a new logger; structured records go to stderr
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger around an existing zerolog logger.
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a logger that discards everything
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return NewWithZerolog(io.Discard, zerolog.Nop())
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRecord formats one token record for display
func formatRecord(rec replace.Record) string {
	var symbol rune
	var symbolColor color.Attribute
	var detail string
	switch rec.Outcome {
	case replace.Replaced:
		symbol = '✓'
		symbolColor = color.FgGreen
		detail = fmt.Sprintf("%s %s", rec.Kaomoji,
			color.New(color.Faint).Sprintf("%s %.2f", rec.Kind, rec.Score))
	case replace.NotFoundMarked:
		symbol = '?'
		symbolColor = color.FgMagenta
		detail = replace.MarkerFor(rec.RawKeyword)
	case replace.NotFoundRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '•'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", recordIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", keywordWidth, rec.RawKeyword),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", outcomeWidth, rec.Outcome)),
		detail)
}

// 📝 LogRecord logs the outcome of one token
func (l *Logger) LogRecord(ctx context.Context, rec replace.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records++
	fmt.Fprintln(l.console, formatRecord(rec))

	ev := l.zlog.Info()
	if rec.Outcome != replace.Replaced {
		ev = l.zlog.Warn()
	}
	ev.
		Str("input", l.input).
		Str("keyword", rec.RawKeyword).
		Stringer("outcome", rec.Outcome).
		Str("kaomoji", rec.Kaomoji).
		Float64("score", rec.Score).
		Int("start", rec.Start).
		Int("end", rec.End).
		Msg("token")
}

// 📝 StartInput prints the header for one input (a file or stdin)
func (l *Logger) StartInput(ctx context.Context, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.input = name
	l.records = 0

	fmt.Fprintf(l.console, "[replacing %s]\n", color.New(color.FgCyan).Sprint(name))
	l.zlog.Debug().Str("input", name).Msg("starting input")
}

// 📝 EndInput logs the totals of the current input
func (l *Logger) EndInput(ctx context.Context, result replace.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.input == "" {
		return
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(l.input),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d replaced, %d not found", result.SuccessCount, result.FailureCount))

	l.zlog.Info().
		Str("input", l.input).
		Int("tokens", l.records).
		Int("replaced", result.SuccessCount).
		Int("not_found", result.FailureCount).
		Msg("input complete")

	l.input = ""
	l.records = 0
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("kaomoji")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
