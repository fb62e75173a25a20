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

// Package batch rewrites many files or messages with one replacement engine.
package batch

import (
	"context"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/replace"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Replacer is the part of the replacement engine a Runner drives.
type Replacer interface {
	ReplaceText(ctx context.Context, text string) replace.Result
}

// 📄 FileResult is the outcome for one input file
type FileResult struct {
	Path   string
	Result replace.Result
	// Written is true when the file was rewritten on disk
	Written bool
}

// 🏃 Runner fans work out over a bounded number of goroutines.
// Results always come back in input order.
type Runner struct {
	Engine Replacer
	// Workers bounds concurrency; zero or less means unbounded
	Workers int
	// InPlace writes changed files back to disk
	InPlace bool
	// Progress, when set, is called once per finished file with the count done so far.
	// Calls never overlap.
	Progress func(done, total int)
}

// 🏗️ NewRunner creates a new runner
func NewRunner(engine Replacer, workers int, inPlace bool) *Runner {
	return &Runner{
		Engine:  engine,
		Workers: workers,
		InPlace: inPlace,
	}
}

// group tags the context logger with a fresh run id and bounds the errgroup.
func (r *Runner) group(ctx context.Context) (*errgroup.Group, context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("run", uuid.NewString()).Logger()
	g, gctx := errgroup.WithContext(logger.WithContext(ctx))
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}
	return g, gctx
}

// 💬 Messages replaces tokens in every message.
func (r *Runner) Messages(ctx context.Context, messages []string) ([]replace.Result, error) {
	results := make([]replace.Result, len(messages))

	g, gctx := r.group(ctx)
	for i, msg := range messages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("message %d: %w", i, err)
			}
			results[i] = r.Engine.ReplaceText(gctx, msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// 📁 Files replaces tokens in every file. With InPlace set, files whose text changed are
// rewritten with their original permissions.
func (r *Runner) Files(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	var mu sync.Mutex
	done := 0

	g, gctx := r.group(ctx)
	for i, path := range paths {
		g.Go(func() error {
			res, err := r.file(gctx, path)
			if err != nil {
				return err
			}
			results[i] = res

			if r.Progress != nil {
				mu.Lock()
				done++
				r.Progress(done, len(paths))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zerolog.Ctx(gctx).Debug().Int("files", len(paths)).Bool("in_place", r.InPlace).Msg("batch complete")
	return results, nil
}

func (r *Runner) file(ctx context.Context, path string) (FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileResult{}, errors.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return FileResult{}, errors.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, errors.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	result := r.Engine.ReplaceText(ctx, text)
	out := FileResult{Path: path, Result: result}

	if !r.InPlace || result.Text == text {
		return out, nil
	}

	if err := os.WriteFile(path, []byte(result.Text), info.Mode().Perm()); err != nil {
		return FileResult{}, errors.Errorf("writing %s: %w", path, err)
	}
	out.Written = true

	zerolog.Ctx(ctx).Debug().
		Str("file", path).
		Int("replaced", result.SuccessCount).
		Int("not_found", result.FailureCount).
		Msg("file rewritten")

	return out, nil
}

// 📊 Summary totals a set of results.
type Summary struct {
	Inputs     int
	WithTokens int
	Replaced   int
	NotFound   int
}

// Summarize totals results.
func Summarize(results []replace.Result) Summary {
	s := Summary{Inputs: len(results)}
	for _, r := range results {
		if len(r.Records) > 0 {
			s.WithTokens++
		}
		s.Replaced += r.SuccessCount
		s.NotFound += r.FailureCount
	}
	return s
}
