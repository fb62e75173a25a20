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

package source

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📄 FileSource reads one dataset file; the format comes from the extension.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Entries(ctx context.Context) ([]dataset.Entry, error) {
	return readFile(ctx, s.Path)
}

func readFile(ctx context.Context, path string) ([]dataset.Entry, error) {
	format, err := dataset.DetectFormat(path)
	if err != nil {
		return nil, errors.Errorf("detecting format of %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading dataset file: %w", err)
	}

	entries, err := dataset.Decode(ctx, data, format)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}
	return entries, nil
}

// 🌐 GlobSource reads every file matching a set of doublestar patterns.
// Files are decoded concurrently and their entries concatenated in sorted path order, so the
// earliest path wins duplicate keywords.
type GlobSource struct {
	Patterns []string
	// Workers bounds concurrent reads; zero means one per file
	Workers int
}

// NewGlobSource creates a GlobSource.
func NewGlobSource(patterns ...string) *GlobSource {
	return &GlobSource{Patterns: patterns}
}

func (s *GlobSource) Name() string {
	return "glob:" + strings.Join(s.Patterns, ",")
}

// Files expands the patterns into a sorted, de-duplicated list of paths.
func (s *GlobSource) Files() ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range s.Patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *GlobSource) Entries(ctx context.Context) ([]dataset.Entry, error) {
	logger := zerolog.Ctx(ctx)

	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no dataset files match %v", s.Patterns)
	}

	logger.Debug().Strs("files", files).Msg("reading dataset files")

	parts := make([][]dataset.Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	for i, path := range files {
		g.Go(func() error {
			entries, err := readFile(gctx, path)
			if err != nil {
				return err
			}
			parts[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []dataset.Entry
	for _, part := range parts {
		all = append(all, part...)
	}
	return all, nil
}
