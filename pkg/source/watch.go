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
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
)

// 👀 Watcher reloads a store whenever one of a set of dataset files changes.
// Failed reloads are logged and leave the store on its previous generation.
type Watcher struct {
	store  *dataset.Store
	source Source
	files  []string

	// Reloaded, when set, receives the outcome of every reload attempt
	Reloaded func(err error)
}

// NewWatcher watches files and reloads store from source when any of them is written.
func NewWatcher(store *dataset.Store, source Source, files ...string) *Watcher {
	return &Watcher{
		store:  store,
		source: source,
		files:  files,
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	// watch directories so editors that replace files by rename are still seen
	watched := map[string]bool{}
	targets := map[string]bool{}
	for _, f := range w.files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Errorf("resolving %s: %w", f, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if watched[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
		watched[dir] = true
	}

	logger.Debug().Strs("files", w.files).Msg("watching dataset files")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !targets[event.Name] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			w.reload(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) reload(ctx context.Context, changed string) {
	logger := zerolog.Ctx(ctx)

	entries, err := w.source.Entries(ctx)
	if err == nil {
		err = w.store.Load(ctx, entries)
	}

	if err != nil {
		logger.Warn().Err(err).Str("file", changed).Msg("dataset reload failed, keeping previous data")
	} else {
		logger.Info().
			Str("file", changed).
			Int("entries", w.store.Len()).
			Uint64("generation", w.store.Snapshot().Generation()).
			Msg("dataset reloaded")
	}

	if w.Reloaded != nil {
		w.Reloaded(err)
	}
}
