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

// Package source fetches serialized datasets for a host and feeds them into a dataset.Store.
// Nothing in the replacement core does I/O; this package is where it happens.
package source

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
)

// ErrNoSource is returned when every configured source failed.
var ErrNoSource = errors.Base("no dataset source could be loaded")

// 🔌 Source produces dataset entries from somewhere outside the process.
type Source interface {
	// Name identifies the source in logs
	Name() string

	// Entries fetches and decodes the dataset
	Entries(ctx context.Context) ([]dataset.Entry, error)
}

// 🎯 LoadWithFallback tries sources in order and loads the first one that yields a valid dataset.
// Each failure is logged; when all fail the store keeps its previous contents and ErrNoSource is
// returned with the last failure attached.
func LoadWithFallback(ctx context.Context, store *dataset.Store, sources ...Source) (Source, error) {
	logger := zerolog.Ctx(ctx)

	if len(sources) == 0 {
		return nil, errors.Errorf("%w: none configured", ErrNoSource)
	}

	var lastErr error
	for _, src := range sources {
		entries, err := src.Entries(ctx)
		if err == nil {
			err = store.Load(ctx, entries)
		}
		if err != nil {
			logger.Warn().Err(err).Str("source", src.Name()).Msg("dataset source failed, trying next")
			lastErr = err
			continue
		}

		logger.Info().
			Str("source", src.Name()).
			Int("entries", store.Len()).
			Msg("dataset loaded")
		return src, nil
	}

	return nil, errors.Errorf("%w: last error: %s", ErrNoSource, lastErr.Error())
}
