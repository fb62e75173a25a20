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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/kaomoji/pkg/config"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
)

func TestCache_SaveLoad(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "nested", "cache.db"))
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, _, ok, err := cache.Load("github:o/r/k.json@main")
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should report nothing saved")

	entries := []dataset.Entry{{Keyword: "happy", Kaomoji: "(^_^)", Aliases: []string{"glad"}}}
	require.NoError(t, cache.Save("github:o/r/k.json@main", entries, at))

	got, savedAt, ok, err := cache.Load("github:o/r/k.json@main")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entries, got)
	assert.True(t, at.Equal(savedAt))

	_, _, ok, err = cache.Load("github:o/r/other.json@main")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedSource(t *testing.T) {
	good := []dataset.Entry{{Keyword: "happy", Kaomoji: "(^_^)"}}
	invalid := []dataset.Entry{{Keyword: "happy"}}

	tests := []struct {
		name       string
		seed       []dataset.Entry
		entries    []dataset.Entry
		fetchErr   error
		want       []dataset.Entry
		wantErr    string
		wantCached bool
	}{
		{
			name:       "fresh_fetch_is_cached",
			entries:    good,
			want:       good,
			wantCached: true,
		},
		{
			name:       "serves_cache_on_failure",
			seed:       good,
			fetchErr:   errors.New("rate limit exceeded"),
			want:       good,
			wantCached: true,
		},
		{
			name:     "no_cache_returns_error",
			fetchErr: errors.New("rate limit exceeded"),
			wantErr:  "rate limit",
		},
		{
			name:    "invalid_fetch_without_cache_fails",
			entries: invalid,
			wantErr: "fetched dataset is invalid",
		},
		{
			name:       "invalid_fetch_serves_cache",
			seed:       good,
			entries:    invalid,
			want:       good,
			wantCached: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(filepath.Join(t.TempDir(), "cache.db"))
			if tt.seed != nil {
				require.NoError(t, cache.Save("remote", tt.seed, time.Now()))
			}

			inner := newMockSource("remote", tt.entries, tt.fetchErr)
			src := cache.Wrap(inner)
			assert.Equal(t, "remote", src.Name())

			got, err := src.Entries(testContext(t))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			_, _, ok, err := cache.Load("remote")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCached, ok)

			inner.AssertExpectations(t)
		})
	}
}

func TestCachedSource_InvalidFetchBeatsFallback(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, cache.Save("remote", []dataset.Entry{{Keyword: "happy", Kaomoji: "(^_^)"}}, time.Now()))

	remote := cache.Wrap(newMockSource("remote", []dataset.Entry{{Keyword: "happy"}}, nil))
	fallback := newMockSource("fallback", []dataset.Entry{{Keyword: "sad", Kaomoji: "(T_T)"}}, nil)

	store := dataset.New()
	src, err := LoadWithFallback(testContext(t), store, remote, fallback)
	require.NoError(t, err)
	assert.Equal(t, "remote", src.Name())

	entry, ok := store.LookupExact("happy")
	require.True(t, ok)
	assert.Equal(t, "(^_^)", entry.Kaomoji)
	fallback.AssertNotCalled(t, "Entries", mock.Anything)
}

func TestFromConfig_Cache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
dataset:
  github:
    repo: walteh/kaomoji-data
    path: kaomoji.json
  cache: .cache/kaomoji.db
`)

	cfg, err := config.Load(testContext(t), path)
	require.NoError(t, err)

	sources, err := FromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	cached, ok := sources[0].(*CachedSource)
	require.True(t, ok, "github source should be wrapped by the cache")
	assert.Equal(t, filepath.Join(dir, ".cache", "kaomoji.db"), cached.cache.Path)
	assert.Equal(t, "github:walteh/kaomoji-data/kaomoji.json@main", cached.Name())
}
