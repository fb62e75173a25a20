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
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
	bolt "go.etcd.io/bbolt"
)

var bucketDatasets = []byte("datasets")

// 🗄️ Cache keeps the last good entries of each source in a bbolt file, so a host can keep
// working when a remote source is unreachable. The database is opened per operation.
type Cache struct {
	Path string
	// Timeout bounds the wait for the file lock
	Timeout time.Duration
}

type cached struct {
	SavedAt time.Time       `json:"saved_at"`
	Entries []dataset.Entry `json:"entries"`
}

// NewCache creates a cache stored at path.
func NewCache(path string) *Cache {
	return &Cache{Path: path, Timeout: time.Second}
}

func (c *Cache) open() (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, errors.Errorf("creating cache directory: %w", err)
	}
	db, err := bolt.Open(c.Path, 0o600, &bolt.Options{Timeout: c.Timeout})
	if err != nil {
		return nil, errors.Errorf("opening cache %s: %w", c.Path, err)
	}
	return db, nil
}

// Save stores entries under name.
func (c *Cache) Save(name string, entries []dataset.Entry, at time.Time) error {
	data, err := json.Marshal(cached{SavedAt: at.UTC(), Entries: entries})
	if err != nil {
		return errors.Errorf("encoding cache record: %w", err)
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDatasets)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return errors.Errorf("writing cache: %w", err)
	}
	return nil
}

// Load returns the entries last saved under name. ok is false when nothing was saved.
func (c *Cache) Load(name string) (entries []dataset.Entry, savedAt time.Time, ok bool, err error) {
	db, err := c.open()
	if err != nil {
		return nil, time.Time{}, false, err
	}
	defer db.Close()

	var data []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDatasets)
		if b == nil {
			return nil
		}
		// bbolt slices are only valid inside the transaction
		if v := b.Get([]byte(name)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, time.Time{}, false, errors.Errorf("reading cache: %w", err)
	}
	if data == nil {
		return nil, time.Time{}, false, nil
	}

	var rec cached
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, time.Time{}, false, errors.Errorf("decoding cache record: %w", err)
	}
	return rec.Entries, rec.SavedAt, true, nil
}

// Wrap returns a source that refreshes the cache on every good fetch of src and serves the
// cached copy when src fails.
func (c *Cache) Wrap(src Source) *CachedSource {
	return &CachedSource{inner: src, cache: c, now: time.Now}
}

// 💾 CachedSource is a Source backed by a Cache.
type CachedSource struct {
	inner Source
	cache *Cache
	now   func() time.Time
}

func (s *CachedSource) Name() string {
	return s.inner.Name()
}

func (s *CachedSource) Entries(ctx context.Context) ([]dataset.Entry, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := s.inner.Entries(ctx)
	if err == nil {
		// only what the store would accept is cached or served
		err = dataset.New().Load(zerolog.Nop().WithContext(ctx), entries)
		if err == nil {
			if serr := s.cache.Save(s.inner.Name(), entries, s.now()); serr != nil {
				logger.Warn().Err(serr).Str("source", s.Name()).Msg("updating dataset cache failed")
			}
			return entries, nil
		}
		err = errors.Errorf("fetched dataset is invalid: %w", err)
	}

	cachedEntries, savedAt, ok, cerr := s.cache.Load(s.inner.Name())
	if cerr != nil {
		logger.Warn().Err(cerr).Str("source", s.Name()).Msg("reading dataset cache failed")
	}
	if !ok {
		return nil, err
	}

	logger.Warn().
		Err(err).
		Str("source", s.Name()).
		Time("saved_at", savedAt).
		Msg("source unavailable, serving cached dataset")
	return cachedEntries, nil
}
