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

package dataset

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// 🎯 Hit tells whether a lookup matched an entry's keyword or one of its aliases.
type Hit int

const (
	HitKeyword Hit = iota
	HitAlias
)

func (h Hit) String() string {
	if h == HitAlias {
		return "alias"
	}
	return "keyword"
}

type slot struct {
	pos int
	hit Hit
}

// 📸 Snapshot is one immutable generation of the store.
// It is safe for concurrent use and never changes after it is published.
type Snapshot struct {
	generation uint64
	entries    []Entry
	index      map[string]slot
}

var emptySnapshot = &Snapshot{index: map[string]slot{}}

// Generation counts successful loads; zero means nothing was ever loaded.
func (s *Snapshot) Generation() uint64 { return s.generation }

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Entry returns the entry at load position i.
func (s *Snapshot) Entry(i int) Entry { return s.entries[i] }

// Lookup finds the entry whose keyword or alias normalizes to the same key as keyword.
func (s *Snapshot) Lookup(keyword string) (int, Hit, bool) {
	sl, ok := s.index[Normalize(keyword)]
	if !ok {
		return -1, HitKeyword, false
	}
	return sl.pos, sl.hit, true
}

// LookupExact returns the entry for keyword, if any.
func (s *Snapshot) LookupExact(keyword string) (Entry, bool) {
	pos, _, ok := s.Lookup(keyword)
	if !ok {
		return Entry{}, false
	}
	return s.entries[pos], true
}

// All yields every entry with its load position, in load order.
// The sequence can be ranged over any number of times.
func (s *Snapshot) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range s.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// 📦 Store holds the loaded dataset.
// Loads build a new Snapshot off to the side and swap it in, so readers always see either the
// previous or the next generation in full.
type Store struct {
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes loads
}

// 🏭 New creates an empty store.
func New() *Store {
	s := &Store{}
	s.current.Store(emptySnapshot)
	return s
}

// Snapshot pins the current generation.
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

// LoadFrom decodes data and replaces the store contents.
// On error the previous contents stay in place.
func (st *Store) LoadFrom(ctx context.Context, data []byte, format Format) error {
	entries, err := Decode(ctx, data, format)
	if err != nil {
		return err
	}
	return st.Load(ctx, entries)
}

// Load validates entries and replaces the store contents.
// Records whose keyword or alias collides with an earlier record after normalization lose to the
// earlier one; collisions are logged, not returned.
func (st *Store) Load(ctx context.Context, entries []Entry) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	snap, err := build(ctx, entries)
	if err != nil {
		return err
	}
	snap.generation = st.current.Load().generation + 1
	st.current.Store(snap)

	zerolog.Ctx(ctx).Debug().
		Int("entries", snap.Len()).
		Uint64("generation", snap.generation).
		Msg("dataset loaded")

	return nil
}

// LookupExact is a shortcut for Snapshot().LookupExact.
func (st *Store) LookupExact(keyword string) (Entry, bool) {
	return st.Snapshot().LookupExact(keyword)
}

// All is a shortcut for Snapshot().All. The generation is pinned when All is called.
func (st *Store) All() iter.Seq2[int, Entry] {
	return st.Snapshot().All()
}

// Len is a shortcut for Snapshot().Len.
func (st *Store) Len() int {
	return st.Snapshot().Len()
}

func build(ctx context.Context, entries []Entry) (*Snapshot, error) {
	logger := zerolog.Ctx(ctx)

	for i, e := range entries {
		if Normalize(e.Keyword) == "" {
			return nil, recordError(i, "keyword is required")
		}
		if e.Kaomoji == "" {
			return nil, recordError(i, "kaomoji is required")
		}
	}

	snap := &Snapshot{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]slot, len(entries)),
	}

	for i, e := range entries {
		keys := e.Keys()
		if prior, dup := snap.index[keys[0]]; dup {
			logger.Warn().
				Int("record", i).
				Str("keyword", e.Keyword).
				Str("kept", snap.entries[prior.pos].Keyword).
				Msg("duplicate dataset keyword, keeping the first")
			continue
		}

		pos := len(snap.entries)
		snap.entries = append(snap.entries, e.clone())
		snap.index[keys[0]] = slot{pos: pos, hit: HitKeyword}

		for _, alias := range keys[1:] {
			if prior, dup := snap.index[alias]; dup {
				if prior.pos != pos {
					logger.Warn().
						Int("record", i).
						Str("alias", alias).
						Str("kept", snap.entries[prior.pos].Keyword).
						Msg("duplicate dataset alias, keeping the first")
				}
				continue
			}
			snap.index[alias] = slot{pos: pos, hit: HitAlias}
		}
	}

	return snap, nil
}
