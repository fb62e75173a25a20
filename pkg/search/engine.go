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

package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/walteh/kaomoji/pkg/dataset"
)

// DefaultThreshold is the fuzzy score a candidate must exceed when Options leaves it unset.
const DefaultThreshold = 0.3

// 🎯 MatchKind says how a candidate was found.
type MatchKind int

const (
	// None is the kind of a record that matched nothing.
	None MatchKind = iota
	Exact
	Alias
	Fuzzy
)

func (k MatchKind) String() string {
	switch k {
	case None:
		return "none"
	case Exact:
		return "exact"
	case Alias:
		return "alias"
	case Fuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// tier groups kinds that always outrank each other; exact and alias hits share the top tier
func (k MatchKind) tier() int {
	if k == Fuzzy {
		return 1
	}
	return 0
}

// 🏷️ Candidate is one ranked search hit.
type Candidate struct {
	Entry dataset.Entry
	// Index is the entry's load position in the snapshot that was searched
	Index int
	Score float64
	Kind  MatchKind
	// MatchedOn is the normalized keyword, alias or tag that produced the score
	MatchedOn string
}

// ⚙️ Options tunes a search.
type Options struct {
	// Threshold is the fuzzy score a candidate must exceed; zero selects DefaultThreshold
	Threshold float64
	// Limit caps the number of candidates; zero means no cap
	Limit int
	// ExactOnly skips the fuzzy stage
	ExactOnly bool
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

// SnapshotSource hands out pinned dataset generations. *dataset.Store satisfies it.
type SnapshotSource interface {
	Snapshot() *dataset.Snapshot
}

// 🔍 Engine ranks dataset entries against a query.
type Engine struct {
	source SnapshotSource
}

// 🏭 New creates a search engine over source.
func New(source SnapshotSource) *Engine {
	return &Engine{source: source}
}

// Snapshot pins the current dataset generation so several searches can share it.
func (e *Engine) Snapshot() *dataset.Snapshot {
	return e.source.Snapshot()
}

// Search ranks the current dataset generation against query.
func (e *Engine) Search(query string, opts Options) []Candidate {
	return e.SearchIn(e.Snapshot(), query, opts)
}

// SearchIn ranks snap against query. An empty dataset or an unmatched query yields no candidates.
// Results are ordered by tier (exact and alias before fuzzy), then score, then load order.
func (e *Engine) SearchIn(snap *dataset.Snapshot, query string, opts Options) []Candidate {
	folded := dataset.Normalize(query)
	q := NormalizeQuery(query)
	if q == "" || snap.Len() == 0 {
		return nil
	}

	var candidates []Candidate

	exactPos := -1
	for _, key := range []string{folded, q} {
		pos, hit, ok := snap.Lookup(key)
		if !ok {
			continue
		}
		kind := Exact
		if hit == dataset.HitAlias {
			kind = Alias
		}
		exactPos = pos
		candidates = append(candidates, Candidate{
			Entry:     snap.Entry(pos),
			Index:     pos,
			Score:     1,
			Kind:      kind,
			MatchedOn: key,
		})
		break
	}

	if !opts.ExactOnly {
		threshold := opts.threshold()
		for pos, entry := range snap.All() {
			if pos == exactPos {
				continue
			}
			score, on := bestScore(q, entry)
			if score > threshold {
				candidates = append(candidates, Candidate{
					Entry:     entry,
					Index:     pos,
					Score:     score,
					Kind:      Fuzzy,
					MatchedOn: on,
				})
			}
		}
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(a.Kind.tier(), b.Kind.tier()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	return candidates
}

func bestScore(q string, entry dataset.Entry) (float64, string) {
	best, on := 0.0, ""
	consider := func(raw string) {
		key := dataset.Normalize(raw)
		if key == "" {
			return
		}
		if s := Similarity(q, key); s > best {
			best, on = s, key
		}
	}

	consider(entry.Keyword)
	for _, alias := range entry.Aliases {
		consider(alias)
	}
	for _, tag := range entry.Tags {
		consider(tag)
	}
	return best, on
}

// NormalizeQuery applies dataset.Normalize and strips leading and trailing punctuation and
// symbols. A query made only of punctuation is kept whole so emoticon keywords stay searchable.
func NormalizeQuery(query string) string {
	folded := dataset.Normalize(query)
	stripped := strings.TrimSpace(strings.TrimFunc(folded, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}))
	if stripped == "" {
		return folded
	}
	return stripped
}
