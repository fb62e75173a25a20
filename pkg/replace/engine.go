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

package replace

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/dataset"
	"github.com/walteh/kaomoji/pkg/scanner"
	"github.com/walteh/kaomoji/pkg/search"
)

// 🔄 Engine rewrites placeholder tokens into kaomoji.
// ReplaceText only reads the dataset, so any number of calls may run at once, including while the
// dataset reloads; each call works against the generation that was current when it started.
type Engine struct {
	search *search.Engine

	mu       sync.RWMutex
	defaults Options
}

// 🏭 New creates an engine with the given defaults.
func New(searcher *search.Engine, defaults Options) *Engine {
	return &Engine{
		search:   searcher,
		defaults: defaults,
	}
}

// SetConfig replaces the defaults used by ReplaceText.
func (e *Engine) SetConfig(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaults = opts
}

// Config returns the current defaults.
func (e *Engine) Config() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.defaults
}

// ReplaceText rewrites text with the engine defaults.
func (e *Engine) ReplaceText(ctx context.Context, text string) Result {
	return e.ReplaceTextWith(ctx, text, e.Config())
}

// ReplaceMessages rewrites each message with the engine defaults, in order.
func (e *Engine) ReplaceMessages(ctx context.Context, messages []string) []Result {
	opts := e.Config()
	results := make([]Result, len(messages))
	for i, msg := range messages {
		results[i] = e.ReplaceTextWith(ctx, msg, opts)
	}
	return results
}

type span struct {
	start, end int
	with       string
}

// ReplaceTextWith rewrites text with opts.
// Tokens are resolved left to right and every replacement is computed against the offsets of the
// original text, then applied in one pass.
func (e *Engine) ReplaceTextWith(ctx context.Context, text string, opts Options) Result {
	logger := zerolog.Ctx(ctx)

	result := Result{Text: text, Records: []Record{}}
	if text == "" {
		return result
	}

	snap := e.search.Snapshot()
	searchOpts := search.Options{Threshold: opts.Threshold}

	var spans []span
	for tok := range scanner.Scan(text) {
		rec := Record{
			RawKeyword: tok.RawKeyword,
			Start:      tok.Start,
			End:        tok.End,
		}

		var with string
		if winner, ok := pick(opts.Strategy, e.search.SearchIn(snap, tok.RawKeyword, searchOpts)); ok {
			rec.Outcome = Replaced
			rec.Kaomoji = winner.Entry.Kaomoji
			rec.Kind = winner.Kind
			rec.Score = winner.Score
			with = winner.Entry.Kaomoji
			result.SuccessCount++
		} else {
			switch {
			case opts.KeepOriginalOnNotFound:
				rec.Outcome = NotFoundKept
				with = tok.Original
			case opts.MarkNotFound:
				rec.Outcome = NotFoundMarked
				with = MarkerFor(tok.RawKeyword)
			default:
				rec.Outcome = NotFoundRemoved
			}
			result.FailureCount++
		}

		logger.Debug().
			Str("keyword", tok.RawKeyword).
			Int("start", tok.Start).
			Stringer("outcome", rec.Outcome).
			Str("kaomoji", rec.Kaomoji).
			Msg("token resolved")

		result.Records = append(result.Records, rec)
		spans = append(spans, span{start: tok.Start, end: tok.End, with: with})
	}

	if len(spans) == 0 {
		return result
	}

	result.Text = apply(text, spans)
	result.HasReplacements = result.SuccessCount+result.FailureCount > 0

	logger.Debug().
		Int("replaced", result.SuccessCount).
		Int("not_found", result.FailureCount).
		Uint64("generation", snap.Generation()).
		Msg("text processed")

	return result
}

// apply splices spans into text. Spans must be sorted and non-overlapping.
func apply(text string, spans []span) string {
	var b strings.Builder
	grow := len(text)
	for _, s := range spans {
		grow += len(s.with) - (s.end - s.start)
	}
	if grow > 0 {
		b.Grow(grow)
	}

	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		b.WriteString(s.with)
		last = s.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// pick chooses the winning candidate for strategy.
func pick(strategy Strategy, candidates []search.Candidate) (search.Candidate, bool) {
	if len(candidates) == 0 {
		return search.Candidate{}, false
	}

	top := candidates[0]
	if strategy == StrategyFirst || onKeyword(top) {
		return top, true
	}

	for _, c := range candidates[1:] {
		if (c.Kind == search.Fuzzy) != (top.Kind == search.Fuzzy) || c.Score != top.Score {
			break
		}
		if onKeyword(c) {
			return c, true
		}
	}
	return top, true
}

func onKeyword(c search.Candidate) bool {
	return c.MatchedOn == dataset.Normalize(c.Entry.Keyword)
}
