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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity scores two normalized strings in [0, 1].
// Identical strings score 1 and strings with no rune in common score 0. The score is the best of
// the edit distance ratio, the accent-insensitive subsequence ratio and the word overlap.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	score := levenshtein.Similarity(a, b, nil)
	if s := subsequenceRatio(a, b); s > score {
		score = s
	}
	if s := wordOverlap(a, b); s > score {
		score = s
	}
	return score
}

// subsequenceRatio is len(short)/len(long) when the shorter string appears, in order, inside the
// longer one ignoring case and diacritics.
func subsequenceRatio(a, b string) float64 {
	short, long := a, b
	if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
		short, long = long, short
	}
	if fuzzy.RankMatchNormalizedFold(short, long) < 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(short)) / float64(utf8.RuneCountInString(long))
}

// wordOverlap is the Jaccard index of the two word sets.
func wordOverlap(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) < 2 && len(wb) < 2 {
		// single words are covered by the other measures
		return 0
	}

	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	union := len(wa) + len(wb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func words(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
