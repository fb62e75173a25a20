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
	"strings"

	"github.com/walteh/kaomoji/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// 🧭 Strategy picks the winning candidate for a token.
// Every strategy applies exactly one kaomoji per token. First takes the top ranked candidate.
// Best looks at the candidates tied with it and prefers one that matched on its own keyword over
// one that matched on an alias or tag. All behaves like best.
type Strategy string

const (
	StrategyFirst Strategy = "first"
	StrategyBest  Strategy = "best"
	StrategyAll   Strategy = "all"
)

// ParseStrategy reads a strategy name, case-insensitively. Empty selects StrategyBest.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyBest:
		return StrategyBest, nil
	case StrategyFirst:
		return StrategyFirst, nil
	case StrategyAll:
		return StrategyAll, nil
	default:
		return "", errors.Errorf("unknown strategy %q", s)
	}
}

// ⚙️ Options controls one replacement pass.
//
// The pass is not repeated over its own output. Removing an unmatched token joins the text on
// either side, and that text can spell a new token, so the output is only free of tokens when
// every token was replaced.
type Options struct {
	Strategy Strategy
	// KeepOriginalOnNotFound leaves unmatched tokens verbatim
	KeepOriginalOnNotFound bool
	// MarkNotFound rewrites unmatched tokens to [?keyword] when they are not kept
	MarkNotFound bool
	// Threshold is handed to the search engine; zero selects search.DefaultThreshold
	Threshold float64
}

// DefaultOptions keeps unmatched tokens and uses the best strategy.
func DefaultOptions() Options {
	return Options{
		Strategy:               StrategyBest,
		KeepOriginalOnNotFound: true,
		Threshold:              search.DefaultThreshold,
	}
}

// 📋 Outcome is what happened to one token.
type Outcome int

const (
	Replaced Outcome = iota
	NotFoundKept
	NotFoundMarked
	NotFoundRemoved
)

func (o Outcome) String() string {
	switch o {
	case Replaced:
		return "replaced"
	case NotFoundKept:
		return "not_found_kept"
	case NotFoundMarked:
		return "not_found_marked"
	case NotFoundRemoved:
		return "not_found_removed"
	default:
		return "unknown"
	}
}

// Record describes one token's outcome. Kaomoji and Score are only set when replaced; Kind is
// search.None otherwise.
type Record struct {
	RawKeyword string
	Outcome    Outcome
	Kaomoji    string
	Kind       search.MatchKind
	Score      float64
	// Start and End locate the token in the input text
	Start int
	End   int
}

// 📊 Result is the output of one replacement pass.
type Result struct {
	Text            string
	HasReplacements bool
	SuccessCount    int
	FailureCount    int
	Records         []Record
}

// MarkerFor renders the not-found marker for a raw keyword.
func MarkerFor(rawKeyword string) string {
	return "[?" + rawKeyword + "]"
}
