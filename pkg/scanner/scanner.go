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

// Package scanner finds [kaomoji:keyword] placeholder tokens in text.
// Scanning is purely lexical; no dataset is consulted.
package scanner

import (
	"iter"
	"slices"
	"strings"
)

const (
	// Prefix opens a token
	Prefix = "[kaomoji:"
	// Suffix closes a token
	Suffix = "]"
)

// 🪙 Token is one placeholder found in a source text.
// Start and End are byte offsets into the source, half-open.
type Token struct {
	RawKeyword string
	Start      int
	End        int
	Original   string
}

// Scan yields the tokens in text from left to right. Tokens never overlap.
// An unterminated prefix is not a token and scanning resumes right after it; "[kaomoji:]" with an
// empty keyword is not a token either. The sequence is lazy and can be ranged over repeatedly.
func Scan(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for pos < len(text) {
			rel := strings.Index(text[pos:], Prefix)
			if rel < 0 {
				return
			}
			start := pos + rel
			bodyStart := start + len(Prefix)

			closing := strings.Index(text[bodyStart:], Suffix)
			if closing < 0 {
				// no closing bracket anywhere further on, so no later prefix can close either
				return
			}
			end := bodyStart + closing + len(Suffix)

			if closing == 0 {
				pos = end
				continue
			}

			tok := Token{
				RawKeyword: text[bodyStart : bodyStart+closing],
				Start:      start,
				End:        end,
				Original:   text[start:end],
			}
			if !yield(tok) {
				return
			}
			pos = end
		}
	}
}

// Tokens collects Scan into a slice.
func Tokens(text string) []Token {
	return slices.Collect(Scan(text))
}

// Contains reports whether text holds at least one token.
func Contains(text string) bool {
	for range Scan(text) {
		return true
	}
	return false
}

// Format renders keyword as a token.
func Format(keyword string) string {
	return Prefix + keyword + Suffix
}
