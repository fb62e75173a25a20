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
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// 😺 Entry is one keyword to kaomoji record.
// Entries are immutable once handed to a Store; callers must not modify the slices.
type Entry struct {
	Keyword string   `json:"keyword" yaml:"keyword" toml:"keyword"`
	Kaomoji string   `json:"kaomoji" yaml:"kaomoji" toml:"kaomoji"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// 🔤 Normalize folds s into the form used for index keys: NFKC, case folded, trimmed.
func Normalize(s string) string {
	// cases.Caser is stateful, so a fresh one per call
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(s)))
}

// Keys returns the normalized keyword followed by the normalized aliases, in declaration order.
// Empty aliases are dropped.
func (e Entry) Keys() []string {
	keys := make([]string, 0, 1+len(e.Aliases))
	keys = append(keys, Normalize(e.Keyword))
	for _, alias := range e.Aliases {
		if key := Normalize(alias); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (e Entry) clone() Entry {
	out := e
	if e.Aliases != nil {
		out.Aliases = append([]string(nil), e.Aliases...)
	}
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	return out
}
