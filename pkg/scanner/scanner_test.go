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

package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "no_tokens",
			text: "hello there [not a token]",
			want: nil,
		},
		{
			name: "single",
			text: "hi [kaomoji:happy] there",
			want: []Token{
				{RawKeyword: "happy", Start: 3, End: 18, Original: "[kaomoji:happy]"},
			},
		},
		{
			name: "adjacent",
			text: "[kaomoji:a][kaomoji:b]",
			want: []Token{
				{RawKeyword: "a", Start: 0, End: 11, Original: "[kaomoji:a]"},
				{RawKeyword: "b", Start: 11, End: 22, Original: "[kaomoji:b]"},
			},
		},
		{
			name: "keyword_keeps_spacing_and_case",
			text: "[kaomoji: Very Happy ]",
			want: []Token{
				{RawKeyword: " Very Happy ", Start: 0, End: 22, Original: "[kaomoji: Very Happy ]"},
			},
		},
		{
			name: "unterminated_is_skipped",
			text: "[kaomoji:foo",
			want: nil,
		},
		{
			name: "unterminated_after_token",
			text: "[kaomoji:a] and [kaomoji:b",
			want: []Token{
				{RawKeyword: "a", Start: 0, End: 11, Original: "[kaomoji:a]"},
			},
		},
		{
			name: "keyword_runs_to_first_closing_bracket",
			text: "[kaomoji:foo [kaomoji:bar]",
			want: []Token{
				{RawKeyword: "foo [kaomoji:bar", Start: 0, End: 26, Original: "[kaomoji:foo [kaomoji:bar]"},
			},
		},
		{
			name: "empty_keyword_is_skipped",
			text: "[kaomoji:][kaomoji:sad]",
			want: []Token{
				{RawKeyword: "sad", Start: 10, End: 23, Original: "[kaomoji:sad]"},
			},
		},
		{
			name: "prefix_is_case_sensitive",
			text: "[KAOMOJI:happy]",
			want: nil,
		},
		{
			name: "multibyte_offsets_are_bytes",
			text: "é[kaomoji:猫]",
			want: []Token{
				{RawKeyword: "猫", Start: 2, End: 15, Original: "[kaomoji:猫]"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.text)
			assert.Equal(t, tt.want, got)
			for _, tok := range got {
				assert.Equal(t, tok.Original, tt.text[tok.Start:tok.End], "span should match original text")
			}
		})
	}
}

func TestScan_Restartable(t *testing.T) {
	seq := Scan("[kaomoji:a] [kaomoji:b] [kaomoji:c]")

	var first, second []string
	for tok := range seq {
		first = append(first, tok.RawKeyword)
	}
	for tok := range seq {
		second = append(second, tok.RawKeyword)
		if len(second) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a", "b", "c"}, first)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("x [kaomoji:happy] y"))
	assert.False(t, Contains("x [kaomoji:happy y"))
	assert.False(t, Contains(""))
}

func TestFormat(t *testing.T) {
	tok := Format("happy")
	assert.Equal(t, "[kaomoji:happy]", tok)

	got := Tokens(tok)
	require.Len(t, got, 1)
	assert.Equal(t, "happy", got[0].RawKeyword)
}
