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

// Package report renders replacement results and search candidates for people.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/kaomoji/pkg/batch"
	"github.com/walteh/kaomoji/pkg/replace"
	"github.com/walteh/kaomoji/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// 🖨️ Printer writes user-facing output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer that writes to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) print(printer pterm.PrefixPrinter, prefix string, msg string) {
	fmt.Fprint(p.out, printer.WithPrefix(pterm.Prefix{Text: prefix, Style: printer.Prefix.Style}).Sprintln(msg))
}

// CandidateRows builds the table rows for a search, header first.
func CandidateRows(candidates []search.Candidate) [][]string {
	rows := [][]string{{"#", "Keyword", "Kaomoji", "Match", "Score", "On"}}
	for i, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Entry.Keyword,
			c.Entry.Kaomoji,
			c.Kind.String(),
			strconv.FormatFloat(c.Score, 'f', 2, 64),
			c.MatchedOn,
		})
	}
	return rows
}

// 🔍 Candidates prints the candidates for query as a table.
func (p *Printer) Candidates(query string, candidates []search.Candidate) error {
	if len(candidates) == 0 {
		p.print(pterm.Warning, "🤷", fmt.Sprintf("no matches for %q", query))
		return nil
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(CandidateRows(candidates)).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(p.out, table)
	return nil
}

// 📊 Result prints the totals of one replacement pass.
func (p *Printer) Result(name string, result replace.Result) {
	msg := fmt.Sprintf("%s: %d replaced, %d not found", name, result.SuccessCount, result.FailureCount)
	switch {
	case result.FailureCount > 0:
		p.print(pterm.Warning, "⚠️", msg)
	case result.HasReplacements:
		p.print(pterm.Success, "✅", msg)
	default:
		p.print(pterm.Info, "👍", name+": no placeholders")
	}
}

// Summary prints the totals across a batch.
func (p *Printer) Summary(sum batch.Summary) {
	p.print(pterm.Info, "📦", fmt.Sprintf("%d inputs, %d with placeholders, %d replaced, %d not found",
		sum.Inputs, sum.WithTokens, sum.Replaced, sum.NotFound))
}

// FormatProgress formats a progress message with percentage.
func FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// Progress prints FormatProgress.
func (p *Printer) Progress(current, total int) {
	fmt.Fprintln(p.out, FormatProgress(current, total))
}

// ✅ Validation prints the outcome of loading a dataset.
func (p *Printer) Validation(source string, entries int, err error) {
	if err != nil {
		p.print(pterm.Error, "❌", fmt.Sprintf("%s: %v", source, err))
		return
	}
	p.print(pterm.Success, "✅", fmt.Sprintf("%s: %d entries", source, entries))
}
