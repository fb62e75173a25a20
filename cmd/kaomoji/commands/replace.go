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

package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/kaomoji/cmd/kaomoji/opts"
	"github.com/walteh/kaomoji/pkg/batch"
	"github.com/walteh/kaomoji/pkg/log"
	"github.com/walteh/kaomoji/pkg/replace"
	"github.com/walteh/kaomoji/pkg/source"
	"gitlab.com/tozd/go/errors"
)

type replaceFlags struct {
	inPlace   bool
	strategy  string
	keep      bool
	mark      bool
	threshold float64
	verbose   bool
	workers   int
	stream    bool
	watch     bool
}

// NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	flags := &replaceFlags{}

	cmd := &cobra.Command{
		Use:   "replace [files...]",
		Short: "Replace [kaomoji:keyword] placeholders",
		Long: `Replace finds every [kaomoji:keyword] placeholder and swaps it for the best
matching kaomoji from the dataset. With no files it reads stdin and writes stdout.
Unmatched placeholders are kept, marked as [?keyword] or removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := flags.apply(cmd, o.Replace); err != nil {
				return err
			}

			if _, err := o.LoadDataset(ctx); err != nil {
				return err
			}

			switch {
			case flags.stream:
				return runStream(ctx, cmd, o, flags)
			case len(args) == 0:
				return runStdin(ctx, cmd, o, flags)
			default:
				return runFiles(ctx, cmd, o, flags, args)
			}
		},
	}

	cmd.Flags().BoolVarP(&flags.inPlace, "in-place", "i", false, "rewrite files instead of printing them")
	cmd.Flags().StringVarP(&flags.strategy, "strategy", "s", "", "candidate strategy: first, best or all")
	cmd.Flags().BoolVar(&flags.keep, "keep", true, "keep unmatched placeholders as they are")
	cmd.Flags().BoolVar(&flags.mark, "mark", false, "mark unmatched placeholders as [?keyword]")
	cmd.Flags().Float64VarP(&flags.threshold, "threshold", "t", 0, "minimum fuzzy similarity")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every placeholder")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 4, "files processed concurrently")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "replace stdin line by line until EOF")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "reload dataset files on change while streaming")

	return cmd
}

// apply overrides the engine defaults with the flags that were set.
func (f *replaceFlags) apply(cmd *cobra.Command, engine *replace.Engine) error {
	o := engine.Config()

	if cmd.Flags().Changed("strategy") {
		s, err := replace.ParseStrategy(f.strategy)
		if err != nil {
			return errors.Errorf("parsing --strategy: %w", err)
		}
		o.Strategy = s
	}
	if cmd.Flags().Changed("keep") {
		o.KeepOriginalOnNotFound = f.keep
	}
	if cmd.Flags().Changed("mark") {
		o.MarkNotFound = f.mark
		if f.mark && !cmd.Flags().Changed("keep") {
			o.KeepOriginalOnNotFound = false
		}
	}
	if cmd.Flags().Changed("threshold") {
		if f.threshold < 0 || f.threshold >= 1 {
			return errors.Errorf("--threshold must be in [0, 1), got %v", f.threshold)
		}
		o.Threshold = f.threshold
	}

	engine.SetConfig(o)
	return nil
}

func logRecords(ctx context.Context, name string, result replace.Result) {
	logger := log.FromContext(ctx)
	logger.StartInput(ctx, name)
	for _, rec := range result.Records {
		logger.LogRecord(ctx, rec)
	}
	logger.EndInput(ctx, result)
}

func runStdin(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, flags *replaceFlags) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return errors.Errorf("reading stdin: %w", err)
	}

	result := o.Replace.ReplaceText(ctx, string(data))
	if flags.verbose {
		logRecords(ctx, "stdin", result)
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), result.Text); err != nil {
		return errors.Errorf("writing stdout: %w", err)
	}
	return nil
}

func runFiles(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, flags *replaceFlags, paths []string) error {
	logger := log.FromContext(ctx)
	runner := batch.NewRunner(o.Replace, flags.workers, flags.inPlace)
	if flags.inPlace {
		logger.Header(fmt.Sprintf("replacing placeholders in %d files", len(paths)))
		runner.Progress = o.Printer.Progress
	}

	results, err := runner.Files(ctx, paths)
	if err != nil {
		return errors.Errorf("replacing files: %w", err)
	}

	all := make([]replace.Result, 0, len(results))
	written := 0
	for i, res := range results {
		all = append(all, res.Result)
		if res.Written {
			written++
		}
		if flags.verbose {
			if i > 0 {
				logger.LogNewline()
			}
			logRecords(ctx, res.Path, res.Result)
		}
		if flags.inPlace {
			o.Printer.Result(res.Path, res.Result)
			continue
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), res.Result.Text); err != nil {
			return errors.Errorf("writing stdout: %w", err)
		}
	}

	if flags.inPlace {
		sum := batch.Summarize(all)
		o.Printer.Summary(sum)
		if sum.NotFound > 0 {
			logger.Warningf("%d placeholders not found", sum.NotFound)
		}
		logger.Successf("%d of %d files rewritten", written, len(results))
	}
	return nil
}

// runStream replaces one line at a time so a chat pipe sees output as soon as a line ends.
func runStream(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, flags *replaceFlags) error {
	logger := log.FromContext(ctx)

	if flags.watch || o.Config.Dataset.Watch {
		files, err := o.WatchedFiles()
		if err != nil {
			return errors.Errorf("listing dataset files: %w", err)
		}
		if len(files) > 0 {
			sources, err := o.Sources()
			if err != nil {
				return errors.Errorf("building dataset sources: %w", err)
			}
			watcher := source.NewWatcher(o.Store, sources[0], files...)
			watchCtx, cancel := context.WithCancel(ctx)
			stopped := make(chan struct{})
			defer func() {
				cancel()
				<-stopped
			}()
			logger.Infof("watching %d dataset files", len(files))
			go func() {
				defer close(stopped)
				if err := watcher.Run(watchCtx); err != nil {
					logger.Errorf("dataset watcher stopped: %v", err)
				}
			}()
		} else {
			logger.Warning("no local dataset files to watch")
		}
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := cmd.OutOrStdout()

	line := 0
	for scanner.Scan() {
		line++
		result := o.Replace.ReplaceText(ctx, scanner.Text())
		if flags.verbose {
			logRecords(ctx, fmt.Sprintf("line %d", line), result)
		}
		if _, err := fmt.Fprintln(out, result.Text); err != nil {
			return errors.Errorf("writing stdout: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("reading stdin: %w", err)
	}
	return nil
}
