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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/config"
	"github.com/walteh/kaomoji/pkg/dataset"
	"github.com/walteh/kaomoji/pkg/log"
	"github.com/walteh/kaomoji/pkg/replace"
	"github.com/walteh/kaomoji/pkg/report"
	"github.com/walteh/kaomoji/pkg/search"
	"github.com/walteh/kaomoji/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is read when present and --config is not given.
const DefaultConfigFile = ".kaomoji.yaml"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// flags
	ConfigFile string
	Debug      bool
	Datasets   []string

	Config  *config.Config
	Store   *dataset.Store
	Search  *search.Engine
	Replace *replace.Engine
	Logger  *log.Logger
	Printer *report.Printer
}

// Init loads the config and builds the engines over an empty store. Reports go to out and logs
// to console. explicit reports whether the config file was named on the command line; a
// missing default file is not an error.
func (o *RootOpts) Init(ctx context.Context, out, console io.Writer, explicit bool) error {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	o.Logger = log.NewWithZerolog(console, zerolog.Ctx(ctx).Level(level))
	o.Printer = report.NewPrinter(out)

	cfg, err := loadConfig(ctx, o.ConfigFile, explicit)
	if err != nil {
		return err
	}
	o.Config = cfg

	o.Store = dataset.New()
	o.Search = search.New(o.Store)
	o.Replace = replace.New(o.Search, cfg.Options())
	return nil
}

func loadConfig(ctx context.Context, path string, explicit bool) (*config.Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
			return config.Default(), nil
		}
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Sources lists the dataset sources to try. --dataset replaces whatever the config names.
func (o *RootOpts) Sources() ([]source.Source, error) {
	if len(o.Datasets) > 0 {
		return []source.Source{source.NewGlobSource(o.Datasets...)}, nil
	}
	return source.FromConfig(o.Config)
}

// WatchedFiles lists the local dataset files backing the store.
func (o *RootOpts) WatchedFiles() ([]string, error) {
	if len(o.Datasets) > 0 {
		return source.NewGlobSource(o.Datasets...).Files()
	}
	return source.WatchedFiles(o.Config)
}

// LoadDataset fills the store from the first source that works.
func (o *RootOpts) LoadDataset(ctx context.Context) (source.Source, error) {
	sources, err := o.Sources()
	if err != nil {
		return nil, errors.Errorf("building dataset sources: %w", err)
	}

	src, err := source.LoadWithFallback(ctx, o.Store, sources...)
	if err != nil {
		return nil, errors.Errorf("loading dataset: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", src.Name()).
		Int("entries", o.Store.Len()).
		Msg("dataset loaded")
	return src, nil
}
