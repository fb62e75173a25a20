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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/replace"
	"github.com/walteh/kaomoji/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidConfig marks a configuration that parsed but failed validation.
var ErrInvalidConfig = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 ReplaceArgs holds the engine defaults
type ReplaceArgs struct {
	Strategy               string  `json:"strategy,omitempty" yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	KeepOriginalOnNotFound *bool   `json:"keep_original_on_not_found,omitempty" yaml:"keep_original_on_not_found,omitempty" toml:"keep_original_on_not_found,omitempty"`
	MarkNotFound           bool    `json:"mark_not_found,omitempty" yaml:"mark_not_found,omitempty" toml:"mark_not_found,omitempty"`
	Threshold              float64 `json:"threshold,omitempty" yaml:"threshold,omitempty" toml:"threshold,omitempty"`
}

// 📦 GitHubArgs points at a dataset file inside a GitHub repository
type GitHubArgs struct {
	Repo string `json:"repo" yaml:"repo" toml:"repo"`                            // owner/name
	Ref  string `json:"ref,omitempty" yaml:"ref,omitempty" toml:"ref,omitempty"` // Branch or tag
	Path string `json:"path" yaml:"path" toml:"path"`                            // Path within repo
}

// 📚 DatasetArgs lists where the dataset comes from, in the order they are tried
type DatasetArgs struct {
	Files    []string    `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`          // doublestar globs
	GitHub   *GitHubArgs `json:"github,omitempty" yaml:"github,omitempty" toml:"github,omitempty"`       // remote source
	Fallback string      `json:"fallback,omitempty" yaml:"fallback,omitempty" toml:"fallback,omitempty"` // tried last
	Watch    bool        `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch,omitempty"`          // reload files on change
	Cache    string      `json:"cache,omitempty" yaml:"cache,omitempty" toml:"cache,omitempty"`          // bbolt file holding the last good remote dataset
}

// 📚 Config represents the complete configuration
type Config struct {
	Replace ReplaceArgs `json:"replace" yaml:"replace" toml:"replace"`
	Dataset DatasetArgs `json:"dataset" yaml:"dataset" toml:"dataset"`

	location string
}

// Default returns a validated config with no dataset source.
func Default() *Config {
	keep := true
	return &Config{
		Replace: ReplaceArgs{
			Strategy:               string(replace.StrategyBest),
			KeepOriginalOnNotFound: &keep,
			Threshold:              search.DefaultThreshold,
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func parse(ctx context.Context, path string, data []byte) (*Config, error) {
	// .kaomojirc may hold either YAML or HCL
	if filepath.Base(path) == ".kaomojirc" || filepath.Ext(path) == ".kaomojirc" {
		cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
		if yamlErr == nil {
			return cfg, nil
		}
		cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
		if hclErr == nil {
			return cfg, nil
		}
		return nil, errors.Errorf("failed to parse .kaomojirc as YAML (%v) or HCL: %w", yamlErr, hclErr)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	strategy, err := replace.ParseStrategy(cfg.Replace.Strategy)
	if err != nil {
		return errors.Errorf("%w: replace.strategy: %s", ErrInvalidConfig, err.Error())
	}
	cfg.Replace.Strategy = string(strategy)

	if cfg.Replace.Threshold < 0 || cfg.Replace.Threshold >= 1 {
		return errors.Errorf("%w: replace.threshold must be in [0, 1), got %v", ErrInvalidConfig, cfg.Replace.Threshold)
	}
	if cfg.Replace.Threshold == 0 {
		cfg.Replace.Threshold = search.DefaultThreshold
	}

	if cfg.Replace.KeepOriginalOnNotFound == nil {
		keep := true
		cfg.Replace.KeepOriginalOnNotFound = &keep
	}

	for i, pattern := range cfg.Dataset.Files {
		if strings.TrimSpace(pattern) == "" {
			return errors.Errorf("%w: dataset.files[%d] is empty", ErrInvalidConfig, i)
		}
	}

	if gh := cfg.Dataset.GitHub; gh != nil {
		if gh.Repo == "" {
			return errors.Errorf("%w: dataset.github.repo is required", ErrInvalidConfig)
		}
		if gh.Path == "" {
			return errors.Errorf("%w: dataset.github.path is required", ErrInvalidConfig)
		}
		if gh.Ref == "" {
			gh.Ref = "main"
		}
	}

	return nil
}

// Options converts the replace section into engine options. Call after Validate.
func (cfg *Config) Options() replace.Options {
	strategy, _ := replace.ParseStrategy(cfg.Replace.Strategy)
	keep := cfg.Replace.KeepOriginalOnNotFound == nil || *cfg.Replace.KeepOriginalOnNotFound
	return replace.Options{
		Strategy:               strategy,
		KeepOriginalOnNotFound: keep,
		MarkNotFound:           cfg.Replace.MarkNotFound,
		Threshold:              cfg.Replace.Threshold,
	}
}

// HasDataset reports whether any dataset source is configured.
func (cfg *Config) HasDataset() bool {
	return len(cfg.Dataset.Files) > 0 || cfg.Dataset.GitHub != nil || cfg.Dataset.Fallback != ""
}

// Resolve makes a dataset path relative to the config file's directory.
func (cfg *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || cfg.location == "" {
		return path
	}
	return filepath.Join(filepath.Dir(cfg.location), path)
}

// Location is the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	sources := len(cfg.Dataset.Files)
	if cfg.Dataset.GitHub != nil {
		sources++
	}
	if cfg.Dataset.Fallback != "" {
		sources++
	}
	return fmt.Sprintf("strategy=%s threshold=%.2f sources=%d", cfg.Replace.Strategy, cfg.Replace.Threshold, sources)
}
