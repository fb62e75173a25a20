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

package source

import (
	"github.com/walteh/kaomoji/pkg/config"
)

// FromConfig builds the sources named by cfg in the order they should be tried: files, then
// GitHub, then the fallback file. With dataset.cache set the GitHub source is served from the
// cache when it cannot be reached.
func FromConfig(cfg *config.Config) ([]Source, error) {
	var sources []Source

	if len(cfg.Dataset.Files) > 0 {
		patterns := make([]string, 0, len(cfg.Dataset.Files))
		for _, p := range cfg.Dataset.Files {
			patterns = append(patterns, cfg.Resolve(p))
		}
		sources = append(sources, NewGlobSource(patterns...))
	}

	if gh := cfg.Dataset.GitHub; gh != nil {
		src, err := NewGitHubSource(nil, gh.Repo, gh.Ref, gh.Path)
		if err != nil {
			return nil, err
		}
		if cfg.Dataset.Cache != "" {
			sources = append(sources, NewCache(cfg.Resolve(cfg.Dataset.Cache)).Wrap(src))
		} else {
			sources = append(sources, src)
		}
	}

	if cfg.Dataset.Fallback != "" {
		sources = append(sources, NewFileSource(cfg.Resolve(cfg.Dataset.Fallback)))
	}

	return sources, nil
}

// WatchedFiles lists the local files a Watcher should follow for cfg.
func WatchedFiles(cfg *config.Config) ([]string, error) {
	if len(cfg.Dataset.Files) == 0 {
		return nil, nil
	}
	patterns := make([]string, 0, len(cfg.Dataset.Files))
	for _, p := range cfg.Dataset.Files {
		patterns = append(patterns, cfg.Resolve(p))
	}
	return NewGlobSource(patterns...).Files()
}
