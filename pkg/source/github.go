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
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
)

// ContentsClient is the slice of the GitHub API the source needs
type ContentsClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// 🐙 GitHubSource fetches a dataset file from a GitHub repository at a ref.
type GitHubSource struct {
	client ContentsClient
	owner  string
	repo   string
	ref    string
	path   string
}

// NewGitHubClient creates a client that authenticates with GITHUB_TOKEN when it is set.
func NewGitHubClient() *github.Client {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// NewGitHubSource creates a source for path in repo ("owner/name") at ref.
// A nil client selects NewGitHubClient.
func NewGitHubSource(client *github.Client, repo, ref, path string) (*GitHubSource, error) {
	if client == nil {
		client = NewGitHubClient()
	}
	return newGitHubSource(client.Repositories, repo, ref, path)
}

func newGitHubSource(client ContentsClient, repo, ref, path string) (*GitHubSource, error) {
	if repo == "" {
		return nil, errors.Errorf("empty repository name")
	}

	parts := strings.Split(repo, "/")
	if len(parts) != 2 {
		return nil, errors.Errorf("invalid repository name: %s", repo)
	}

	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if owner == "" || name == "" {
		return nil, errors.Errorf("invalid repository name: %s", repo)
	}

	if path == "" {
		return nil, errors.Errorf("empty dataset path")
	}

	return &GitHubSource{
		client: client,
		owner:  owner,
		repo:   name,
		ref:    ref,
		path:   path,
	}, nil
}

func (s *GitHubSource) Name() string {
	name := "github:" + s.owner + "/" + s.repo + "/" + s.path
	if s.ref != "" {
		name += "@" + s.ref
	}
	return name
}

func (s *GitHubSource) Entries(ctx context.Context) ([]dataset.Entry, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("source", s.Name()).Msg("fetching dataset")

	format, err := dataset.DetectFormat(s.path)
	if err != nil {
		return nil, errors.Errorf("detecting format of %s: %w", s.path, err)
	}

	var opts *github.RepositoryContentGetOptions
	if s.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: s.ref}
	}

	file, _, resp, err := s.client.GetContents(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("dataset %s not found: %w", s.Name(), err)
		}
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			return nil, errors.Errorf("rate limit exceeded: %w", err)
		}
		return nil, errors.Errorf("getting contents: %w", err)
	}
	if file == nil {
		return nil, errors.Errorf("%s is a directory, not a dataset file", s.path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding contents: %w", err)
	}

	entries, err := dataset.Decode(ctx, []byte(content), format)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", s.Name(), err)
	}
	return entries, nil
}
