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
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
)

func newTestGitHubClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(server.Client())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return client
}

func serveContent(t *testing.T, wantRef string, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantRef, r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"name":     "kaomoji.json",
			"path":     "data/kaomoji.json",
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		})
		assert.NoError(t, err)
	}
}

func TestNewGitHubSource(t *testing.T) {
	tests := []struct {
		name     string
		repo     string
		ref      string
		path     string
		wantName string
		wantErr  string
	}{
		{name: "valid", repo: "walteh/faces", ref: "main", path: "data/kaomoji.json", wantName: "github:walteh/faces/data/kaomoji.json@main"},
		{name: "no_ref", repo: "walteh/faces", path: "kaomoji.yaml", wantName: "github:walteh/faces/kaomoji.yaml"},
		{name: "trims_spaces", repo: " walteh / faces ", ref: "v1", path: "k.json", wantName: "github:walteh/faces/k.json@v1"},
		{name: "empty_repo", repo: "", path: "k.json", wantErr: "empty repository name"},
		{name: "missing_owner", repo: "/faces", path: "k.json", wantErr: "invalid repository name"},
		{name: "too_many_parts", repo: "a/b/c", path: "k.json", wantErr: "invalid repository name"},
		{name: "empty_path", repo: "walteh/faces", wantErr: "empty dataset path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewGitHubSource(github.NewClient(nil), tt.repo, tt.ref, tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}

func TestGitHubSource_Entries(t *testing.T) {
	t.Run("fetches_and_decodes", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/walteh/faces/contents/data/kaomoji.json",
			serveContent(t, "v2", `[{"keyword": "happy", "kaomoji": "(^_^)", "aliases": ["joy"]}]`))

		src, err := NewGitHubSource(newTestGitHubClient(t, mux), "walteh/faces", "v2", "data/kaomoji.json")
		require.NoError(t, err)

		entries, err := src.Entries(testContext(t))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "happy", entries[0].Keyword)
		assert.Equal(t, []string{"joy"}, entries[0].Aliases)
	})

	t.Run("not_found", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/walteh/faces/contents/missing.json", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
		})

		src, err := NewGitHubSource(newTestGitHubClient(t, mux), "walteh/faces", "main", "missing.json")
		require.NoError(t, err)

		_, err = src.Entries(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("malformed_dataset", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/walteh/faces/contents/k.json", serveContent(t, "main", `[{"keyword": "happy"}`))

		src, err := NewGitHubSource(newTestGitHubClient(t, mux), "walteh/faces", "main", "k.json")
		require.NoError(t, err)

		_, err = src.Entries(testContext(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, dataset.ErrDataFormat))
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		src, err := NewGitHubSource(github.NewClient(nil), "walteh/faces", "main", "k.txt")
		require.NoError(t, err)

		_, err = src.Entries(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dataset extension")
	})

	t.Run("falls_back_to_local_file", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/walteh/faces/contents/k.json", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		remote, err := NewGitHubSource(newTestGitHubClient(t, mux), "walteh/faces", "main", "k.json")
		require.NoError(t, err)

		path := t.TempDir() + "/local.yaml"
		writeFile(t, path, "- keyword: sad\n  kaomoji: (T_T)\n")

		store := dataset.New()
		src, err := LoadWithFallback(testContext(t), store, remote, NewFileSource(path))
		require.NoError(t, err)
		assert.Equal(t, "file:"+path, src.Name())

		_, ok := store.LookupExact("sad")
		assert.True(t, ok)
	})
}
