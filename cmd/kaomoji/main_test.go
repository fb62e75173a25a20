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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `[
  {"keyword": "happy", "kaomoji": "(^_^)", "aliases": ["glad"]},
  {"keyword": "sad", "kaomoji": "(T_T)"},
  {"keyword": "shrug", "kaomoji": "¯\\_(ツ)_/¯"}
]`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReplaceCommand(t *testing.T) {
	dataset := writeFile(t, filepath.Join(t.TempDir(), "kaomoji.json"), testDataset)

	tests := []struct {
		name        string
		args        []string
		stdin       string
		want        string
		wantErr     bool
		errContains string
	}{
		{
			name:  "stdin_keeps_unmatched",
			args:  []string{"replace"},
			stdin: "hi [kaomoji:happy] and [kaomoji:zzz]",
			want:  "hi (^_^) and [kaomoji:zzz]",
		},
		{
			name:  "alias",
			args:  []string{"replace"},
			stdin: "[kaomoji:glad]",
			want:  "(^_^)",
		},
		{
			name:  "mark_unmatched",
			args:  []string{"replace", "--mark"},
			stdin: "[kaomoji:zzz]!",
			want:  "[?zzz]!",
		},
		{
			name:  "remove_unmatched",
			args:  []string{"replace", "--keep=false"},
			stdin: "a [kaomoji:zzz] b",
			want:  "a  b",
		},
		{
			name:  "verbose_does_not_change_output",
			args:  []string{"replace", "-v", "--strategy", "first"},
			stdin: "[kaomoji:sad]",
			want:  "(T_T)",
		},
		{
			name:  "stream",
			args:  []string{"replace", "--stream"},
			stdin: "one [kaomoji:happy]\ntwo [kaomoji:shrug]\n",
			want:  "one (^_^)\ntwo ¯\\_(ツ)_/¯\n",
		},
		{
			name:        "bad_strategy",
			args:        []string{"replace", "--strategy", "random"},
			wantErr:     true,
			errContains: "unknown strategy",
		},
		{
			name:        "bad_threshold",
			args:        []string{"replace", "--threshold", "1.5"},
			wantErr:     true,
			errContains: "--threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.stdin, append([]string{"--dataset", dataset}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestReplaceCommand_ConsoleLog(t *testing.T) {
	dataset := writeFile(t, filepath.Join(t.TempDir(), "kaomoji.json"), testDataset)

	t.Run("verbose_records", func(t *testing.T) {
		out, errOut, err := execute(t, "[kaomoji:happy]", "--dataset", dataset, "replace", "-v")
		require.NoError(t, err)
		assert.Equal(t, "(^_^)", out)
		assert.Contains(t, errOut, "[replacing ")
		assert.Contains(t, errOut, "1 replaced, 0 not found")
	})

	t.Run("stream_watch", func(t *testing.T) {
		out, errOut, err := execute(t, "[kaomoji:sad]\n", "--dataset", dataset, "replace", "--stream", "--watch")
		require.NoError(t, err)
		assert.Equal(t, "(T_T)\n", out)
		assert.Contains(t, errOut, "watching 1 dataset files")
	})
}

func TestReplaceCommand_Files(t *testing.T) {
	dir := t.TempDir()
	dataset := writeFile(t, filepath.Join(dir, "data", "kaomoji.json"), testDataset)
	a := writeFile(t, filepath.Join(dir, "a.md"), "A [kaomoji:happy]\n")
	b := writeFile(t, filepath.Join(dir, "b.md"), "B [kaomoji:sad]\n")

	t.Run("print", func(t *testing.T) {
		out, _, err := execute(t, "", "--dataset", dataset, "replace", a, b)
		require.NoError(t, err)
		assert.Equal(t, "A (^_^)\nB (T_T)\n", out)

		data, err := os.ReadFile(a)
		require.NoError(t, err)
		assert.Equal(t, "A [kaomoji:happy]\n", string(data), "files should be untouched without --in-place")
	})

	t.Run("verbose", func(t *testing.T) {
		_, errOut, err := execute(t, "", "--dataset", dataset, "replace", "-v", a, b)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(errOut, "[replacing "))
		assert.Contains(t, errOut, "\n\n", "inputs should be separated by a blank line")
	})

	t.Run("in_place", func(t *testing.T) {
		out, errOut, err := execute(t, "", "--dataset", dataset, "replace", "-i", a, b)
		require.NoError(t, err)
		assert.Contains(t, out, "Progress: 1/2 (50%)")
		assert.Contains(t, out, "Progress: 2/2 (100%)")
		assert.Contains(t, out, "2 inputs, 2 with placeholders, 2 replaced, 0 not found")
		assert.Contains(t, errOut, "replacing placeholders in 2 files")
		assert.Contains(t, errOut, "2 of 2 files rewritten")

		data, err := os.ReadFile(b)
		require.NoError(t, err)
		assert.Equal(t, "B (T_T)\n", string(data))
	})

	t.Run("missing_file", func(t *testing.T) {
		_, _, err := execute(t, "", "--dataset", dataset, "replace", filepath.Join(dir, "nope.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope.md")
	})
}

func TestReplaceCommand_Config(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "kaomoji.json"), testDataset)
	cfg := writeFile(t, filepath.Join(dir, "kaomoji.yaml"), `
replace:
  strategy: best
  keep_original_on_not_found: false
  mark_not_found: true
dataset:
  files: ["data/*.json"]
`)

	out, _, err := execute(t, "[kaomoji:happy] [kaomoji:zzz]", "-c", cfg, "replace")
	require.NoError(t, err)
	assert.Equal(t, "(^_^) [?zzz]", out)

	t.Run("flags_override_config", func(t *testing.T) {
		out, _, err := execute(t, "[kaomoji:zzz]", "-c", cfg, "replace", "--keep")
		require.NoError(t, err)
		assert.Equal(t, "[kaomoji:zzz]", out)
	})

	t.Run("missing_explicit_config", func(t *testing.T) {
		_, _, err := execute(t, "", "-c", filepath.Join(dir, "missing.yaml"), "replace")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})

	t.Run("invalid_config", func(t *testing.T) {
		bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "replace:\n  strategy: loudest\n")
		_, _, err := execute(t, "", "-c", bad, "replace")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}

func TestReplaceCommand_NoDataset(t *testing.T) {
	_, _, err := execute(t, "[kaomoji:happy]", "replace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none configured")
}

func TestSearchCommand(t *testing.T) {
	dataset := writeFile(t, filepath.Join(t.TempDir(), "kaomoji.json"), testDataset)

	out, _, err := execute(t, "", "--dataset", dataset, "search", "glad")
	require.NoError(t, err)
	assert.Contains(t, out, "happy")
	assert.Contains(t, out, "alias")

	out, _, err = execute(t, "", "--dataset", dataset, "search", "--exact", "qqqq")
	require.NoError(t, err)
	assert.Contains(t, out, `no matches for "qqqq"`)

	_, _, err = execute(t, "", "--dataset", dataset, "search")
	require.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.json"), testDataset)
	writeFile(t, filepath.Join(dir, "broken", "bad.json"), `[{"keyword": "happy"}]`)

	out, errOut, err := execute(t, "", "--dataset", good, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "3 entries")
	assert.Contains(t, errOut, "all 1 dataset sources are valid")

	cfg := writeFile(t, filepath.Join(dir, "kaomoji.yaml"), `
dataset:
  files: ["broken/*.json"]
  fallback: good.json
`)
	out, errOut, err = execute(t, "", "-c", cfg, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 dataset sources failed")
	assert.Contains(t, out, "good.json: 3 entries")
	assert.Contains(t, errOut, "1 of 2 dataset sources failed")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version", "--json")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Version)

	out, _, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kaomoji version info")
}
