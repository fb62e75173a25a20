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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/kaomoji/pkg/dataset"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockSource is a mock implementation of the Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	return m.Called().String(0)
}

func (m *MockSource) Entries(ctx context.Context) ([]dataset.Entry, error) {
	result := m.Called(ctx)
	entries, _ := result.Get(0).([]dataset.Entry)
	return entries, result.Error(1)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func newMockSource(name string, entries []dataset.Entry, err error) *MockSource {
	m := &MockSource{}
	m.On("Name").Return(name).Maybe()
	m.On("Entries", mock.Anything).Return(entries, err)
	return m
}

func TestLoadWithFallback(t *testing.T) {
	good := []dataset.Entry{{Keyword: "happy", Kaomoji: "(^_^)"}}
	other := []dataset.Entry{{Keyword: "sad", Kaomoji: "(T_T)"}, {Keyword: "shrug", Kaomoji: `¯\_(ツ)_/¯`}}
	invalid := []dataset.Entry{{Keyword: "happy"}}

	tests := []struct {
		name        string
		sources     func() []*MockSource
		wantSource  string
		wantLen     int
		wantErr     bool
		errContains string
	}{
		{
			name: "first_source_wins",
			sources: func() []*MockSource {
				return []*MockSource{
					newMockSource("primary", good, nil),
					{},
				}
			},
			wantSource: "primary",
			wantLen:    1,
		},
		{
			name: "falls_back_on_fetch_error",
			sources: func() []*MockSource {
				return []*MockSource{
					newMockSource("primary", nil, errors.New("connection refused")),
					newMockSource("fallback", other, nil),
				}
			},
			wantSource: "fallback",
			wantLen:    2,
		},
		{
			name: "falls_back_on_invalid_dataset",
			sources: func() []*MockSource {
				return []*MockSource{
					newMockSource("primary", invalid, nil),
					newMockSource("fallback", other, nil),
				}
			},
			wantSource: "fallback",
			wantLen:    2,
		},
		{
			name: "all_sources_fail",
			sources: func() []*MockSource {
				return []*MockSource{
					newMockSource("primary", nil, errors.New("connection refused")),
					newMockSource("fallback", nil, errors.New("file missing")),
				}
			},
			wantErr:     true,
			errContains: "file missing",
		},
		{
			name: "no_sources",
			sources: func() []*MockSource {
				return nil
			},
			wantErr:     true,
			errContains: "none configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := tt.sources()
			sources := make([]Source, 0, len(mocks))
			for _, m := range mocks {
				sources = append(sources, m)
			}

			store := dataset.New()
			src, err := LoadWithFallback(testContext(t), store, sources...)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoSource), "error should be ErrNoSource")
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Equal(t, 0, store.Len(), "store should stay empty")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, src.Name())
			assert.Equal(t, tt.wantLen, store.Len())

			for _, m := range mocks {
				m.AssertExpectations(t)
			}
		})
	}
}
