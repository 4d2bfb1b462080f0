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

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type mockGitHubClient struct {
	mock.Mock
}

func (m *mockGitHubClient) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	rel, _ := args.Get(0).(*github.RepositoryRelease)
	resp, _ := args.Get(1).(*github.Response)
	return rel, resp, args.Error(2)
}

func (m *mockGitHubClient) GetLicense(ctx context.Context, key string) (*github.License, *github.Response, error) {
	args := m.Called(ctx, key)
	lic, _ := args.Get(0).(*github.License)
	resp, _ := args.Get(1).(*github.Response)
	return lic, resp, args.Error(2)
}

// forbidden builds the response go-github attaches to rate limit errors
func forbidden() *http.Response {
	return &http.Response{
		Request:    httptest.NewRequest(http.MethodGet, "/repos/walteh/projsync/releases/latest", nil),
		StatusCode: http.StatusForbidden,
	}
}

func newTestProvider(client GitHubClient) *Provider {
	p := NewWithClient(client)
	p.backoff = 0
	return p
}

func TestLatestVersion(t *testing.T) {
	t.Run("returns_tag", func(t *testing.T) {
		ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
		client := &mockGitHubClient{}
		client.On("GetLatestRelease", mock.Anything, "walteh", "projsync").Return(
			&github.RepositoryRelease{TagName: github.String("v1.4.0")}, &github.Response{}, nil,
		)

		got, err := newTestProvider(client).LatestVersion(ctx, "walteh/projsync")
		require.NoError(t, err)
		assert.Equal(t, "v1.4.0", got)
		client.AssertExpectations(t)
	})

	retryable := []struct {
		name string
		err  func(resp *http.Response) error
	}{
		{
			name: "retries_rate_limit",
			err: func(resp *http.Response) error {
				return &github.RateLimitError{Response: resp, Message: "API rate limit exceeded"}
			},
		},
		{
			name: "retries_abuse_rate_limit",
			err: func(resp *http.Response) error {
				return &github.AbuseRateLimitError{Response: resp, Message: "secondary rate limit"}
			},
		},
	}
	for _, tt := range retryable {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			resp := forbidden()
			client := &mockGitHubClient{}
			client.On("GetLatestRelease", mock.Anything, "walteh", "projsync").Return(
				nil, &github.Response{Response: resp}, tt.err(resp),
			).Once()
			client.On("GetLatestRelease", mock.Anything, "walteh", "projsync").Return(
				&github.RepositoryRelease{TagName: github.String("v1.0.0")}, &github.Response{}, nil,
			).Once()

			got, err := newTestProvider(client).LatestVersion(ctx, "github.com/walteh/projsync")
			require.NoError(t, err)
			assert.Equal(t, "v1.0.0", got)
			client.AssertExpectations(t)
		})
	}

	t.Run("not_found", func(t *testing.T) {
		ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
		client := &mockGitHubClient{}
		client.On("GetLatestRelease", mock.Anything, "walteh", "missing").Return(
			nil,
			&github.Response{Response: &http.Response{StatusCode: http.StatusNotFound}},
			errors.New("404 Not Found"),
		)

		_, err := newTestProvider(client).LatestVersion(ctx, "walteh/missing")
		assert.True(t, errors.Is(err, remote.ErrNotFound))
	})

	t.Run("invalid_name", func(t *testing.T) {
		ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
		_, err := newTestProvider(&mockGitHubClient{}).LatestVersion(ctx, "requests")
		assert.ErrorContains(t, err, "invalid repository format")
	})
}

func TestLicense(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	client := &mockGitHubClient{}
	client.On("GetLicense", mock.Anything, "apache-2.0").Return(
		&github.License{
			SPDXID:  github.String("Apache-2.0"),
			Name:    github.String("Apache License 2.0"),
			HTMLURL: github.String("http://choosealicense.com/licenses/apache-2.0/"),
			Body:    github.String("Apache License\nVersion 2.0"),
		}, &github.Response{}, nil,
	)

	got, err := newTestProvider(client).License(ctx, "Apache-2.0")
	require.NoError(t, err)
	assert.Equal(t, &remote.License{
		ID:   "Apache-2.0",
		Name: "Apache License 2.0",
		URL:  "http://choosealicense.com/licenses/apache-2.0/",
		Text: "Apache License\nVersion 2.0",
	}, got)
}

func TestProviderOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/walteh/projsync/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"tag_name": "v2.0.0"})
	})
	mux.HandleFunc("/licenses/mit", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"key":      "mit",
			"spdx_id":  "MIT",
			"name":     "MIT License",
			"html_url": "http://choosealicense.com/licenses/mit/",
			"body":     "MIT License text",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	p, err := remote.New(ctx, "github", remote.Options{Token: "secret", BaseURL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())

	version, err := p.LatestVersion(ctx, "walteh/projsync")
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", version)

	lic, err := p.License(ctx, "MIT")
	require.NoError(t, err)
	assert.Equal(t, "MIT License", lic.Name)

	_, err = p.License(ctx, "nope")
	assert.True(t, errors.Is(err, remote.ErrNotFound))
}

func TestUnknownProvider(t *testing.T) {
	_, err := remote.New(context.Background(), "gitlab", remote.Options{})
	assert.ErrorContains(t, err, "provider gitlab not found, options: github")
}
