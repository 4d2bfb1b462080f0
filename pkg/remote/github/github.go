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
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/projsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

func init() {
	remote.Register("github", func(ctx context.Context, opts remote.Options) (remote.Provider, error) {
		return New(ctx, opts)
	})
}

const (
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
)

// 🔌 GitHubClient is the subset of the GitHub API the provider needs
type GitHubClient interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
	GetLicense(ctx context.Context, key string) (*github.License, *github.Response, error)
}

type apiClient struct {
	client *github.Client
}

func (c *apiClient) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	return c.client.Repositories.GetLatestRelease(ctx, owner, repo)
}

func (c *apiClient) GetLicense(ctx context.Context, key string) (*github.License, *github.Response, error) {
	return c.client.Licenses.Get(ctx, key)
}

// 🎯 Provider implements remote.Provider on top of the GitHub API.
// Package names are "owner/repo" and resolve to the latest release tag.
type Provider struct {
	client  GitHubClient
	backoff time.Duration
}

// 🏭 New creates a new GitHub provider. The token is optional.
func New(ctx context.Context, opts remote.Options) (*Provider, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := github.NewClient(&http.Client{Timeout: timeout})
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.Errorf("parsing base url: %w", err)
		}
		client.BaseURL = u
	}

	zerolog.Ctx(ctx).Debug().Bool("authenticated", opts.Token != "").Msg("creating github provider")

	return NewWithClient(&apiClient{client: client}), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client GitHubClient) *Provider {
	return &Provider{client: client, backoff: time.Second}
}

func (p *Provider) Name() string {
	return "github"
}

// 🔍 parseRepo splits "owner/repo", also accepting a github.com prefix
func parseRepo(name string) (owner, repo string, err error) {
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "github.com/")
	parts := strings.Split(strings.Trim(name, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository format: %s", name)
	}
	return parts[0], parts[1], nil
}

// LatestVersion returns the tag of the latest release
func (p *Provider) LatestVersion(ctx context.Context, name string) (string, error) {
	owner, repo, err := parseRepo(name)
	if err != nil {
		return "", err
	}

	var release *github.RepositoryRelease
	err = p.retry(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		release, resp, err = p.client.GetLatestRelease(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		return "", errors.Errorf("getting latest release of %s: %w", name, err)
	}
	if release.GetTagName() == "" {
		return "", errors.Errorf("latest release of %s has no tag: %w", name, remote.ErrNotFound)
	}
	return release.GetTagName(), nil
}

// License fetches license metadata. GitHub keys are lowercase SPDX ids.
func (p *Provider) License(ctx context.Context, spdxID string) (*remote.License, error) {
	var lic *github.License
	err := p.retry(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		lic, resp, err = p.client.GetLicense(ctx, strings.ToLower(spdxID))
		return resp, err
	})
	if err != nil {
		return nil, errors.Errorf("getting license %s: %w", spdxID, err)
	}

	id := lic.GetSPDXID()
	if id == "" {
		id = spdxID
	}
	return &remote.License{
		ID:   id,
		Name: lic.GetName(),
		URL:  lic.GetHTMLURL(),
		Text: lic.GetBody(),
	}, nil
}

// retry repeats rate-limited calls and maps 404 to remote.ErrNotFound
func (p *Provider) retry(ctx context.Context, call func() (*github.Response, error)) error {
	logger := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := call()
		if err == nil {
			return nil
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return errors.WithStack(remote.ErrNotFound)
		}

		var rle *github.RateLimitError
		var arle *github.AbuseRateLimitError
		if !errors.As(err, &rle) && !errors.As(err, &arle) {
			return err
		}
		lastErr = err

		logger.Warn().Int("attempt", attempt).Err(err).Msg("github rate limit hit, retrying")
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(p.backoff * time.Duration(attempt)):
		}
	}
	return errors.Errorf("rate limited after %d attempts: %w", maxAttempts, lastErr)
}
