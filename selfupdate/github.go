// SPDX-License-Identifier: MIT

package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	clicommon "github.com/workhelix/cli-common"
)

const (
	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	// Prevents unbounded memory consumption from malicious or malformed responses.
	maxJSONResponseBytes = 10 << 20

	// defaultTimeout bounds every API and download request unless the caller
	// supplies a tighter context deadline.
	defaultTimeout = 5 * time.Minute
)

type (
	// Release is the manifest of one published release: resolved tag, version,
	// and downloadable assets. Read-only after construction.
	Release struct {
		TagName    string  // Release tag, e.g. "v1.0.0" or "prompter-v1.0.0"
		Prerelease bool    // True for alpha/beta/RC releases
		HTMLURL    string  // Browser URL for the release page
		Assets     []Asset // Downloadable artifacts
	}

	// Asset is a single downloadable file attached to a release.
	Asset struct {
		Name        string // Filename, e.g. "prompter-linux-x86_64.tar.gz"
		DownloadURL string // Direct download URL
		Size        int64  // File size in bytes
		Checksum    string // Hex-encoded SHA256, empty when the release declares none
	}

	// githubRelease is the JSON wire format for a GitHub Release API response.
	githubRelease struct {
		TagName    string        `json:"tag_name"`
		Prerelease bool          `json:"prerelease"`
		HTMLURL    string        `json:"html_url"`
		Assets     []githubAsset `json:"assets"`
	}

	// githubAsset is the JSON wire format for a GitHub Release asset. The
	// digest field, when present, carries a per-asset checksum in the form
	// "sha256:<hex>".
	githubAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
		Digest             string `json:"digest"`
	}

	// Client queries the GitHub Releases API for release manifests and asset
	// downloads. The zero value is not usable; construct with NewClient.
	Client struct {
		httpClient *http.Client
		baseURL    string // API base URL (default: "https://api.github.com", overridable for tests)
		token      string // Optional GITHUB_TOKEN for authenticated requests
		userAgent  string // User-Agent header value
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		g.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets a GitHub personal access token for authenticated requests.
// Authenticated requests have a higher rate limit (5000/hour vs 60/hour).
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithTimeout bounds every request made by the client. The caller's context
// deadline still applies when it expires sooner.
func WithTimeout(d time.Duration) ClientOption {
	return func(g *Client) {
		g.httpClient.Timeout = d
	}
}

// NewClient creates a Client with sensible defaults: the public GitHub API,
// anonymous access, and a five-minute request timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    "https://api.github.com",
		userAgent:  "workhelix-cli-common",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestRelease fetches the manifest of the latest published release of repo.
// Returns ErrNotFound when the repository has no releases or does not exist.
func (c *Client) LatestRelease(ctx context.Context, repo clicommon.RepoInfo) (*Release, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, repo.Owner, repo.Name)
	return c.getRelease(ctx, reqURL, "latest release of "+repo.String())
}

// ReleaseByTag fetches the manifest of the release with the given tag.
// Returns ErrNotFound when no release carries the tag.
func (c *Client) ReleaseByTag(ctx context.Context, repo clicommon.RepoInfo, tag string) (*Release, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", c.baseURL, repo.Owner, repo.Name, tag)
	return c.getRelease(ctx, reqURL, "release "+tag+" of "+repo.String())
}

// getRelease performs a single manifest request and decodes the response.
func (c *Client) getRelease(ctx context.Context, reqURL, op string) (*Release, error) {
	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, classifyTransportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if err := checkRateLimit(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var gr githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&gr); err != nil {
		return nil, &MalformedResponseError{Op: op, Err: err}
	}

	r := toRelease(gr)
	return &r, nil
}

// DownloadAsset downloads the file at the given URL and returns the response
// body as a streaming reader. The caller is responsible for closing the
// returned ReadCloser.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (io.ReadCloser, error) {
	op := "downloading " + redactURL(assetURL)

	resp, err := c.doRequest(ctx, assetURL)
	if err != nil {
		return nil, classifyTransportError(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	return resp.Body, nil
}

// doRequest creates and executes an HTTP GET with common GitHub API headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)

	// Only attach the auth token when the request targets a known GitHub host.
	// This prevents token leakage if a download URL redirects to a third-party CDN.
	if c.token != "" && isGitHubHost(req.URL, c.baseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// classifyTransportError maps a transport failure to the error taxonomy:
// deadline expiry becomes ErrTimeout, everything else a NetworkError.
func classifyTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return &NetworkError{Op: op, Err: err}
}

// checkRateLimit inspects the X-RateLimit-* response headers and returns a
// RateLimitError when the remaining quota is zero. Only the header values are
// examined, not the HTTP status code.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		// Malformed header values are non-fatal.
		return nil
	}

	// Companion headers are best-effort; missing or malformed values default
	// to zero, which is acceptable for a diagnostic message.
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// toRelease converts the JSON wire type to the exported Release type,
// lifting any per-asset "sha256:<hex>" digest into the Checksum field.
func toRelease(gr githubRelease) Release {
	assets := make([]Asset, 0, len(gr.Assets))
	for _, ga := range gr.Assets {
		a := Asset{
			Name:        ga.Name,
			DownloadURL: ga.BrowserDownloadURL,
			Size:        ga.Size,
		}
		// Digests in other algorithms are ignored; the updater verifies SHA256 only.
		if hexDigest, ok := strings.CutPrefix(ga.Digest, "sha256:"); ok {
			a.Checksum = strings.ToLower(hexDigest)
		}
		assets = append(assets, a)
	}

	return Release{
		TagName:    gr.TagName,
		Prerelease: gr.Prerelease,
		HTMLURL:    gr.HTMLURL,
		Assets:     assets,
	}
}

// isGitHubHost reports whether reqURL targets a known GitHub host, so the
// auth token can be safely attached. It matches the configured API base URL
// host and, when the base is api.github.com, also trusts github.com and its
// object store for asset downloads.
func isGitHubHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if strings.EqualFold(reqURL.Host, base.Host) {
		return true
	}
	if strings.EqualFold(base.Host, "api.github.com") &&
		(strings.EqualFold(reqURL.Host, "github.com") ||
			strings.EqualFold(reqURL.Host, "objects.githubusercontent.com")) {
		return true
	}
	return false
}

// redactURL strips query parameters and fragments from a URL for safe
// inclusion in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
