// SPDX-License-Identifier: MIT

// Package clicommon provides shared building blocks for Workhelix CLI tools:
// shell completion generation, a doctor health-check framework, license
// display, TTY-aware colored output, and GitHub-release self-update.
//
// The subpackages are independent; a host tool wires in only what it needs.
// The root package holds the types shared across them.
package clicommon

import "fmt"

// RepoInfo identifies the GitHub repository a tool is released from.
// It is constructed once at tool startup from static configuration and
// never mutated afterwards.
type RepoInfo struct {
	// Owner is the repository owner, e.g. "workhelix".
	Owner string
	// Name is the repository name, e.g. "prompter".
	Name string
	// TagPrefix is prepended to a semantic version to form a release tag,
	// e.g. "v" or "prompter-v".
	TagPrefix string
}

// NewRepoInfo creates a RepoInfo with the conventional "v" tag prefix.
func NewRepoInfo(owner, name string) RepoInfo {
	return RepoInfo{Owner: owner, Name: name, TagPrefix: "v"}
}

// NewRepoInfoWithPrefix creates a RepoInfo with an explicit tag prefix for
// repositories that release multiple tools, e.g. "prompter-v".
func NewRepoInfoWithPrefix(owner, name, tagPrefix string) RepoInfo {
	return RepoInfo{Owner: owner, Name: name, TagPrefix: tagPrefix}
}

// ReleaseTag builds the release tag for a version, e.g. "v1.2.0".
func (r RepoInfo) ReleaseTag(version string) string {
	return r.TagPrefix + version
}

// LatestReleaseURL returns the GitHub API endpoint for the latest release.
func (r RepoInfo) LatestReleaseURL() string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", r.Owner, r.Name)
}

// TaggedReleaseURL returns the GitHub API endpoint for the release with the
// given tag.
func (r RepoInfo) TaggedReleaseURL(tag string) string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/tags/%s", r.Owner, r.Name, tag)
}

// HTMLURL returns the browser URL of the repository.
func (r RepoInfo) HTMLURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", r.Owner, r.Name)
}

// String returns the "owner/name" form used in log and error messages.
func (r RepoInfo) String() string {
	return r.Owner + "/" + r.Name
}
