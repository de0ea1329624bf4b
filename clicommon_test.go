// SPDX-License-Identifier: MIT

package clicommon

import "testing"

func TestNewRepoInfo_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewRepoInfo("workhelix", "prompter")

	if repo.Owner != "workhelix" {
		t.Errorf("Owner = %q, want %q", repo.Owner, "workhelix")
	}
	if repo.Name != "prompter" {
		t.Errorf("Name = %q, want %q", repo.Name, "prompter")
	}
	if repo.TagPrefix != "v" {
		t.Errorf("TagPrefix = %q, want %q", repo.TagPrefix, "v")
	}
}

func TestRepoInfo_ReleaseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		repo RepoInfo
		ver  string
		want string
	}{
		{"conventional prefix", NewRepoInfo("workhelix", "prompter"), "1.2.0", "v1.2.0"},
		{"tool-scoped prefix", NewRepoInfoWithPrefix("workhelix", "tools", "prompter-v"), "0.9.1", "prompter-v0.9.1"},
		{"empty prefix", NewRepoInfoWithPrefix("workhelix", "raw", ""), "2.0.0", "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.repo.ReleaseTag(tt.ver); got != tt.want {
				t.Errorf("ReleaseTag(%q) = %q, want %q", tt.ver, got, tt.want)
			}
		})
	}
}

func TestRepoInfo_URLs(t *testing.T) {
	t.Parallel()

	repo := NewRepoInfo("workhelix", "prompter")

	if got, want := repo.LatestReleaseURL(), "https://api.github.com/repos/workhelix/prompter/releases/latest"; got != want {
		t.Errorf("LatestReleaseURL() = %q, want %q", got, want)
	}
	if got, want := repo.TaggedReleaseURL("v1.0.0"), "https://api.github.com/repos/workhelix/prompter/releases/tags/v1.0.0"; got != want {
		t.Errorf("TaggedReleaseURL() = %q, want %q", got, want)
	}
	if got, want := repo.HTMLURL(), "https://github.com/workhelix/prompter"; got != want {
		t.Errorf("HTMLURL() = %q, want %q", got, want)
	}
	if got, want := repo.String(), "workhelix/prompter"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
