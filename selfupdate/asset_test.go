// SPDX-License-Identifier: MIT

package selfupdate

import (
	"errors"
	"testing"
)

func release(names ...string) *Release {
	r := &Release{TagName: "v1.0.0"}
	for _, n := range names {
		r.Assets = append(r.Assets, Asset{Name: n, DownloadURL: "https://example.com/" + n})
	}
	return r
}

func TestSelectAsset_SingleMatch(t *testing.T) {
	t.Parallel()

	rel := release(
		"tool-linux-x86_64.tar.gz",
		"tool-darwin-x86_64.tar.gz",
		"tool-darwin-aarch64.tar.gz",
		"checksums.txt",
	)

	asset, err := SelectAsset(rel, Platform{OS: "linux", Arch: "amd64"}, "tool")
	if err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	if asset.Name != "tool-linux-x86_64.tar.gz" {
		t.Errorf("selected %q, want tool-linux-x86_64.tar.gz", asset.Name)
	}
}

func TestSelectAsset_NoMatchIsUnsupportedPlatform(t *testing.T) {
	t.Parallel()

	rel := release("tool-linux-x86_64.tar.gz", "tool-darwin-x86_64.tar.gz")

	_, err := SelectAsset(rel, Platform{OS: "windows", Arch: "arm64"}, "tool")
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("error = %v, want ErrUnsupportedPlatform", err)
	}

	var upErr *UnsupportedPlatformError
	if !errors.As(err, &upErr) {
		t.Fatalf("error is not *UnsupportedPlatformError: %v", err)
	}
	if upErr.Token != "windows-aarch64" {
		t.Errorf("Token = %q, want windows-aarch64", upErr.Token)
	}
}

func TestSelectAsset_64BitAssetNeverServes32BitPlatform(t *testing.T) {
	t.Parallel()

	// A release with only 64-bit builds offers nothing runnable on a 32-bit
	// host; selection must refuse rather than hand over an arm64 or x86_64
	// binary whose name happens to contain the 32-bit token.
	tests := []struct {
		name     string
		assets   []string
		platform Platform
	}{
		{"arm vs arm64 only", []string{"tool-linux-arm64.tar.gz"}, Platform{OS: "linux", Arch: "arm"}},
		{"386 vs x86_64 only", []string{"tool-linux-x86_64.tar.gz"}, Platform{OS: "linux", Arch: "386"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := SelectAsset(release(tt.assets...), tt.platform, "tool")
			if !errors.Is(err, ErrUnsupportedPlatform) {
				t.Fatalf("error = %v, want ErrUnsupportedPlatform", err)
			}
		})
	}
}

func TestSelectAsset_32BitAssetPreferredOn32BitPlatform(t *testing.T) {
	t.Parallel()

	rel := release("tool-linux-arm64.tar.gz", "tool-linux-armv7.tar.gz")

	asset, err := SelectAsset(rel, Platform{OS: "linux", Arch: "arm"}, "tool")
	if err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	if asset.Name != "tool-linux-armv7.tar.gz" {
		t.Errorf("selected %q, want tool-linux-armv7.tar.gz", asset.Name)
	}
}

func TestSelectAsset_SidecarsNeverSelected(t *testing.T) {
	t.Parallel()

	rel := release(
		"tool-linux-x86_64.tar.gz",
		"tool-linux-x86_64.tar.gz.sha256",
		"tool-linux-x86_64.tar.gz.sig",
		"checksums.txt",
	)

	asset, err := SelectAsset(rel, Platform{OS: "linux", Arch: "amd64"}, "tool")
	if err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	if asset.Name != "tool-linux-x86_64.tar.gz" {
		t.Errorf("selected %q, want the binary archive", asset.Name)
	}
}

func TestSelectAsset_TieBreakByBinaryName(t *testing.T) {
	t.Parallel()

	// Both assets match linux/amd64; the one named after the binary wins.
	rel := release(
		"helper-scripts-linux-x86_64.tar.gz",
		"tool-linux-x86_64.tar.gz",
	)

	asset, err := SelectAsset(rel, Platform{OS: "linux", Arch: "amd64"}, "tool")
	if err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	if asset.Name != "tool-linux-x86_64.tar.gz" {
		t.Errorf("selected %q, want tool-linux-x86_64.tar.gz", asset.Name)
	}
}

func TestSelectAsset_AmbiguousWhenEquallyGood(t *testing.T) {
	t.Parallel()

	rel := release(
		"tool-linux-x86_64.tar.gz",
		"tool-linux-amd64.tar.gz",
	)

	_, err := SelectAsset(rel, Platform{OS: "linux", Arch: "amd64"}, "tool")
	if !errors.Is(err, ErrAmbiguousAsset) {
		t.Fatalf("error = %v, want ErrAmbiguousAsset", err)
	}
}

func TestSelectAsset_ExactBasenameBeatsPrefix(t *testing.T) {
	t.Parallel()

	rel := release(
		"tool-linux-x86_64-debug.tar.gz",
		"tool.tar.gz", // exact basename, but must still match the platform
	)

	// "tool.tar.gz" carries no platform token, so only the debug build
	// matches; no ambiguity.
	asset, err := SelectAsset(rel, Platform{OS: "linux", Arch: "amd64"}, "tool")
	if err != nil {
		t.Fatalf("SelectAsset: %v", err)
	}
	if asset.Name != "tool-linux-x86_64-debug.tar.gz" {
		t.Errorf("selected %q", asset.Name)
	}
}

func TestNewPlan_ValidatesPlatform(t *testing.T) {
	t.Parallel()

	platform := Platform{OS: "linux", Arch: "amd64"}

	if _, err := NewPlan(Asset{Name: "tool-linux-x86_64.tar.gz"}, platform, "/usr/local/bin/tool", "/usr/local/bin/tool"); err != nil {
		t.Errorf("NewPlan(matching asset) error: %v", err)
	}

	_, err := NewPlan(Asset{Name: "tool-darwin-aarch64.tar.gz"}, platform, "/usr/local/bin/tool", "/usr/local/bin/tool")
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("NewPlan(mismatched asset) error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestNameScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		asset string
		bin   string
		want  int
	}{
		{"tool.tar.gz", "tool", 3},
		{"tool-linux-x86_64.tar.gz", "tool", 2},
		{"tool_1.0.0_linux_amd64.tar.gz", "tool", 2},
		{"mytool-linux-x86_64.tar.gz", "tool", 1},
		{"other-linux-x86_64.tar.gz", "tool", 0},
	}

	for _, tt := range tests {
		t.Run(tt.asset, func(t *testing.T) {
			t.Parallel()
			if got := nameScore(tt.asset, tt.bin); got != tt.want {
				t.Errorf("nameScore(%q, %q) = %d, want %d", tt.asset, tt.bin, got, tt.want)
			}
		})
	}
}

func TestIsSidecar(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"tool-linux-x86_64.tar.gz":        false,
		"tool-linux-x86_64.tar.gz.sha256": true,
		"checksums.txt":                   true,
		"tool.sig":                        true,
		"provenance.json":                 true,
		"tool-windows-x86_64.exe":         false,
	} {
		if got := isSidecar(name); got != want {
			t.Errorf("isSidecar(%q) = %v, want %v", name, got, want)
		}
	}
}
